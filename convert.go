package quad

import (
	"errors"
	"math"
	"math/big"
)

// ErrNaNConversion is the panic value for conversions of NaN to
// representations that cannot express it, mirroring big.ErrNaN.
var ErrNaNConversion = errors.New("quad: conversion of NaN")

// Big returns the exact value of f as a *big.Float.
// Infinities convert to big.Float infinities.
// Big panics with ErrNaNConversion if f is a NaN, as big.Float
// cannot represent one.
func (f Float128) Big() *big.Float {
	if f.IsNaN() {
		panic(ErrNaNConversion)
	}
	neg := f.Signbit()
	if !f.isFinite() {
		return new(big.Float).SetInf(neg)
	}
	if f.IsZero() {
		z := new(big.Float)
		if neg {
			z.Neg(z)
		}
		return z
	}

	// Assemble the integer significand.
	m := new(big.Int).SetUint64(f.hi & fracMask)
	m.Lsh(m, 64)
	m.Or(m, new(big.Int).SetUint64(f.lo))
	biased := int(f.hi >> 48 & 0x7fff)
	var e int
	if biased == 0 {
		// subnormal: 0.f * 2**(1-bias)
		e = 1 - expBias - fracBits
	} else {
		m.SetBit(m, fracBits, 1) // implicit leading bit
		e = biased - expBias - fracBits
	}

	z := new(big.Float).SetPrec(mantBits).SetInt(m)
	z.SetMantExp(z, e) // z * 2**e
	if neg {
		z.Neg(z)
	}
	return z
}

// FromBig returns the Float128 nearest to x (rounding to nearest, ties to
// even) and the accuracy of the result relative to x. Values too large in
// magnitude become an infinity with accuracy Below or Above; values too
// small become a signed zero.
func FromBig(x *big.Float) (Float128, big.Accuracy) {
	neg := x.Signbit()
	if x.IsInf() {
		return Inf(boolSign(neg)), big.Exact
	}
	if x.Sign() == 0 {
		return zeroBits(neg), big.Exact
	}
	return roundFinite(neg,
		func(prec uint) *big.Float {
			return new(big.Float).SetPrec(prec).SetMode(big.ToNearestEven).Set(x)
		},
		func() int {
			half := new(big.Float).SetMantExp(big.NewFloat(1), minSubExp-2)
			return new(big.Float).Abs(x).Cmp(half)
		})
}

// roundFinite rounds a nonzero finite magnitude to Float128.
// round must return the source value correctly rounded to prec bits with
// ties to even; cmpHalf must compare the exact magnitude against
// 2**-16495, half the smallest subnormal. Both operate on the original
// value so every path rounds exactly once.
func roundFinite(neg bool, round func(prec uint) *big.Float, cmpHalf func() int) (Float128, big.Accuracy) {
	z := round(mantBits)
	acc := z.Acc()
	exp := z.MantExp(nil)

	switch {
	case exp > maxExp:
		if neg {
			return Inf(-1), big.Below
		}
		return Inf(1), big.Above

	case exp < minNormalExp:
		p := exp - minSubExp + 1
		if p < 1 {
			return roundTiny(neg, cmpHalf())
		}
		z = round(uint(p))
		acc = z.Acc()
		exp = z.MantExp(nil)
	}
	return packBits(z, exp, neg), acc
}

// roundTiny handles magnitudes below the smallest subnormal, where the
// result is either zero or the minimum subnormal. cmp is the comparison
// of the magnitude against half the smallest subnormal.
func roundTiny(neg bool, cmp int) (Float128, big.Accuracy) {
	if cmp <= 0 {
		// Ties round to even, and zero is the even neighbor.
		if neg {
			return zeroBits(true), big.Above
		}
		return zeroBits(false), big.Below
	}
	f := Float128{lo: 1}
	if neg {
		f.hi = signMask
		return f, big.Below
	}
	return f, big.Above
}

// packBits encodes the already-rounded nonzero finite value z, with
// MantExp-convention exponent exp, into Float128 bits.
func packBits(z *big.Float, exp int, neg bool) Float128 {
	p := int(z.MinPrec())
	mant := new(big.Float)
	z.MantExp(mant)
	mant.Abs(mant)
	mi, _ := new(big.Float).SetMantExp(mant, p).Int(nil)

	var f Float128
	if exp >= minNormalExp {
		// normal: widen the significand to the full 113 bits
		mi.Lsh(mi, uint(mantBits-p))
		mi.SetBit(mi, fracBits, 0) // clear the implicit bit
		f.hi = uint64(exp+expBias-1) << 48
	} else {
		// subnormal: align the significand to the 2**-16494 grid
		mi.Lsh(mi, uint(exp-minSubExp+1-p))
	}
	f.hi |= new(big.Int).Rsh(mi, 64).Uint64()
	f.lo = mi.Uint64()
	if neg {
		f.hi |= signMask
	}
	return f
}

func zeroBits(neg bool) Float128 {
	if neg {
		return Float128{hi: signMask}
	}
	return Float128{}
}

// FromFloat64 returns x as a Float128. The conversion is exact for all
// finite values; NaN maps to the canonical NaN.
func FromFloat64(x float64) Float128 {
	switch {
	case math.IsNaN(x):
		return NaN()
	case math.IsInf(x, 1):
		return Inf(1)
	case math.IsInf(x, -1):
		return Inf(-1)
	case x == 0:
		return zeroBits(math.Signbit(x))
	}
	f, _ := FromBig(new(big.Float).SetFloat64(x))
	return f
}

// Float64 returns the float64 nearest to f and the accuracy of the
// conversion. NaN converts to NaN with accuracy Exact.
func (f Float128) Float64() (float64, big.Accuracy) {
	if f.IsNaN() {
		return math.NaN(), big.Exact
	}
	if f.IsZero() {
		return math.Copysign(0, float64(f.sign())), big.Exact
	}
	return f.Big().Float64()
}

func boolSign(neg bool) int {
	if neg {
		return -1
	}
	return 1
}
