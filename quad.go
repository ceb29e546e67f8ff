// Package quad implements an IEEE 754 binary128 ("quadruple precision")
// floating-point value type with correctly-rounded conversion to and from
// decimal text.
package quad

// A Float128 holds the raw bits of an IEEE 754 binary128 value:
// 1 sign bit, 15 exponent bits and 112 fraction bits.
// The hi word carries the sign, the exponent and the top 48 fraction bits,
// the lo word the remaining 64 fraction bits.
// The zero value is +0.
type Float128 struct {
	hi, lo uint64
}

const (
	signMask = uint64(1) << 63
	expMask  = uint64(0x7fff) << 48
	fracMask = uint64(1)<<48 - 1 // fraction bits in hi

	expBits  = 15
	expBias  = 16383
	fracBits = 112 // explicit fraction bits
	mantBits = 113 // fraction plus implicit leading bit

	// Exponent limits in the convention used by big.Float.MantExp:
	// a value x satisfies 0.5 <= |mant| < 1 and x = mant * 2**exp,
	// so the smallest positive normal 2**-16382 has exp == -16381.
	minNormalExp = -16381
	maxExp       = 16384
	// Smallest subnormal is 2**-16494.
	minSubExp = -16493
)

// FromBits returns the Float128 with the given raw bit representation,
// hi holding the most significant 64 bits.
func FromBits(hi, lo uint64) Float128 {
	return Float128{hi: hi, lo: lo}
}

// Bits returns the raw bit representation of f.
func (f Float128) Bits() (hi, lo uint64) {
	return f.hi, f.lo
}

// NaN returns the canonical quiet not-a-number.
func NaN() Float128 {
	return Float128{hi: 0x7fff_8000_0000_0000}
}

// Inf returns positive infinity if sign >= 0, negative infinity otherwise.
func Inf(sign int) Float128 {
	f := Float128{hi: expMask}
	if sign < 0 {
		f.hi |= signMask
	}
	return f
}

// MaxFloat128 returns the largest finite Float128,
// (2-2**-112) * 2**16383.
func MaxFloat128() Float128 {
	return Float128{hi: 0x7ffe_ffff_ffff_ffff, lo: ^uint64(0)}
}

// SmallestNonzeroFloat128 returns the smallest positive nonzero Float128,
// the subnormal 2**-16494.
func SmallestNonzeroFloat128() Float128 {
	return Float128{lo: 1}
}

// Signbit reports whether f is negative or negative zero.
func (f Float128) Signbit() bool {
	return f.hi&signMask != 0
}

// IsNaN reports whether f is a not-a-number value.
func (f Float128) IsNaN() bool {
	return f.hi&expMask == expMask && (f.hi&fracMask != 0 || f.lo != 0)
}

// IsInf reports whether f is an infinity, according to sign.
// If sign > 0, IsInf reports whether f is positive infinity.
// If sign < 0, IsInf reports whether f is negative infinity.
// If sign == 0, IsInf reports whether f is either infinity.
func (f Float128) IsInf(sign int) bool {
	if f.hi&expMask != expMask || f.hi&fracMask != 0 || f.lo != 0 {
		return false
	}
	if sign == 0 {
		return true
	}
	return (sign > 0) == (f.hi&signMask == 0)
}

// IsZero reports whether f is zero of either sign.
func (f Float128) IsZero() bool {
	return f.hi&^signMask == 0 && f.lo == 0
}

// IsSubnormal reports whether f is nonzero with the minimum exponent.
func (f Float128) IsSubnormal() bool {
	return f.hi&expMask == 0 && !f.IsZero()
}

// isFinite reports whether f is neither NaN nor an infinity.
func (f Float128) isFinite() bool {
	return f.hi&expMask != expMask
}

// Neg returns f with its sign bit flipped. Neg(NaN) is a NaN.
func (f Float128) Neg() Float128 {
	f.hi ^= signMask
	return f
}

// Abs returns f with its sign bit cleared. Abs(NaN) is a NaN.
func (f Float128) Abs() Float128 {
	f.hi &^= signMask
	return f
}

// Eq reports whether f == g per IEEE semantics:
// zeros of either sign compare equal, NaN compares unequal to everything,
// including itself.
func (f Float128) Eq(g Float128) bool {
	if f.IsNaN() || g.IsNaN() {
		return false
	}
	if f.IsZero() && g.IsZero() {
		return true
	}
	return f.hi == g.hi && f.lo == g.lo
}

// Cmp compares f and g and returns
//
//	-1 if f <  g
//	 0 if f == g (including zeros of opposite sign)
//	+1 if f >  g
//
// The result is unspecified if either operand is a NaN.
func (f Float128) Cmp(g Float128) int {
	if f.IsZero() && g.IsZero() {
		return 0
	}
	fh, fl := orderedBits(f)
	gh, gl := orderedBits(g)
	switch {
	case fh < gh, fh == gh && fl < gl:
		return -1
	case fh == gh && fl == gl:
		return 0
	}
	return 1
}

// orderedBits maps the bit pattern to a pair of words whose unsigned
// comparison matches the numeric ordering of the values.
func orderedBits(f Float128) (hi, lo uint64) {
	if f.hi&signMask != 0 {
		return ^f.hi, ^f.lo
	}
	return f.hi | signMask, f.lo
}

// sign returns -1 for negative values (including -0), +1 otherwise.
func (f Float128) sign() int {
	if f.Signbit() {
		return -1
	}
	return 1
}
