package quad

import "math/big"

// Arithmetic on Float128 is correctly rounded: each operation computes the
// exact mathematical result of its operands and rounds once, to nearest
// with ties to even, honoring the subnormal range and overflowing to
// infinity. NaN operands propagate.

// roundOp rounds the result of op, which must write the correctly-rounded
// value at z's precision into z. cmpHalf compares the exact magnitude of
// the result against half the smallest subnormal; operations whose
// results cannot reach that range pass notTiny.
func roundOp(neg bool, op func(z *big.Float) *big.Float, cmpHalf func() int) Float128 {
	f, _ := roundFinite(neg, func(prec uint) *big.Float {
		return op(new(big.Float).SetPrec(prec).SetMode(big.ToNearestEven))
	}, cmpHalf)
	return f
}

func notTiny() int { return 1 }

// Add returns the sum f+g.
func (f Float128) Add(g Float128) Float128 {
	if f.IsNaN() || g.IsNaN() {
		return NaN()
	}
	switch {
	case f.IsInf(0) && g.IsInf(0):
		if f.Signbit() == g.Signbit() {
			return f
		}
		return NaN() // Inf + -Inf
	case f.IsInf(0):
		return f
	case g.IsInf(0):
		return g
	}
	if f.IsZero() && g.IsZero() {
		// Only -0 + -0 keeps the sign under round-to-nearest.
		return zeroBits(f.Signbit() && g.Signbit())
	}
	a, b := f.Big(), g.Big()
	r := new(big.Float).SetPrec(mantBits).SetMode(big.ToNearestEven).Add(a, b)
	if r.Sign() == 0 {
		return zeroBits(false) // exact cancellation
	}
	// A nonzero sum of two binary128 values lies on the 2**-16494 grid,
	// so it can never round to below the smallest subnormal.
	return roundOp(r.Signbit(), func(z *big.Float) *big.Float {
		return z.Add(a, b)
	}, notTiny)
}

// Sub returns the difference f-g.
func (f Float128) Sub(g Float128) Float128 {
	return f.Add(g.Neg())
}

// Mul returns the product f*g.
func (f Float128) Mul(g Float128) Float128 {
	if f.IsNaN() || g.IsNaN() {
		return NaN()
	}
	neg := f.Signbit() != g.Signbit()
	switch {
	case f.IsInf(0), g.IsInf(0):
		if f.IsZero() || g.IsZero() {
			return NaN() // 0 * Inf
		}
		return Inf(boolSign(neg))
	case f.IsZero(), g.IsZero():
		return zeroBits(neg)
	}
	a, b := f.Abs().Big(), g.Abs().Big()
	return roundOp(neg, func(z *big.Float) *big.Float {
		return z.Mul(a, b)
	}, func() int {
		// The exact product fits in 226 bits.
		exact := new(big.Float).SetPrec(2 * mantBits).Mul(a, b)
		half := new(big.Float).SetMantExp(big.NewFloat(1), minSubExp-2)
		return exact.Cmp(half)
	})
}

// Div returns the quotient f/g. Div(0, 0) and Div(Inf, Inf) are NaN;
// division of a nonzero value by zero returns an infinity.
func (f Float128) Div(g Float128) Float128 {
	if f.IsNaN() || g.IsNaN() {
		return NaN()
	}
	neg := f.Signbit() != g.Signbit()
	switch {
	case f.IsInf(0):
		if g.IsInf(0) {
			return NaN()
		}
		return Inf(boolSign(neg))
	case g.IsInf(0):
		return zeroBits(neg)
	case g.IsZero():
		if f.IsZero() {
			return NaN()
		}
		return Inf(boolSign(neg))
	case f.IsZero():
		return zeroBits(neg)
	}
	a, b := f.Abs().Big(), g.Abs().Big()
	return roundOp(neg, func(z *big.Float) *big.Float {
		return z.Quo(a, b)
	}, func() int {
		// |a/b| compared to 2**-16495 is |a| compared to b*2**-16495,
		// which is exact, being just an exponent shift of b.
		t := new(big.Float).SetMantExp(b, minSubExp-2)
		return a.Cmp(t)
	})
}

// Sqrt returns the square root of f. Sqrt(±0) is ±0, Sqrt(+Inf) is +Inf
// and the square root of a negative value is NaN.
func (f Float128) Sqrt() Float128 {
	switch {
	case f.IsNaN():
		return NaN()
	case f.IsZero():
		return f
	case f.Signbit():
		return NaN()
	case f.IsInf(1):
		return f
	}
	x := f.Big()
	// Square roots of subnormals stay far above the subnormal range.
	return roundOp(false, func(z *big.Float) *big.Float {
		return z.Sqrt(x)
	}, notTiny)
}
