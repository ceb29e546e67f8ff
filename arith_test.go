package quad

import "testing"

func TestAddSpecials(t *testing.T) {
	one := FromFloat64(1)
	testCases := []struct {
		name string
		a, b Float128
		nan  bool
		want Float128
	}{
		{name: "nan+1", a: NaN(), b: one, nan: true},
		{name: "1+nan", a: one, b: NaN(), nan: true},
		{name: "inf+inf", a: Inf(1), b: Inf(1), want: Inf(1)},
		{name: "inf-inf", a: Inf(1), b: Inf(-1), nan: true},
		{name: "inf+1", a: Inf(1), b: one, want: Inf(1)},
		{name: "1-inf", a: one, b: Inf(-1), want: Inf(-1)},
		{name: "0+0", a: Float128{}, b: Float128{}, want: Float128{}},
		{name: "-0+-0", a: zeroBits(true), b: zeroBits(true), want: zeroBits(true)},
		{name: "-0+0", a: zeroBits(true), b: Float128{}, want: Float128{}},
		{name: "1+2", a: one, b: FromFloat64(2), want: FromFloat64(3)},
		{name: "1-1", a: one, b: FromFloat64(-1), want: Float128{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.a.Add(tc.b)
			if tc.nan {
				if !got.IsNaN() {
					t.Errorf("got: %v want: NaN", got)
				}
				return
			}
			if got != tc.want {
				t.Errorf("got: %v want: %v", got, tc.want)
			}
		})
	}
}

func TestAddRounding(t *testing.T) {
	one := FromFloat64(1)

	// Half an ulp of 1 vanishes; a full ulp survives exactly.
	ulp := mustParse(t, "0x1p-112")
	below := mustParse(t, "0x1p-120")
	if got := one.Add(below).Sub(one); !got.IsZero() {
		t.Errorf("1 + 2**-120 - 1: got: %v want: 0", got)
	}
	if got := one.Add(ulp).Sub(one); got != ulp {
		t.Errorf("1 + ulp - 1: got: %v want: %v", got, ulp)
	}
}

func TestMul(t *testing.T) {
	if got := FromFloat64(3).Mul(FromFloat64(4)); got != FromFloat64(12) {
		t.Errorf("3*4: got: %v", got)
	}
	if got := FromFloat64(-3).Mul(FromFloat64(4)); got != FromFloat64(-12) {
		t.Errorf("-3*4: got: %v", got)
	}
	if got := Inf(1).Mul(Float128{}); !got.IsNaN() {
		t.Errorf("Inf*0: got: %v want: NaN", got)
	}
	if got := Inf(1).Mul(FromFloat64(-2)); !got.IsInf(-1) {
		t.Errorf("Inf*-2: got: %v want: -Inf", got)
	}
	if got := FromFloat64(-2).Mul(Float128{}); !got.IsZero() || !got.Signbit() {
		t.Errorf("-2*0: got: %v want: -0", got)
	}
	// Overflow.
	huge := mustParse(t, "0x1p+8200")
	if got := huge.Mul(huge); !got.IsInf(1) {
		t.Errorf("overflowing product: got: %v want: +Inf", got)
	}
}

func TestMulSubnormalUnderflow(t *testing.T) {
	min := SmallestNonzeroFloat128()
	half := FromFloat64(0.5)

	// min * 0.5 is an exact tie at half the smallest subnormal; even
	// rounding gives zero.
	if got := min.Mul(half); !got.IsZero() {
		t.Errorf("min*0.5: got: %v want: 0", got)
	}
	// min * 0.75 rounds up to min.
	if got := min.Mul(FromFloat64(0.75)); got != min {
		t.Errorf("min*0.75: got: %v want: min", got)
	}
	// min * 3 is exact.
	if got := min.Mul(FromFloat64(3)); (got != Float128{lo: 3}) {
		t.Errorf("min*3: got: %v", got)
	}
}

func TestDiv(t *testing.T) {
	one := FromFloat64(1)
	if got := one.Div(FromFloat64(4)); got != FromFloat64(0.25) {
		t.Errorf("1/4: got: %v", got)
	}
	if got := one.Div(Float128{}); !got.IsInf(1) {
		t.Errorf("1/0: got: %v want: +Inf", got)
	}
	if got := one.Neg().Div(Float128{}); !got.IsInf(-1) {
		t.Errorf("-1/0: got: %v want: -Inf", got)
	}
	var zero Float128
	if got := zero.Div(zero); !got.IsNaN() {
		t.Errorf("0/0: got: %v want: NaN", got)
	}
	if got := Inf(1).Div(Inf(1)); !got.IsNaN() {
		t.Errorf("Inf/Inf: got: %v want: NaN", got)
	}
	if got := one.Div(Inf(-1)); !got.IsZero() || !got.Signbit() {
		t.Errorf("1/-Inf: got: %v want: -0", got)
	}
	if got := Inf(-1).Div(FromFloat64(2)); !got.IsInf(-1) {
		t.Errorf("-Inf/2: got: %v want: -Inf", got)
	}
}

func TestDivExactTie(t *testing.T) {
	// a/b == 2**-16495 exactly: a tie rounding to even zero.
	a := mustParse(t, "0x1p-16400")
	b := mustParse(t, "0x1p+95")
	if got := a.Div(b); !got.IsZero() {
		t.Errorf("exact tie quotient: got: %v want: 0", got)
	}
	// Slightly larger magnitude rounds up to the smallest subnormal.
	a = mustParse(t, "0x1.8p-16400")
	if got := a.Div(b); got != SmallestNonzeroFloat128() {
		t.Errorf("above-tie quotient: got: %v want: min", got)
	}
}

func TestSqrt(t *testing.T) {
	if got := FromFloat64(4).Sqrt(); got != FromFloat64(2) {
		t.Errorf("sqrt(4): got: %v", got)
	}
	if got := FromFloat64(-1).Sqrt(); !got.IsNaN() {
		t.Errorf("sqrt(-1): got: %v want: NaN", got)
	}
	if got := Inf(1).Sqrt(); !got.IsInf(1) {
		t.Errorf("sqrt(Inf): got: %v want: +Inf", got)
	}
	if got := zeroBits(true).Sqrt(); !got.IsZero() || !got.Signbit() {
		t.Errorf("sqrt(-0): got: %v want: -0", got)
	}

	// sqrt(2)**2 stays within a couple of ulps of 2.
	two := FromFloat64(2)
	r := two.Sqrt()
	diff := r.Mul(r).Sub(two).Abs()
	if bound := mustParse(t, "1e-33"); diff.Cmp(bound) >= 0 {
		t.Errorf("sqrt(2)**2 - 2 = %v, want below %v", diff, bound)
	}
}
