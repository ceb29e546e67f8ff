package quad

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
)

// ErrRange indicates that a value is out of range for Float128.
var ErrRange = errors.New("value out of range")

// ErrSyntax indicates that a value does not have the right syntax.
var ErrSyntax = errors.New("invalid syntax")

// A NumError records a failed conversion, in the shape of strconv.NumError.
type NumError struct {
	Func string // the failing function (ParseFloat128)
	Num  string // the input
	Err  error  // the reason (ErrRange, ErrSyntax)
}

func (e *NumError) Error() string {
	return "quad." + e.Func + ": parsing " + strconv.Quote(e.Num) + ": " + e.Err.Error()
}

func (e *NumError) Unwrap() error { return e.Err }

func syntaxError(s string) (Float128, error) {
	return Float128{}, &NumError{Func: "ParseFloat128", Num: s, Err: ErrSyntax}
}

func rangeError(f Float128, s string) (Float128, error) {
	return f, &NumError{Func: "ParseFloat128", Num: s, Err: ErrRange}
}

// ParseFloat128 converts the string s to a Float128, rounding to nearest
// with ties to even.
//
// ParseFloat128 accepts decimal and hexadecimal floating-point numbers as
// defined by the Go syntax for floating-point literals, without digit
// separators. It also recognizes the strings "NaN", and (possibly signed)
// "Inf" and "Infinity", ignoring case.
//
// If s is well formed but more than half an ulp beyond the largest finite
// Float128, the result is the appropriately signed infinity and the error
// is a *NumError wrapping ErrRange. If s underflows to zero the result is
// a signed zero with the same range error.
func ParseFloat128(s string) (Float128, error) {
	if f, ok := parseSpecial(s); ok {
		return f, nil
	}

	rest := s
	neg := false
	if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
		neg = rest[0] == '-'
		rest = rest[1:]
	}

	if len(rest) > 2 && (rest[1] == 'x' || rest[1] == 'X') && rest[0] == '0' {
		mant, exp2, ok := scanHex(rest[2:])
		if !ok {
			return syntaxError(s)
		}
		return finishParse(fromBinaryParts(neg, mant, exp2), mant, s)
	}

	mant, exp10, ok := scanDecimal(rest)
	if !ok {
		return syntaxError(s)
	}
	return finishParse(fromDecimalParts(neg, mant, exp10), mant, s)
}

// finishParse maps overflow and underflow of a well-formed input to range
// errors.
func finishParse(f Float128, mant *big.Int, s string) (Float128, error) {
	if mant.Sign() != 0 && (f.IsInf(0) || f.IsZero()) {
		return rangeError(f, s)
	}
	return f, nil
}

func parseSpecial(s string) (Float128, bool) {
	switch {
	case strings.EqualFold(s, "nan"):
		return NaN(), true
	case strings.EqualFold(s, "inf"), strings.EqualFold(s, "+inf"),
		strings.EqualFold(s, "infinity"), strings.EqualFold(s, "+infinity"):
		return Inf(1), true
	case strings.EqualFold(s, "-inf"), strings.EqualFold(s, "-infinity"):
		return Inf(-1), true
	}
	return Float128{}, false
}

// scanDecimal reads an unsigned decimal mantissa with an optional decimal
// point and exponent part, returning the integer formed by the mantissa
// digits and the power of ten it has to be scaled by.
func scanDecimal(s string) (mant *big.Int, exp10 int, ok bool) {
	i := 0
	sawDigits := false
	sawDot := false
	var digits []byte
	fracDigits := 0
	for ; i < len(s); i++ {
		switch c := s[i]; {
		case c == '.':
			if sawDot {
				return nil, 0, false
			}
			sawDot = true
		case '0' <= c && c <= '9':
			sawDigits = true
			digits = append(digits, c)
			if sawDot {
				fracDigits++
			}
		default:
			goto exponent
		}
	}
exponent:
	if !sawDigits {
		return nil, 0, false
	}
	exp10 = -fracDigits
	if i < len(s) {
		if s[i] != 'e' && s[i] != 'E' {
			return nil, 0, false
		}
		e, ok := scanExponent(s[i+1:])
		if !ok {
			return nil, 0, false
		}
		exp10 += e
	}
	mant, _ = new(big.Int).SetString(string(digits), 10)
	return mant, exp10, true
}

// scanHex reads the mantissa and exponent of a hexadecimal float with the
// leading "0x" already consumed. The returned mant scaled by 2**exp2 is
// the value. The binary exponent part is mandatory, as in Go and C99.
func scanHex(s string) (mant *big.Int, exp2 int, ok bool) {
	i := 0
	sawDigits := false
	sawDot := false
	var digits []byte
	fracDigits := 0
	for ; i < len(s); i++ {
		switch c := s[i]; {
		case c == '.':
			if sawDot {
				return nil, 0, false
			}
			sawDot = true
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
			sawDigits = true
			digits = append(digits, c)
			if sawDot {
				fracDigits++
			}
		default:
			goto exponent
		}
	}
exponent:
	if !sawDigits || i >= len(s) || (s[i] != 'p' && s[i] != 'P') {
		return nil, 0, false
	}
	e, ok := scanExponent(s[i+1:])
	if !ok {
		return nil, 0, false
	}
	mant, _ = new(big.Int).SetString(string(digits), 16)
	return mant, e - 4*fracDigits, true
}

// scanExponent parses a signed decimal exponent. Absurdly large exponents
// are clamped; the value will overflow or underflow either way.
func scanExponent(s string) (int, bool) {
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if len(s) == 0 {
		return 0, false
	}
	e := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		if e < 1<<24 {
			e = e*10 + int(c-'0')
		}
	}
	if neg {
		e = -e
	}
	return e, true
}

// fromDecimalParts rounds mant * 10**exp10 to the nearest Float128.
func fromDecimalParts(neg bool, mant *big.Int, exp10 int) Float128 {
	if mant.Sign() == 0 {
		return zeroBits(neg)
	}
	// Cheap range guards keep the power-of-ten tables small: the largest
	// finite value is below 1.2e4932 and half the smallest subnormal is
	// above 1e-4966.
	if exp10 >= 4933 {
		return Inf(boolSign(neg))
	}
	if exp10+mant.BitLen()/3+2 < -4990 {
		return zeroBits(neg)
	}
	r := new(big.Rat)
	if exp10 >= 0 {
		num := new(big.Int).Mul(mant, pow10(exp10))
		r.SetInt(num)
	} else {
		r.SetFrac(new(big.Int).Set(mant), pow10(-exp10))
	}
	f, _ := roundFinite(neg,
		func(prec uint) *big.Float {
			return new(big.Float).SetPrec(prec).SetMode(big.ToNearestEven).SetRat(r)
		},
		func() int {
			half := new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Lsh(big.NewInt(1), uint(2-minSubExp)))
			return r.Cmp(half)
		})
	return f
}

// fromBinaryParts rounds mant * 2**exp2 to the nearest Float128.
func fromBinaryParts(neg bool, mant *big.Int, exp2 int) Float128 {
	if mant.Sign() == 0 {
		return zeroBits(neg)
	}
	x := new(big.Float).SetPrec(uint(mant.BitLen())).SetInt(mant)
	x.SetMantExp(x, exp2) // mant * 2**exp2
	f, _ := FromBig(x)
	if neg {
		f = f.Neg()
	}
	return f
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
