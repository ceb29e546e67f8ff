// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The decimalSlice digit pipeline and the fmtE/fmtF emitters derive from
// strconv's ftoa, modified for 113-bit significands.

package quad

import (
	"errors"
	"math/big"
	"strconv"
)

// ErrBufferTooSmall is returned by Render when the destination buffer
// cannot hold the complete formatted text.
var ErrBufferTooSmall = errors.New("quad: destination buffer too small")

// maxDigits is the number of significant decimal digits that always
// suffices to identify a binary128 value uniquely.
const maxDigits = 36

// String formats f in the shortest form that round-trips, like %g.
func (f Float128) String() string {
	return f.Text('g', -1)
}

// Text returns the string form of f with the given format and precision,
// following the conventions of strconv.FormatFloat.
func (f Float128) Text(fmt byte, prec int) string {
	return string(f.Append(make([]byte, 0, 48), fmt, prec))
}

// FormatFloat128 converts f to a string according to fmt and prec.
//
// The format fmt is one of 'b', 'e', 'E', 'f', 'g', 'G', 'x' or 'X', with
// the meanings of strconv.FormatFloat. The precision prec controls the
// number of digits printed by 'e', 'E', 'f', 'x' and 'X' (after the
// decimal point) and 'g', 'G' (significant digits); prec -1 selects the
// smallest number of digits necessary to parse the value back exactly.
//
// Precisions beyond the ~36 significant decimal digits a binary128
// significand can carry are filled with zeros, the convention of
// extended-precision formatters.
func FormatFloat128(f Float128, fmt byte, prec int) string {
	return f.Text(fmt, prec)
}

// AppendFloat128 appends the string form of f to dst and returns the
// extended buffer.
func AppendFloat128(dst []byte, f Float128, fmt byte, prec int) []byte {
	return f.Append(dst, fmt, prec)
}

// Render writes the formatted value into the fixed-capacity buffer dst
// and returns the number of bytes written. If dst cannot hold the
// complete text, Render writes nothing and returns ErrBufferTooSmall.
func (f Float128) Render(dst []byte, fmt byte, prec int) (int, error) {
	text := f.Append(make([]byte, 0, 48), fmt, prec)
	if len(text) > len(dst) {
		return 0, ErrBufferTooSmall
	}
	return copy(dst, text), nil
}

// Append appends the string form of f to dst and returns the extended
// buffer. See FormatFloat128 for the meaning of fmt and prec.
func (f Float128) Append(dst []byte, fmt byte, prec int) []byte {
	switch {
	case f.IsNaN():
		return append(dst, "NaN"...)
	case f.IsInf(1):
		return append(dst, "+Inf"...)
	case f.IsInf(-1):
		return append(dst, "-Inf"...)
	}

	switch fmt {
	case 'b':
		return f.appendBin(dst)
	case 'x', 'X':
		return f.appendHex(dst, fmt, prec)
	case 'e', 'E', 'f', 'g', 'G':
	default:
		return append(dst, '%', fmt)
	}

	neg := f.Signbit()
	shortest := prec < 0
	if (fmt == 'g' || fmt == 'G') && prec == 0 {
		prec = 1
	}

	var digs decimalSlice
	if !f.IsZero() {
		abs := f.Abs()
		x := abs.Big()
		sd := shortestDigits(abs, x)
		switch {
		case shortest:
			digs = sd
		case fmt == 'e' || fmt == 'E':
			if prec+1 >= sd.nd {
				digs = sd // requested digits past genuine precision: pad
			} else {
				digs = sciDigits(x, prec+1)
			}
		case fmt == 'f':
			if sd.dp+prec >= sd.nd {
				digs = sd
			} else {
				digs = fixDigits(x, prec)
			}
		default: // 'g', 'G'
			if prec >= sd.nd {
				digs = sd
			} else {
				digs = sciDigits(x, prec)
			}
		}
	}

	if shortest {
		switch fmt {
		case 'e', 'E':
			prec = max(digs.nd-1, 0)
		case 'f':
			prec = max(digs.nd-digs.dp, 0)
		case 'g', 'G':
			prec = digs.nd
		}
	}

	switch fmt {
	case 'e', 'E':
		return fmtE(dst, neg, digs, prec, fmt)
	case 'f':
		return fmtF(dst, neg, digs, prec)
	}

	// %g: pick %e or %f the way strconv does.
	eprec := prec
	if eprec > digs.nd && digs.nd >= digs.dp {
		eprec = digs.nd
	}
	if shortest {
		eprec = 6
	}
	exp := digs.dp - 1
	if exp < -4 || exp >= eprec {
		if prec > digs.nd {
			prec = digs.nd
		}
		return fmtE(dst, neg, digs, prec-1, fmt+'e'-'g')
	}
	if prec > digs.dp {
		prec = digs.nd
	}
	return fmtF(dst, neg, digs, max(prec-digs.dp, 0))
}

// A decimalSlice holds decimal digits d[:nd] with the decimal point
// before position dp: the value is 0.d[0]d[1]... * 10**dp.
// Trailing zeros are trimmed; nd == 0 means zero.
type decimalSlice struct {
	d      []byte
	nd, dp int
}

// sciDigits returns the value of x correctly rounded to sig significant
// decimal digits. x must be finite, positive and nonzero.
func sciDigits(x *big.Float, sig int) decimalSlice {
	s := x.Text('e', sig-1)
	var d decimalSlice
	i := 0
	for ; i < len(s) && s[i] != 'e'; i++ {
		if s[i] != '.' {
			d.d = append(d.d, s[i])
		}
	}
	exp10, err := strconv.Atoi(s[i+1:])
	if err != nil {
		panic("quad: malformed big.Float output: " + s)
	}
	d.nd = len(d.d)
	d.dp = exp10 + 1
	d.trim()
	return d
}

// fixDigits returns the value of x correctly rounded at prec digits after
// the decimal point. x must be finite, positive and nonzero.
func fixDigits(x *big.Float, prec int) decimalSlice {
	s := x.Text('f', prec)
	var d decimalSlice
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			d.dp = i
			continue
		}
		d.d = append(d.d, s[i])
	}
	if d.dp == 0 {
		d.dp = len(s) // no decimal point emitted
	}
	d.nd = len(d.d)
	// drop leading zeros
	for d.nd > 0 && d.d[0] == '0' {
		d.d = d.d[1:]
		d.nd--
		d.dp--
	}
	d.trim()
	return d
}

func (d *decimalSlice) trim() {
	for d.nd > 0 && d.d[d.nd-1] == '0' {
		d.nd--
	}
	if d.nd == 0 {
		d.dp = 0
	}
}

// shortestDigits returns the fewest significant digits that parse back to
// exactly abs. x must be the exact value of abs, which must be positive,
// finite and nonzero.
func shortestDigits(abs Float128, x *big.Float) decimalSlice {
	for sig := 1; sig < maxDigits; sig++ {
		d := sciDigits(x, sig)
		if roundTrips(d, abs) {
			return d
		}
	}
	return sciDigits(x, maxDigits)
}

func roundTrips(d decimalSlice, abs Float128) bool {
	mant, ok := new(big.Int).SetString(string(d.d[:d.nd]), 10)
	if !ok {
		return false
	}
	g := fromDecimalParts(false, mant, d.dp-d.nd)
	return g.hi == abs.hi && g.lo == abs.lo
}

// %e: -d.ddddde±XX, exponent at least two digits
func fmtE(dst []byte, neg bool, d decimalSlice, prec int, fmt byte) []byte {
	if neg {
		dst = append(dst, '-')
	}

	// first digit
	ch := byte('0')
	if d.nd != 0 {
		ch = d.d[0]
	}
	dst = append(dst, ch)

	// .moredigits, zero padded to the requested precision
	if prec > 0 {
		dst = append(dst, '.')
		i := 1
		m := min(d.nd, prec+1)
		for ; i < m; i++ {
			dst = append(dst, d.d[i])
		}
		for ; i <= prec; i++ {
			dst = append(dst, '0')
		}
	}

	// e±XX
	dst = append(dst, fmt)
	exp := d.dp - 1
	if d.nd == 0 {
		exp = 0 // zero keeps exponent e+00
	}
	if exp < 0 {
		dst = append(dst, '-')
		exp = -exp
	} else {
		dst = append(dst, '+')
	}
	if exp < 10 {
		return append(dst, '0', byte(exp)+'0')
	}
	return strconv.AppendInt(dst, int64(exp), 10)
}

// %f: -ddddddd.ddddd
func fmtF(dst []byte, neg bool, d decimalSlice, prec int) []byte {
	if neg {
		dst = append(dst, '-')
	}

	// integer, padded with zeros as needed.
	if d.dp > 0 {
		m := min(d.nd, d.dp)
		dst = append(dst, d.d[:m]...)
		for ; m < d.dp; m++ {
			dst = append(dst, '0')
		}
	} else {
		dst = append(dst, '0')
	}

	// fraction
	if prec > 0 {
		dst = append(dst, '.')
		for i := 0; i < prec; i++ {
			ch := byte('0')
			if j := d.dp + i; 0 <= j && j < d.nd {
				ch = d.d[j]
			}
			dst = append(dst, ch)
		}
	}

	return dst
}

// %b: decimal mantissa followed by the power-of-two exponent, with zero
// rendered at the minimum exponent like strconv does for float64.
func (f Float128) appendBin(dst []byte) []byte {
	if f.Signbit() {
		dst = append(dst, '-')
	}
	m, exp := f.mantissa()
	dst = m.Append(dst, 10)
	dst = append(dst, 'p')
	if exp >= 0 {
		dst = append(dst, '+')
	}
	return strconv.AppendInt(dst, int64(exp), 10)
}

// mantissa decodes finite f into an integer significand m and binary
// exponent exp with |f| == m * 2**exp. The significand has the full 113
// bits for normal values.
func (f Float128) mantissa() (*big.Int, int) {
	m := new(big.Int).SetUint64(f.hi & fracMask)
	m.Lsh(m, 64)
	m.Or(m, new(big.Int).SetUint64(f.lo))
	biased := int(f.hi >> 48 & 0x7fff)
	if biased == 0 {
		return m, 1 - expBias - fracBits
	}
	m.SetBit(m, fracBits, 1)
	return m, biased - expBias - fracBits
}

const (
	lowerhex = "0123456789abcdef"
	upperhex = "0123456789ABCDEF"
)

// %x: -0x1.ffffp±dddd, one nonzero binary digit before the point.
// prec counts hex digits after the point; -1 uses the fewest digits that
// represent the value exactly.
func (f Float128) appendHex(dst []byte, fmt byte, prec int) []byte {
	hex := lowerhex
	if fmt == 'X' {
		hex = upperhex
	}
	if f.Signbit() {
		dst = append(dst, '-')
	}
	dst = append(dst, '0', fmt)

	if f.IsZero() {
		dst = append(dst, '0')
		if prec > 0 {
			dst = append(dst, '.')
			for i := 0; i < prec; i++ {
				dst = append(dst, '0')
			}
		}
		p := byte('p')
		if fmt == 'X' {
			p = 'P'
		}
		return append(dst, p, '+', '0', '0')
	}

	m, exp := f.mantissa()
	// Normalize so the leading 1 sits at bit fracBits; subnormals shift
	// up so the printed form always starts 1.
	pexp := exp + m.BitLen() - 1 // power of two of the leading bit
	if shift := mantBits - m.BitLen(); shift > 0 {
		m = new(big.Int).Lsh(m, uint(shift))
	}

	if prec >= 0 && 4*prec+1 < mantBits {
		// Round to 1+4*prec bits, ties to even.
		keep := 4*prec + 1
		drop := uint(mantBits - keep)
		rem := new(big.Int).And(m, new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), drop), big.NewInt(1)))
		m = new(big.Int).Rsh(m, drop)
		half := new(big.Int).Lsh(big.NewInt(1), drop-1)
		if c := rem.Cmp(half); c > 0 || c == 0 && m.Bit(0) == 1 {
			m.Add(m, big.NewInt(1))
			if m.BitLen() > keep { // carry into a new leading bit
				m.Rsh(m, 1)
				pexp++
			}
		}
		m = new(big.Int).Lsh(m, drop) // re-align the hex digits
	}

	// Fraction nibbles below the leading bit.
	frac := new(big.Int).SetBit(m, fracBits, 0)
	digits := frac.Text(16)
	for len(digits) < (mantBits-1)/4 {
		digits = "0" + digits
	}
	if prec < 0 {
		n := len(digits)
		for n > 0 && digits[n-1] == '0' {
			n--
		}
		digits = digits[:n]
	} else if prec < len(digits) {
		digits = digits[:prec]
	}

	dst = append(dst, '1')
	if prec != 0 && (prec > 0 || len(digits) > 0) {
		dst = append(dst, '.')
		for i := 0; i < len(digits); i++ {
			c := digits[i]
			if 'a' <= c && c <= 'f' {
				c = hex[c-'a'+10]
			}
			dst = append(dst, c)
		}
		for i := len(digits); i < prec; i++ {
			dst = append(dst, '0')
		}
	}

	p := byte('p')
	if fmt == 'X' {
		p = 'P'
	}
	dst = append(dst, p)
	if pexp >= 0 {
		dst = append(dst, '+')
	} else {
		dst = append(dst, '-')
		pexp = -pexp
	}
	if pexp < 10 {
		return append(dst, '0', byte(pexp)+'0')
	}
	return strconv.AppendInt(dst, int64(pexp), 10)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
