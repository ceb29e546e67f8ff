//go:build go1.18
// +build go1.18

package quad

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

func FuzzParseFloat128(f *testing.F) {
	for _, seed := range []string{
		"0", "-0", "1", "2.5", "11e4931", "-11e4931",
		"1.189731495357231765085759326628007016e4932",
		"6.475175119438025110924438958227646552e-4966",
		"3.362103143112093506262677817321752603e-4932",
		"0x1p-16494", "0x1.fp+100", "-0x1p16383", "0x.8p1",
		"1e-5000", "1e5000", "1e99999999999999999999",
		"NaN", "inf", "-Infinity",
		"1.00000000000000000000000000000000000000001",
		".5", "5.", "e5", "0x1", "1p5", "--1", "1e", "",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		x, err := ParseFloat128(s)
		if err != nil {
			var ne *NumError
			if !errors.As(err, &ne) {
				t.Fatalf("ParseFloat128(%q): error %T is not *NumError", s, err)
			}
			if !errors.Is(err, ErrRange) {
				// Anything the binary64 parser accepts we must accept
				// too, except digit separators. Note strconv flushes
				// underflow to zero with no error at all, so it never
				// reports a range error our parser would miss.
				if _, sErr := strconv.ParseFloat(s, 64); sErr == nil && !strings.ContainsRune(s, '_') {
					t.Fatalf("ParseFloat128(%q): %v, but strconv accepts it", s, err)
				}
				return
			}
			// A range error still carries a usable zero or infinity;
			// keep going and hold it to the round-trip contract.
		}
		if x.IsNaN() {
			return
		}
		// Shortest formatting must reparse to the same bits.
		out := x.String()
		y, err := ParseFloat128(out)
		if err != nil {
			t.Fatalf("reparse %q (from %q): %v", out, s, err)
		}
		if x != y {
			t.Fatalf("round trip %q -> %q: got: %v want: %v", s, out, y, x)
		}
		// So must the shortest forms of the other verbs.
		for _, verb := range []byte{'e', 'f', 'x'} {
			out := x.Text(verb, -1)
			y, err := ParseFloat128(out)
			if err != nil {
				t.Fatalf("reparse %q (%c of %q): %v", out, verb, s, err)
			}
			if x != y {
				t.Fatalf("round trip %q -> %c %q: got: %v want: %v", s, verb, out, y, x)
			}
		}
	})
}

func FuzzSerializeFloat128(f *testing.F) {
	f.Add([]byte{}, uint8(0))
	f.Add([]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, uint8(1))
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}, uint8(2))
	f.Fuzz(func(t *testing.T, data []byte, mode uint8) {
		vals := make([]Float128, len(data)/16)
		for i := range vals {
			vals[i] = FromBits(
				leUint64(data[16*i+8:]),
				leUint64(data[16*i:]),
			)
		}
		s := NewSerializer()
		if err := s.CompressMode(CompressMode(mode % 3)); err != nil {
			t.Fatal(err)
		}
		buf := s.Serialize(nil, vals)
		got, err := s.Deserialize(buf, nil)
		if err != nil {
			t.Fatalf("Deserialize: %v", err)
		}
		if len(got) != len(vals) {
			t.Fatalf("length: got: %d want: %d", len(got), len(vals))
		}
		for i := range vals {
			if got[i] != vals[i] {
				t.Fatalf("value %d: got: %v want: %v", i, got[i], vals[i])
			}
		}
	})
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
