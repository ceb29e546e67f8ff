package quad

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// A Serializer packs slices of Float128 values into a compact framed byte
// stream and restores them. Buffers are reused across calls, so a
// Serializer is not safe for concurrent use.
//
// Layout:
// - Version byte.
// - Uvarint element count.
// - Value block:
//   - Uvarint: block bytes excluding this varint.
//   - Block type:
//     0: uncompressed, rest is data.
//     1: S2 block.
//     2: Zstd block.
//   - Block data: 16 little-endian bytes per element, lo word first.
type Serializer struct {
	valuesBuf     []byte
	valuesCompBuf []byte

	compValues uint8
}

// NewSerializer returns a Serializer with fast (S2) value compression.
func NewSerializer() *Serializer {
	return &Serializer{compValues: blockTypeS2}
}

// CompressMode controls the compression used for the value block.
type CompressMode uint8

const (
	// CompressNone stores values uncompressed.
	CompressNone CompressMode = iota
	// CompressFast chooses fast compression (S2).
	CompressFast
	// CompressBest chooses best compression (Zstd).
	CompressBest
)

// CompressMode sets the compression mode of s.
func (s *Serializer) CompressMode(c CompressMode) error {
	switch c {
	case CompressNone:
		s.compValues = blockTypeUncompressed
	case CompressFast:
		s.compValues = blockTypeS2
	case CompressBest:
		s.compValues = blockTypeZstd
	default:
		return fmt.Errorf("unknown compression mode: %d", c)
	}
	return nil
}

// Serialize appends the encoded form of vals to dst and returns the
// extended buffer.
func (s *Serializer) Serialize(dst []byte, vals []Float128) []byte {
	if cap(s.valuesBuf) < 16*len(vals) {
		s.valuesBuf = make([]byte, 16*len(vals))
	}
	s.valuesBuf = s.valuesBuf[:16*len(vals)]
	for i, v := range vals {
		binary.LittleEndian.PutUint64(s.valuesBuf[16*i:], v.lo)
		binary.LittleEndian.PutUint64(s.valuesBuf[16*i+8:], v.hi)
	}
	s.valuesCompBuf = encBlock(s.compValues, s.valuesBuf, s.valuesCompBuf)

	var tmp [binary.MaxVarintLen64]byte
	// Version
	dst = append(dst, 1)
	// Element count
	n := binary.PutUvarint(tmp[:], uint64(len(vals)))
	dst = append(dst, tmp[:n]...)
	// Value block
	n = binary.PutUvarint(tmp[:], uint64(len(s.valuesCompBuf)))
	dst = append(dst, tmp[:n]...)
	return append(dst, s.valuesCompBuf...)
}

// Deserialize decodes src, appending the values to dst[:0] to reduce
// allocations, and returns the decoded slice.
func (s *Serializer) Deserialize(src []byte, dst []Float128) ([]Float128, error) {
	br := bytes.NewBuffer(src)

	if v, err := br.ReadByte(); err != nil {
		return dst, err
	} else if v != 1 {
		return dst, errors.New("unknown version")
	}

	elems, err := binary.ReadUvarint(br)
	if err != nil {
		return dst, err
	}
	// The count is untrusted until the value block confirms it: decBlock
	// sizes its allocations from the block contents, so a forged count
	// cannot demand memory the input does not actually decode to.
	if elems > uint64(maxInt/16) {
		return dst, fmt.Errorf("invalid element count: %d", elems)
	}

	if err := s.decBlock(br, int(elems)*16); err != nil {
		return dst, fmt.Errorf("decompressing values: %w", err)
	}

	if cap(dst) < int(elems) {
		dst = make([]Float128, elems)
	}
	dst = dst[:elems]
	for i := range dst {
		dst[i].lo = binary.LittleEndian.Uint64(s.valuesBuf[16*i:])
		dst[i].hi = binary.LittleEndian.Uint64(s.valuesBuf[16*i+8:])
	}
	return dst, nil
}

// decBlock decodes the value block into s.valuesBuf. The claimed size of
// every block type is checked against want before any allocation happens.
func (s *Serializer) decBlock(br *bytes.Buffer, want int) error {
	size, err := binary.ReadUvarint(br)
	if err != nil {
		return err
	}
	if size > uint64(br.Len()) {
		return fmt.Errorf("block size (%d) extends beyond input %d", size, br.Len())
	}
	if size < 1 {
		return fmt.Errorf("block size (%d) too small", size)
	}
	typ, err := br.ReadByte()
	if err != nil {
		return err
	}
	size--
	compressed := br.Next(int(size))
	if len(compressed) != int(size) {
		return errors.New("short block section")
	}
	switch typ {
	case blockTypeUncompressed:
		if len(compressed) != want {
			return errors.New("uncompressed size mismatch")
		}
		s.valuesBuf = append(s.valuesBuf[:0], compressed...)
	case blockTypeS2:
		sz, err := s2.DecodedLen(compressed)
		if err != nil {
			return err
		}
		if sz != want {
			return errors.New("s2 decompressed size mismatch")
		}
		if cap(s.valuesBuf) < want {
			s.valuesBuf = make([]byte, want)
		}
		s.valuesBuf = s.valuesBuf[:want]
		got, err := s2.Decode(s.valuesBuf, compressed)
		if err != nil {
			return err
		}
		if len(got) > 0 && &got[0] != &s.valuesBuf[0] {
			copy(s.valuesBuf, got)
		}
	case blockTypeZstd:
		got, err := zDec.DecodeAll(compressed, s.valuesBuf[:0])
		if err != nil {
			return err
		}
		if len(got) != want {
			return errors.New("zstd decompressed size mismatch")
		}
		s.valuesBuf = got
	default:
		return fmt.Errorf("unknown compression type: %d", typ)
	}
	return nil
}

const maxInt = int(^uint(0) >> 1)

const (
	blockTypeUncompressed byte = 0
	blockTypeS2           byte = 1
	blockTypeZstd         byte = 2
)

// The decoder memory cap bounds what a forged frame header can make
// DecodeAll reserve.
var zDec, _ = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(1<<30))
var zEncFast, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderCRC(false))

// encBlock will encode a block of data.
func encBlock(mode byte, src, dst []byte) []byte {
	if len(src) < 100 {
		mode = blockTypeUncompressed
	}
	switch mode {
	case blockTypeUncompressed:
		mel := len(src) + 1
		if cap(dst) < mel {
			dst = make([]byte, mel)
		}
		dst = dst[:mel]
		dst[0] = mode
		copy(dst[1:], src)
		return dst
	case blockTypeS2:
		mel := s2.MaxEncodedLen(len(src)) + 1
		if cap(dst) < mel {
			dst = make([]byte, mel)
		}
		dst = dst[:mel]
		dst[0] = mode
		got := s2.Encode(dst[1:], src)
		return dst[:len(got)+1]
	case blockTypeZstd:
		mel := len(src) + 50
		if cap(dst) < mel {
			dst = make([]byte, mel)
		}
		dst = dst[:mel]
		dst[0] = mode
		return zEncFast.EncodeAll(src, dst[:1])
	}
	panic("unknown compression mode")
}
