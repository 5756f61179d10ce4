package encoding

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arloliu/tsmfile/endian"
)

// AppendFloats appends each value as its raw 8-byte IEEE 754 bits in the
// engine's byte order.
//
// Raw layout keeps decode trivial and lossless for arbitrary float data,
// including NaN payloads.
func AppendFloats(dst []byte, values []float64, engine endian.EndianEngine) []byte {
	for _, v := range values {
		dst = engine.AppendUint64(dst, math.Float64bits(v))
	}

	return dst
}

// DecodeFloats decodes a float payload produced by AppendFloats.
func DecodeFloats(dst []float64, data []byte, engine endian.EndianEngine) ([]float64, error) {
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("float payload length %d is not a multiple of 8", len(data))
	}

	for ; len(data) > 0; data = data[8:] {
		dst = append(dst, math.Float64frombits(engine.Uint64(data[0:8])))
	}

	return dst, nil
}

// AppendIntegers appends each value as a zigzag varint.
func AppendIntegers(dst []byte, values []int64) []byte {
	for _, v := range values {
		dst = binary.AppendUvarint(dst, zigzag(v))
	}

	return dst
}

// DecodeIntegers decodes an integer payload produced by AppendIntegers.
func DecodeIntegers(dst []int64, data []byte) ([]int64, error) {
	for len(data) > 0 {
		u, n := binary.Uvarint(data)
		if n <= 0 {
			return nil, fmt.Errorf("malformed integer payload at byte %d", len(data))
		}
		data = data[n:]
		dst = append(dst, unzigzag(u))
	}

	return dst, nil
}

// AppendUnsigneds appends each value as a uvarint.
func AppendUnsigneds(dst []byte, values []uint64) []byte {
	for _, v := range values {
		dst = binary.AppendUvarint(dst, v)
	}

	return dst
}

// DecodeUnsigneds decodes an unsigned payload produced by AppendUnsigneds.
func DecodeUnsigneds(dst []uint64, data []byte) ([]uint64, error) {
	for len(data) > 0 {
		u, n := binary.Uvarint(data)
		if n <= 0 {
			return nil, fmt.Errorf("malformed unsigned payload at byte %d", len(data))
		}
		data = data[n:]
		dst = append(dst, u)
	}

	return dst, nil
}
