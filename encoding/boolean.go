package encoding

import (
	"encoding/binary"
	"fmt"
)

// AppendBooleans appends a uvarint count followed by the values bit-packed
// eight per byte, LSB first.
//
// The count prefix is required because trailing padding bits of the final
// byte are otherwise indistinguishable from real values.
func AppendBooleans(dst []byte, values []bool) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(values)))

	var cur byte
	var nbits uint
	for _, v := range values {
		if v {
			cur |= 1 << nbits
		}
		nbits++
		if nbits == 8 {
			dst = append(dst, cur)
			cur, nbits = 0, 0
		}
	}
	if nbits > 0 {
		dst = append(dst, cur)
	}

	return dst
}

// DecodeBooleans decodes a boolean payload produced by AppendBooleans.
func DecodeBooleans(dst []bool, data []byte) ([]bool, error) {
	count, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("malformed boolean payload: missing count")
	}
	data = data[n:]

	if uint64(len(data))*8 < count {
		return nil, fmt.Errorf("malformed boolean payload: %d bytes for %d values", len(data), count)
	}

	for i := uint64(0); i < count; i++ {
		dst = append(dst, data[i/8]&(1<<(i%8)) != 0)
	}

	return dst, nil
}
