package encoding

import (
	"encoding/binary"
	"fmt"
)

// zigzag maps a signed value to an unsigned one with small absolute values
// staying small, matching protobuf's wire encoding.
func zigzag(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func unzigzag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// AppendTimestamps appends the delta-encoded timestamps to dst and returns
// the extended slice.
//
// The first timestamp is stored as a zigzag varint, each subsequent one as a
// zigzag varint delta from its predecessor.
func AppendTimestamps(dst []byte, timestamps []int64) []byte {
	if len(timestamps) == 0 {
		return dst
	}

	dst = binary.AppendUvarint(dst, zigzag(timestamps[0]))
	prev := timestamps[0]
	for _, ts := range timestamps[1:] {
		dst = binary.AppendUvarint(dst, zigzag(ts-prev))
		prev = ts
	}

	return dst
}

// DecodeTimestamps decodes a timestamp payload produced by AppendTimestamps,
// appending the values to dst.
func DecodeTimestamps(dst []int64, data []byte) ([]int64, error) {
	var prev int64
	first := true
	for len(data) > 0 {
		u, n := binary.Uvarint(data)
		if n <= 0 {
			return nil, fmt.Errorf("malformed timestamp payload at byte %d", len(data))
		}
		data = data[n:]

		if first {
			prev = unzigzag(u)
			first = false
		} else {
			prev += unzigzag(u)
		}
		dst = append(dst, prev)
	}

	return dst, nil
}
