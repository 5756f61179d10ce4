// Package filter implements the fixed-size membership filter stored in the
// TSM file footer.
//
// The filter answers "might this field be present?" without scanning the
// index section. It never reports an inserted field as absent; false
// positives only cost an index lookup that finds nothing.
package filter

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/tsmfile/errs"
	"github.com/arloliu/tsmfile/section"
)

// hashCount is the number of probe positions per key. With 512 bits and two
// probes, a file with 50 fields sits around a 3% false positive rate, which
// only costs a wasted index scan on lookup.
const hashCount = 2

// BloomFilter is a fixed-size bloom filter over field identifiers.
//
// The bit array size is fixed at creation time (section.FilterBits) and is
// not derived from field cardinality, so the footer stays a fixed size.
// The zero value is not usable; use New or FromBytes.
type BloomFilter struct {
	bits []byte
}

// New creates an empty filter of the fixed footer size.
func New() *BloomFilter {
	return &BloomFilter{bits: make([]byte, section.FilterSize)}
}

// FromBytes wraps the raw bit array read from a file footer.
// The slice must be exactly section.FilterSize bytes and is not copied.
func FromBytes(data []byte) (*BloomFilter, error) {
	if len(data) != section.FilterSize {
		return nil, errs.ErrInvalidFilterSize
	}

	return &BloomFilter{bits: data}, nil
}

// Insert adds a field identifier to the filter.
func (f *BloomFilter) Insert(fieldID uint64) {
	h1, h2 := probes(fieldID)
	for i := uint64(0); i < hashCount; i++ {
		pos := (h1 + i*h2) % section.FilterBits
		f.bits[pos/8] |= 1 << (pos % 8)
	}
}

// MaybeContains reports whether the field identifier may have been inserted.
// A false result is definitive; a true result may be a false positive.
func (f *BloomFilter) MaybeContains(fieldID uint64) bool {
	h1, h2 := probes(fieldID)
	for i := uint64(0); i < hashCount; i++ {
		pos := (h1 + i*h2) % section.FilterBits
		if f.bits[pos/8]&(1<<(pos%8)) == 0 {
			return false
		}
	}

	return true
}

// Bytes returns the raw bit array written verbatim into the footer.
func (f *BloomFilter) Bytes() []byte {
	return f.bits
}

// probes derives two probe hashes from one xxHash64 of the big-endian
// encoded identifier. Probe i uses h1 + i*h2 (double hashing).
func probes(fieldID uint64) (uint64, uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], fieldID)
	h := xxhash.Sum64(b[:])

	h1 := h & 0xFFFFFFFF
	h2 := h >> 32
	if h2 == 0 {
		h2 = 0x9E3779B9 // keep the probe stride non-zero
	}

	return h1, h2
}
