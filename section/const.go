// Package section defines the fixed-width on-disk records and layout
// constants of the TSM file format.
//
// A TSM file is composed of four sections: header, blocks, index and footer.
//
//	┌────────┬────────────────────────────────────┬─────────────┬──────────────┐
//	│ Header │               Blocks               │    Index    │    Footer    │
//	│5 bytes │              N bytes               │   N bytes   │   72 bytes   │
//	└────────┴────────────────────────────────────┴─────────────┴──────────────┘
//
// Every multi-byte integer in these sections is stored big-endian.
package section

const (
	// MagicNumber identifies the TSM file format, stored big-endian in the
	// first four bytes of every file.
	MagicNumber uint32 = 0x1346613

	// Version is the current format version, stored in the fifth byte.
	Version uint8 = 1

	// HeaderSize is the fixed header size: 4-byte magic + 1-byte version.
	HeaderSize = 5

	// IndexMetaSize is the fixed per-field index meta record size:
	// field_id u64 + value_type u8 + block_count u16.
	IndexMetaSize = 11

	// BlockMetaSize is the fixed per-chunk block meta record size:
	// five 8-byte fields (min_ts, max_ts, offset, size, value_offset).
	BlockMetaSize = 40

	// FilterBits is the membership filter size in bits, fixed at file
	// creation time and independent of field cardinality.
	FilterBits = 512

	// FilterSize is the membership filter size in bytes.
	FilterSize = FilterBits / 8

	// FooterSize is the fixed footer size: filter bytes + index offset u64.
	FooterSize = FilterSize + 8

	// MaxBlockValues is the default maximum number of points per chunk.
	// Fields with more points are split into ceil(n / MaxBlockValues) chunks.
	MaxBlockValues = 1000
)
