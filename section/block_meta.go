package section

import (
	"github.com/arloliu/tsmfile/endian"
	"github.com/arloliu/tsmfile/errs"
)

// BlockMeta records the location and time range of one chunk in the blocks
// section. It is a fixed size of 40 bytes.
//
//	┌─────────┬─────────┬────────┬────────┬───────────┐
//	│ MinTime │ MaxTime │ Offset │  Size  │ ValOffset │
//	│ 8 bytes │ 8 bytes │8 bytes │8 bytes │  8 bytes  │
//	└─────────┴─────────┴────────┴────────┴───────────┘
type BlockMeta struct {
	// MinTime and MaxTime are the first and last timestamps of the chunk.
	// Chunks preserve input order, so MinTime <= MaxTime for sorted input.
	MinTime int64
	MaxTime int64

	// Offset is the absolute file position where the chunk begins, i.e. the
	// first byte of the timestamp checksum.
	Offset uint64

	// Size is the total number of bytes emitted for the chunk: both CRC32
	// checksums plus both encoded payloads.
	Size uint64

	// ValOffset is the absolute file position of the value checksum,
	// always >= Offset.
	ValOffset uint64
}

// Bytes returns the block meta as a 40-byte slice using the specified endian engine.
func (m BlockMeta) Bytes(engine endian.EndianEngine) []byte {
	var b [BlockMetaSize]byte // stack allocation
	engine.PutUint64(b[0:8], uint64(m.MinTime))
	engine.PutUint64(b[8:16], uint64(m.MaxTime))
	engine.PutUint64(b[16:24], m.Offset)
	engine.PutUint64(b[24:32], m.Size)
	engine.PutUint64(b[32:40], m.ValOffset)

	return b[:]
}

// Parse parses a block meta record from a byte slice.
func (m *BlockMeta) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) < BlockMetaSize {
		return errs.ErrInvalidBlockMeta
	}

	m.MinTime = int64(engine.Uint64(data[0:8]))
	m.MaxTime = int64(engine.Uint64(data[8:16]))
	m.Offset = engine.Uint64(data[16:24])
	m.Size = engine.Uint64(data[24:32])
	m.ValOffset = engine.Uint64(data[32:40])

	return nil
}
