package section

import (
	"github.com/arloliu/tsmfile/endian"
	"github.com/arloliu/tsmfile/errs"
	"github.com/arloliu/tsmfile/format"
)

// IndexMeta records one field in the index section. It is a fixed size of
// 11 bytes and is immediately followed on disk by BlockCount BlockMeta
// records for the same field.
//
//	┌─────────┬──────┬───────┐
//	│ FieldID │ Type │ Count │
//	│ 8 bytes │1 byte│2 bytes│
//	└─────────┴──────┴───────┘
type IndexMeta struct {
	// FieldID is the unsigned 64-bit identifier of the field, unique within
	// one file.
	FieldID uint64

	// Type is the value type shared by every chunk of the field.
	Type format.ValueType

	// BlockCount is the number of BlockMeta records following this record.
	// It always equals ceil(point_count / max_block_values).
	BlockCount uint16
}

// Bytes returns the index meta as an 11-byte slice using the specified endian engine.
func (m IndexMeta) Bytes(engine endian.EndianEngine) []byte {
	var b [IndexMetaSize]byte // stack allocation
	engine.PutUint64(b[0:8], m.FieldID)
	b[8] = uint8(m.Type)
	engine.PutUint16(b[9:11], m.BlockCount)

	return b[:]
}

// WriteToSlice writes the record into a pre-allocated slice at offset and
// returns the next write position.
func (m IndexMeta) WriteToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	engine.PutUint64(data[offset:offset+8], m.FieldID)
	data[offset+8] = uint8(m.Type)
	engine.PutUint16(data[offset+9:offset+11], m.BlockCount)

	return offset + IndexMetaSize
}

// Parse parses an index meta record from a byte slice.
func (m *IndexMeta) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) < IndexMetaSize {
		return errs.ErrInvalidIndexMeta
	}

	m.FieldID = engine.Uint64(data[0:8])
	m.Type = format.ValueType(data[8])
	m.BlockCount = engine.Uint16(data[9:11])

	if !m.Type.Valid() {
		return errs.ErrUnknownValueType
	}

	return nil
}
