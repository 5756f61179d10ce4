package section

import (
	"github.com/arloliu/tsmfile/endian"
	"github.com/arloliu/tsmfile/errs"
)

// Header is the fixed 5-byte record at the start of every TSM file.
//
//	┌───────────────────┐
//	│      Header       │
//	├─────────┬─────────┤
//	│  Magic  │ Version │
//	│ 4 bytes │ 1 byte  │
//	└─────────┴─────────┘
type Header struct {
	Magic   uint32
	Version uint8
}

// NewHeader creates a header for the current format version.
func NewHeader() Header {
	return Header{Magic: MagicNumber, Version: Version}
}

// Bytes returns the header as a 5-byte slice using the specified endian engine.
func (h Header) Bytes(engine endian.EndianEngine) []byte {
	var b [HeaderSize]byte // stack allocation
	engine.PutUint32(b[0:4], h.Magic)
	b[4] = h.Version

	return b[:]
}

// Parse parses the header from a byte slice and validates magic and version.
func (h *Header) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) < HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Magic = engine.Uint32(data[0:4])
	h.Version = data[4]

	if h.Magic != MagicNumber {
		return errs.ErrInvalidMagicNumber
	}
	if h.Version != Version {
		return errs.ErrInvalidVersion
	}

	return nil
}
