package section

import (
	"github.com/arloliu/tsmfile/endian"
	"github.com/arloliu/tsmfile/errs"
)

// Footer is the fixed-size record ending every TSM file: the raw membership
// filter bit array followed by the absolute offset of the index section.
//
//	┌───────────────┬───────────┐
//	│ Filter bytes  │ IndexOfs  │
//	│   64 bytes    │  8 bytes  │
//	└───────────────┴───────────┘
type Footer struct {
	// Filter is the raw membership filter bit array, exactly FilterSize bytes.
	Filter []byte

	// IndexOffset is the absolute file position where the index section starts.
	IndexOffset uint64
}

// Bytes returns the footer as a FooterSize-byte slice using the specified
// endian engine.
func (f Footer) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, 0, FooterSize)
	b = append(b, f.Filter...)
	b = engine.AppendUint64(b, f.IndexOffset)

	return b
}

// Parse parses the footer from the trailing FooterSize bytes of a file.
func (f *Footer) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) < FooterSize {
		return errs.ErrInvalidFooterSize
	}

	f.Filter = data[0:FilterSize]
	f.IndexOffset = engine.Uint64(data[FilterSize : FilterSize+8])

	return nil
}
