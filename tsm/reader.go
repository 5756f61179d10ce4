package tsm

import (
	"fmt"
	"hash/crc32"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/arloliu/tsmfile/encoding"
	"github.com/arloliu/tsmfile/errs"
	"github.com/arloliu/tsmfile/filter"
	"github.com/arloliu/tsmfile/format"
	"github.com/arloliu/tsmfile/section"
)

// FieldIndex is one field's decoded index entry: its index meta and the block
// metas of all its chunks, in file order.
type FieldIndex struct {
	Meta   section.IndexMeta
	Blocks []section.BlockMeta
}

// Reader provides read access to a completed TSM file, backed by a read-only
// memory mapping.
//
// It decodes the index and chunk payloads written by the writer variants and
// verifies every chunk checksum on read. It is a verification surface for
// written files, not a query engine.
type Reader struct {
	f    *os.File
	data mmap.MMap

	footer section.Footer
	bloom  *filter.BloomFilter
	fields []FieldIndex
}

// OpenReader maps the file at path and parses its header, footer and index.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()

		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	r := &Reader{f: f, data: data}
	if err := r.parse(); err != nil {
		r.Close()

		return nil, err
	}

	return r, nil
}

func (r *Reader) parse() error {
	if len(r.data) < section.HeaderSize+section.FooterSize {
		return errs.ErrInvalidHeaderSize
	}

	var header section.Header
	if err := header.Parse(r.data[:section.HeaderSize], fileEngine); err != nil {
		return err
	}

	footerStart := len(r.data) - section.FooterSize
	if err := r.footer.Parse(r.data[footerStart:], fileEngine); err != nil {
		return err
	}

	bloom, err := filter.FromBytes(r.footer.Filter)
	if err != nil {
		return err
	}
	r.bloom = bloom

	if r.footer.IndexOffset < section.HeaderSize || r.footer.IndexOffset > uint64(footerStart) {
		return fmt.Errorf("%w: index offset %d out of range", errs.ErrInvalidIndexMeta, r.footer.IndexOffset)
	}

	return r.parseIndex(r.data[r.footer.IndexOffset:footerStart])
}

// parseIndex walks the index section: per field, one index meta immediately
// followed by its block metas.
func (r *Reader) parseIndex(index []byte) error {
	for len(index) > 0 {
		var meta section.IndexMeta
		if err := meta.Parse(index, fileEngine); err != nil {
			return err
		}
		index = index[section.IndexMetaSize:]

		if len(index) < int(meta.BlockCount)*section.BlockMetaSize {
			return errs.ErrInvalidBlockMeta
		}

		blocks := make([]section.BlockMeta, meta.BlockCount)
		for i := range blocks {
			if err := blocks[i].Parse(index, fileEngine); err != nil {
				return err
			}
			index = index[section.BlockMetaSize:]
		}

		r.fields = append(r.fields, FieldIndex{Meta: meta, Blocks: blocks})
	}

	return nil
}

// Fields returns the index entries of all fields, in file order.
func (r *Reader) Fields() []FieldIndex {
	return r.fields
}

// IndexOffset returns the absolute offset of the index section recorded in
// the footer.
func (r *Reader) IndexOffset() uint64 {
	return r.footer.IndexOffset
}

// MaybeContains consults the membership filter. A false result is
// definitive; a true result still requires an index lookup.
func (r *Reader) MaybeContains(fieldID uint64) bool {
	return r.bloom.MaybeContains(fieldID)
}

// ReadField decodes and verifies every chunk of the given field into one
// DataBlock, reproducing the originally written points in order.
func (r *Reader) ReadField(fieldID uint64) (*DataBlock, error) {
	if !r.bloom.MaybeContains(fieldID) {
		return nil, fmt.Errorf("%w: field %d", errs.ErrFieldNotFound, fieldID)
	}

	for _, field := range r.fields {
		if field.Meta.FieldID != fieldID {
			continue
		}

		block, err := NewDataBlock(field.Meta.Type, 0)
		if err != nil {
			return nil, err
		}
		for _, bm := range field.Blocks {
			if err := r.decodeChunk(field.Meta.Type, bm, block); err != nil {
				return nil, fmt.Errorf("field %d: %w", fieldID, err)
			}
		}

		return block, nil
	}

	return nil, fmt.Errorf("%w: field %d", errs.ErrFieldNotFound, fieldID)
}

// decodeChunk verifies both CRC-framed payloads of one chunk and appends the
// decoded points to dst.
func (r *Reader) decodeChunk(vtype format.ValueType, bm section.BlockMeta, dst *DataBlock) error {
	end := bm.Offset + bm.Size
	if bm.ValOffset < bm.Offset+4 || end > uint64(len(r.data)) || bm.ValOffset+4 > end {
		return errs.ErrInvalidBlockMeta
	}

	tsPayload, err := checksummedPayload(r.data[bm.Offset:bm.ValOffset])
	if err != nil {
		return fmt.Errorf("timestamps: %w", err)
	}

	valPayload, err := checksummedPayload(r.data[bm.ValOffset:end])
	if err != nil {
		return fmt.Errorf("values: %w", err)
	}

	dst.timestamps, err = encoding.DecodeTimestamps(dst.timestamps, tsPayload)
	if err != nil {
		return err
	}

	switch vtype {
	case format.TypeFloat:
		dst.floats, err = encoding.DecodeFloats(dst.floats, valPayload, fileEngine)
	case format.TypeInteger:
		dst.integers, err = encoding.DecodeIntegers(dst.integers, valPayload)
	case format.TypeUnsigned:
		dst.unsigneds, err = encoding.DecodeUnsigneds(dst.unsigneds, valPayload)
	case format.TypeBoolean:
		dst.booleans, err = encoding.DecodeBooleans(dst.booleans, valPayload)
	case format.TypeString:
		dst.strings, err = encoding.DecodeStrings(dst.strings, valPayload)
	default:
		err = errs.ErrUnknownValueType
	}

	return err
}

// checksummedPayload splits a CRC-framed region into its payload after
// verifying the leading big-endian CRC32.
func checksummedPayload(framed []byte) ([]byte, error) {
	if len(framed) < 4 {
		return nil, errs.ErrInvalidBlockMeta
	}

	payload := framed[4:]
	if fileEngine.Uint32(framed[0:4]) != crc32.ChecksumIEEE(payload) {
		return nil, errs.ErrChecksumMismatch
	}

	return payload, nil
}

// Size returns the file size in bytes.
func (r *Reader) Size() int {
	return len(r.data)
}

// Close unmaps and closes the file.
func (r *Reader) Close() error {
	if r.data != nil {
		if err := r.data.Unmap(); err != nil {
			return err
		}
		r.data = nil
	}
	if r.f != nil {
		err := r.f.Close()
		r.f = nil

		return err
	}

	return nil
}
