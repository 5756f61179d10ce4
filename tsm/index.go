package tsm

import (
	"fmt"

	"github.com/arloliu/tsmfile/errs"
	"github.com/arloliu/tsmfile/filter"
	"github.com/arloliu/tsmfile/format"
	"github.com/arloliu/tsmfile/section"
)

// indexBuffer accumulates the index section while blocks are emitted.
//
// Records are appended to two flat byte arenas: one for 11-byte index metas,
// one for 40-byte block metas. blockMetaOffsets tracks, per field, where that
// field's block metas start inside the flat arena, so emission can slice
// exactly the records belonging to each field no matter how many chunks each
// field produced.
type indexBuffer struct {
	indexOffset uint64

	indexMeta           []byte
	lastBlockMetaOffset int
	blockMetaOffsets    []int
	blockMeta           []byte

	bloomFilter *filter.BloomFilter
}

func newIndexBuffer() *indexBuffer {
	return &indexBuffer{
		bloomFilter: filter.New(),
	}
}

// setIndexOffset records the absolute file position where the index section
// begins; the footer phase reads it back.
func (ib *indexBuffer) setIndexOffset(offset uint64) {
	ib.indexOffset = offset
}

// insertIndexMeta appends one field's index meta record and closes off the
// field's block meta range. It must be called after every insertBlockMeta of
// the field, mirroring emission order in the blocks phase.
func (ib *indexBuffer) insertIndexMeta(fieldID uint64, vtype format.ValueType, blockCount uint16) {
	meta := section.IndexMeta{FieldID: fieldID, Type: vtype, BlockCount: blockCount}
	pos := len(ib.indexMeta)
	ib.indexMeta = append(ib.indexMeta, make([]byte, section.IndexMetaSize)...)
	meta.WriteToSlice(ib.indexMeta, pos, fileEngine)

	ib.blockMetaOffsets = append(ib.blockMetaOffsets, ib.lastBlockMetaOffset)
	ib.lastBlockMetaOffset = len(ib.blockMeta)

	ib.bloomFilter.Insert(fieldID)
}

// insertBlockMeta appends one chunk's block meta record to the flat arena.
func (ib *indexBuffer) insertBlockMeta(minTime, maxTime int64, offset, size, valOffset uint64) {
	meta := section.BlockMeta{
		MinTime:   minTime,
		MaxTime:   maxTime,
		Offset:    offset,
		Size:      size,
		ValOffset: valOffset,
	}
	ib.blockMeta = append(ib.blockMeta, meta.Bytes(fileEngine)...)
}

// writeTo emits the index section: for every field in accumulation order, its
// index meta immediately followed by its block metas, with no separators.
func (ib *indexBuffer) writeTo(sink Sink) (int, error) {
	size := 0
	indexPos := 0
	fieldIdx := 0
	for indexPos < len(ib.indexMeta) {
		n, err := sink.Write(ib.indexMeta[indexPos : indexPos+section.IndexMetaSize])
		size += n
		if err != nil {
			return size, fmt.Errorf("%w: write index meta: %s", errs.ErrWriteFailed, err)
		}
		indexPos += section.IndexMetaSize

		// Slice this field's block metas out of the flat arena: from its
		// recorded start to the next field's start, or the arena end for the
		// last field.
		var blocks []byte
		if fieldIdx+1 < len(ib.blockMetaOffsets) {
			blocks = ib.blockMeta[ib.blockMetaOffsets[fieldIdx]:ib.blockMetaOffsets[fieldIdx+1]]
		} else {
			blocks = ib.blockMeta[ib.blockMetaOffsets[fieldIdx]:]
		}

		n, err = sink.Write(blocks)
		size += n
		if err != nil {
			return size, fmt.Errorf("%w: write block meta: %s", errs.ErrWriteFailed, err)
		}
		fieldIdx++
	}

	return size, nil
}
