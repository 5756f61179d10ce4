package tsm

import (
	"fmt"
	"hash/crc32"
	"math"

	"github.com/arloliu/tsmfile/endian"
	"github.com/arloliu/tsmfile/errs"
	"github.com/arloliu/tsmfile/filter"
	"github.com/arloliu/tsmfile/format"
	"github.com/arloliu/tsmfile/internal/options"
	"github.com/arloliu/tsmfile/internal/pool"
	"github.com/arloliu/tsmfile/section"
)

// fileEngine is the byte order of every multi-byte integer in the file format.
var fileEngine = endian.GetBigEndianEngine()

// FileWriter is the four-phase capability set shared by the writer variants.
//
// The phases must run in order: header, blocks, index, footer, flush. Write
// drives them; a variant only decides where its blocks come from.
type FileWriter interface {
	// WriteHeader emits the 5-byte file header.
	WriteHeader() (int, error)

	// WriteBlocks emits every field's chunks and accumulates index metadata.
	WriteBlocks() (int, error)

	// WriteIndex captures the index offset and emits the index section.
	WriteIndex() (int, error)

	// WriteFooter emits the membership filter and the index offset.
	WriteFooter() (int, error)

	// Flush forces all written bytes to stable storage. Only after Flush
	// returns nil is the file a valid, immutable artifact.
	Flush() error
}

// Write runs the full write pipeline over w and returns the total number of
// bytes emitted.
//
// Phases run strictly in sequence and the first failure aborts the rest:
// there is no partial completion or rollback, and the underlying file is left
// in an indeterminate state the caller must discard rather than retry.
func Write(w FileWriter) (int, error) {
	size := 0

	n, err := w.WriteHeader()
	size += n
	if err != nil {
		return size, err
	}

	n, err = w.WriteBlocks()
	size += n
	if err != nil {
		return size, err
	}

	n, err = w.WriteIndex()
	size += n
	if err != nil {
		return size, err
	}

	n, err = w.WriteFooter()
	size += n
	if err != nil {
		return size, err
	}

	if err := w.Flush(); err != nil {
		return size, err
	}

	return size, nil
}

// WriterConfig holds the knobs shared by both writer variants.
type WriterConfig struct {
	maxBlockValues int
	strCompression format.CompressionType
}

func newWriterConfig() *WriterConfig {
	return &WriterConfig{
		maxBlockValues: section.MaxBlockValues,
		strCompression: format.CompressionZstd,
	}
}

// WriterOption represents a functional option for configuring a writer.
type WriterOption = options.Option[*WriterConfig]

// WithMaxBlockValues overrides the maximum number of points per chunk.
func WithMaxBlockValues(n int) WriterOption {
	return options.New(func(c *WriterConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidMaxBlockValues, n)
		}
		c.maxBlockValues = n

		return nil
	})
}

// WithStringCompression selects the compression codec for string value
// payloads. Numeric payloads are unaffected.
func WithStringCompression(comp format.CompressionType) WriterOption {
	return options.New(func(c *WriterConfig) error {
		switch comp {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.strCompression = comp
			return nil
		default:
			return fmt.Errorf("%w: %s", errs.ErrInvalidCompression, comp)
		}
	})
}

// writeHeaderTo emits the magic constant and format version.
func writeHeaderTo(sink Sink) (int, error) {
	n, err := sink.Write(section.NewHeader().Bytes(fileEngine))
	if err != nil {
		return n, fmt.Errorf("%w: write header: %s", errs.ErrWriteFailed, err)
	}

	return n, nil
}

// writeFooterTo emits the membership filter bytes followed by the absolute
// index section offset.
func writeFooterTo(sink Sink, bloomFilter *filter.BloomFilter, indexOffset uint64) (int, error) {
	footer := section.Footer{Filter: bloomFilter.Bytes(), IndexOffset: indexOffset}
	n, err := sink.Write(footer.Bytes(fileEngine))
	if err != nil {
		return n, fmt.Errorf("%w: write footer: %s", errs.ErrWriteFailed, err)
	}

	return n, nil
}

// writeFieldBlocks splits one field's block into chunks of at most
// cfg.maxBlockValues points, emits each as a CRC-framed timestamp payload and
// value payload, and records the field's metadata into ib.
//
// Chunk boundaries follow the remainder-first policy: the first chunk takes
// n mod cap points (or a full cap when the remainder is zero) and every later
// chunk takes exactly cap, covering all points once, in order.
func writeFieldBlocks(sink Sink, ib *indexBuffer, fieldID uint64, block *DataBlock, cfg *WriterConfig) (int, error) {
	pointCount := block.Len()
	if pointCount == 0 {
		return 0, fmt.Errorf("%w: field %d", errs.ErrEmptyBlock, fieldID)
	}

	chunkCap := cfg.maxBlockValues
	blockCount := (pointCount-1)/chunkCap + 1
	if blockCount > math.MaxUint16 {
		return 0, fmt.Errorf("%w: field %d needs %d chunks, max %d",
			errs.ErrWriteFailed, fieldID, blockCount, math.MaxUint16)
	}

	timestamps := block.Timestamps()

	tsBuf := pool.GetChunkBuffer()
	valBuf := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(tsBuf)
	defer pool.PutChunkBuffer(valBuf)

	firstChunk := pointCount % chunkCap
	if firstChunk == 0 {
		firstChunk = chunkCap
	}

	totalSize := 0
	lastIndex := 0
	for i := 0; i < blockCount; i++ {
		start := lastIndex
		end := firstChunk + i*chunkCap
		lastIndex = end

		minTime := timestamps[start]
		maxTime := timestamps[end-1]
		offset := sink.Pos()

		tsBuf.Reset()
		valBuf.Reset()
		tsBytes, valBytes, err := block.EncodeRange(tsBuf.B, valBuf.B, start, end, cfg.strCompression)
		if err != nil {
			return totalSize, fmt.Errorf("%w: encode field %d: %s", errs.ErrWriteFailed, fieldID, err)
		}
		tsBuf.B, valBuf.B = tsBytes, valBytes

		chunkSize := 0
		n, err := writeChecksummed(sink, tsBytes)
		chunkSize += n
		if err != nil {
			return totalSize + chunkSize, fmt.Errorf("%w: write timestamps of field %d: %s", errs.ErrWriteFailed, fieldID, err)
		}

		valOffset := sink.Pos()

		n, err = writeChecksummed(sink, valBytes)
		chunkSize += n
		if err != nil {
			return totalSize + chunkSize, fmt.Errorf("%w: write values of field %d: %s", errs.ErrWriteFailed, fieldID, err)
		}

		totalSize += chunkSize
		ib.insertBlockMeta(minTime, maxTime, offset, uint64(chunkSize), valOffset)
	}

	ib.insertIndexMeta(fieldID, block.Type(), uint16(blockCount))

	return totalSize, nil
}

func wrapSyncErr(err error) error {
	return fmt.Errorf("%w: sync: %s", errs.ErrWriteFailed, err)
}

// writeChecksummed emits a 4-byte big-endian CRC32 of payload followed by the
// payload itself.
func writeChecksummed(sink Sink, payload []byte) (int, error) {
	var crc [4]byte
	fileEngine.PutUint32(crc[:], crc32.ChecksumIEEE(payload))

	size, err := sink.Write(crc[:])
	if err != nil {
		return size, err
	}

	n, err := sink.Write(payload)
	size += n
	if err != nil {
		return size, err
	}

	return size, nil
}
