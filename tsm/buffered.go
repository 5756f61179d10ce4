package tsm

import (
	"slices"

	"github.com/arloliu/tsmfile/internal/options"
)

// BufferedWriter writes a fully materialized working set: a mapping from
// field identifier to its DataBlock, all resident in memory.
//
// Fields are emitted in ascending identifier order. Map iteration order is
// not deterministic, and index layout (and therefore the file hash) depends
// on emission order, so sorting is a correctness property of the format, not
// an optimization.
//
// Note: BufferedWriter is NOT thread-safe and NOT reusable; it exclusively
// owns its Sink for the lifetime of one write.
type BufferedWriter struct {
	sink     Sink
	blocks   map[uint64]*DataBlock
	indexBuf *indexBuffer
	config   *WriterConfig
}

var _ FileWriter = (*BufferedWriter)(nil)

// NewBufferedWriter creates a writer over the given working set.
func NewBufferedWriter(sink Sink, blocks map[uint64]*DataBlock, opts ...WriterOption) (*BufferedWriter, error) {
	config := newWriterConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	return &BufferedWriter{
		sink:     sink,
		blocks:   blocks,
		indexBuf: newIndexBuffer(),
		config:   config,
	}, nil
}

// Write runs the full pipeline and returns the total bytes written.
func (w *BufferedWriter) Write() (int, error) {
	return Write(w)
}

// WriteHeader implements FileWriter.
func (w *BufferedWriter) WriteHeader() (int, error) {
	return writeHeaderTo(w.sink)
}

// WriteBlocks implements FileWriter, emitting fields sorted by identifier.
func (w *BufferedWriter) WriteBlocks() (int, error) {
	fieldIDs := make([]uint64, 0, len(w.blocks))
	for fieldID := range w.blocks {
		fieldIDs = append(fieldIDs, fieldID)
	}
	slices.Sort(fieldIDs)

	size := 0
	for _, fieldID := range fieldIDs {
		n, err := writeFieldBlocks(w.sink, w.indexBuf, fieldID, w.blocks[fieldID], w.config)
		size += n
		if err != nil {
			return size, err
		}
	}

	return size, nil
}

// WriteIndex implements FileWriter.
func (w *BufferedWriter) WriteIndex() (int, error) {
	w.indexBuf.setIndexOffset(w.sink.Pos())

	return w.indexBuf.writeTo(w.sink)
}

// WriteFooter implements FileWriter.
func (w *BufferedWriter) WriteFooter() (int, error) {
	return writeFooterTo(w.sink, w.indexBuf.bloomFilter, w.indexBuf.indexOffset)
}

// Flush implements FileWriter with a hard durable sync.
func (w *BufferedWriter) Flush() error {
	if err := w.sink.Sync(SyncHard); err != nil {
		return wrapSyncErr(err)
	}

	return nil
}
