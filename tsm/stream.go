package tsm

import (
	"iter"

	"github.com/arloliu/tsmfile/internal/options"
)

// StreamWriter writes an incrementally produced sequence of (field, block)
// pairs without requiring the whole working set in memory at once.
//
// Blocks phase memory is bounded by the number of fields, not points: each
// block streams straight to the sink as it is yielded, and only the index
// metadata (11 bytes per field plus 40 bytes per chunk) is retained until the
// index phase. The format itself forces that retention, since the index
// section cannot be emitted before the last block's location is known.
//
// For the same field order, StreamWriter and BufferedWriter produce
// byte-identical files. The source decides the order; yield fields in
// ascending identifier order when reproducible output matters.
//
// Note: StreamWriter is NOT thread-safe and NOT reusable; it exclusively owns
// its Sink for the lifetime of one write.
type StreamWriter struct {
	sink     Sink
	source   iter.Seq2[uint64, *DataBlock]
	indexBuf *indexBuffer
	config   *WriterConfig
}

var _ FileWriter = (*StreamWriter)(nil)

// NewStreamWriter creates a writer draining the given source sequence.
//
// The source is iterated exactly once, during the blocks phase. Each yielded
// block must be complete; a field must not be yielded twice.
func NewStreamWriter(sink Sink, source iter.Seq2[uint64, *DataBlock], opts ...WriterOption) (*StreamWriter, error) {
	config := newWriterConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	return &StreamWriter{
		sink:     sink,
		source:   source,
		indexBuf: newIndexBuffer(),
		config:   config,
	}, nil
}

// Write runs the full pipeline and returns the total bytes written.
func (w *StreamWriter) Write() (int, error) {
	return Write(w)
}

// WriteHeader implements FileWriter.
func (w *StreamWriter) WriteHeader() (int, error) {
	return writeHeaderTo(w.sink)
}

// WriteBlocks implements FileWriter, draining the source sequence.
func (w *StreamWriter) WriteBlocks() (int, error) {
	size := 0
	var werr error
	for fieldID, block := range w.source {
		n, err := writeFieldBlocks(w.sink, w.indexBuf, fieldID, block, w.config)
		size += n
		if err != nil {
			werr = err
			break
		}
	}

	return size, werr
}

// WriteIndex implements FileWriter.
func (w *StreamWriter) WriteIndex() (int, error) {
	w.indexBuf.setIndexOffset(w.sink.Pos())

	return w.indexBuf.writeTo(w.sink)
}

// WriteFooter implements FileWriter.
func (w *StreamWriter) WriteFooter() (int, error) {
	return writeFooterTo(w.sink, w.indexBuf.bloomFilter, w.indexBuf.indexOffset)
}

// Flush implements FileWriter with a hard durable sync.
func (w *StreamWriter) Flush() error {
	if err := w.sink.Sync(SyncHard); err != nil {
		return wrapSyncErr(err)
	}

	return nil
}
