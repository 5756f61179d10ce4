// Package tsmfile provides an immutable, append-only columnar file format
// (TSM) for time-series data, and the writers that produce it.
//
// A TSM file stores many fields (columns/series), each identified by an
// unsigned 64-bit field identifier and holding timestamp/value pairs of a
// single value type (float64, int64, uint64, boolean or string). Fields are
// split into CRC32-checksummed chunks, indexed by time range and file offset,
// and summarized by a fixed-size membership filter in the footer.
//
// # Core Features
//
//   - Four-phase sequential write pipeline: header, blocks, index, footer,
//     then a durable flush
//   - Per-chunk CRC32 checksums over independently encoded timestamp and
//     value payloads
//   - Deterministic output: the buffered writer sorts fields by identifier
//   - Bounded-memory streaming writer for incrementally produced blocks
//   - Selectable compression (Zstd, S2, LZ4, none) for string payloads
//   - mmap-backed reader with checksum verification for round-trip access
//
// # Basic Usage
//
// Writing a file from an in-memory working set:
//
//	blocks := make(map[uint64]*tsm.DataBlock)
//
//	block, _ := tsm.NewDataBlock(format.TypeFloat, 3)
//	block.AppendFloat(1000, 1.5)
//	block.AppendFloat(2000, 2.5)
//	block.AppendFloat(3000, 3.5)
//	blocks[tsmfile.FieldID("cpu.usage")] = block
//
//	size, err := tsmfile.WriteFile("/data/000001.tsm", blocks)
//
// Reading it back:
//
//	reader, _ := tsm.OpenReader("/data/000001.tsm")
//	defer reader.Close()
//	block, _ := reader.ReadField(tsmfile.FieldID("cpu.usage"))
//
// A failed write leaves the file in an unusable state; callers must delete
// the partial artifact rather than retry in place.
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the tsm package,
// covering the common cases. For fine-grained control (custom sinks, the
// streaming variant, chunk sizing), use the tsm package directly.
package tsmfile

import (
	"iter"

	"github.com/arloliu/tsmfile/internal/hash"
	"github.com/arloliu/tsmfile/tsm"
)

// WriteFile writes the given working set to a new TSM file at path and
// returns the total bytes written.
//
// The file is created (or truncated), written front to back, and durably
// synced before WriteFile returns. On error the partial file is not cleaned
// up; the caller must discard it.
func WriteFile(path string, blocks map[uint64]*tsm.DataBlock, opts ...tsm.WriterOption) (int, error) {
	cursor, err := tsm.CreateFileCursor(path)
	if err != nil {
		return 0, err
	}
	defer cursor.Close()

	writer, err := tsm.NewBufferedWriter(cursor, blocks, opts...)
	if err != nil {
		return 0, err
	}

	return writer.Write()
}

// StreamFile writes an incrementally produced sequence of (field, block)
// pairs to a new TSM file at path, holding only index metadata in memory.
//
// Yield fields in ascending identifier order for byte-reproducible output.
func StreamFile(path string, source iter.Seq2[uint64, *tsm.DataBlock], opts ...tsm.WriterOption) (int, error) {
	cursor, err := tsm.CreateFileCursor(path)
	if err != nil {
		return 0, err
	}
	defer cursor.Close()

	writer, err := tsm.NewStreamWriter(cursor, source, opts...)
	if err != nil {
		return 0, err
	}

	return writer.Write()
}

// FieldID converts a series name to its 64-bit field identifier via xxHash64.
//
// Applications that already assign unsigned 64-bit identifiers to their
// series can use those directly; this helper exists for the common case of
// human-readable series names.
func FieldID(name string) uint64 {
	return hash.ID(name)
}
