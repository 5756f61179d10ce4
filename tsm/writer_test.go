package tsm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tsmfile/errs"
	"github.com/arloliu/tsmfile/format"
	"github.com/arloliu/tsmfile/section"
)

func writeTestFile(t *testing.T, blocks map[uint64]*DataBlock, opts ...WriterOption) (string, int) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.tsm")
	cursor, err := CreateFileCursor(path)
	require.NoError(t, err)
	defer cursor.Close()

	writer, err := NewBufferedWriter(cursor, blocks, opts...)
	require.NoError(t, err)

	size, err := writer.Write()
	require.NoError(t, err)

	return path, size
}

// TestWriteTwoUnsignedFields writes two single-chunk unsigned fields and
// verifies the header bytes, the index entries and the round-tripped points.
func TestWriteTwoUnsignedFields(t *testing.T) {
	block1, err := NewUnsignedBlock([]int64{2, 3, 4}, []uint64{12, 13, 15})
	require.NoError(t, err)
	block2, err := NewUnsignedBlock([]int64{2, 3, 4}, []uint64{101, 102, 103})
	require.NoError(t, err)

	path, size := writeTestFile(t, map[uint64]*DataBlock{1: block1, 2: block2})

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, raw, size)

	// Header: big-endian magic constant followed by version 1.
	require.Equal(t, []byte{0x01, 0x34, 0x66, 0x13, 0x01}, raw[:section.HeaderSize])

	reader, err := OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	fields := reader.Fields()
	require.Len(t, fields, 2)
	require.Equal(t, uint64(1), fields[0].Meta.FieldID)
	require.Equal(t, uint64(2), fields[1].Meta.FieldID)
	for _, field := range fields {
		require.Equal(t, format.TypeUnsigned, field.Meta.Type)
		require.Equal(t, uint16(1), field.Meta.BlockCount)
		require.Len(t, field.Blocks, 1)
	}

	got1, err := reader.ReadField(1)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3, 4}, got1.Timestamps())
	require.Equal(t, []uint64{12, 13, 15}, got1.Unsigneds())

	got2, err := reader.ReadField(2)
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3, 4}, got2.Timestamps())
	require.Equal(t, []uint64{101, 102, 103}, got2.Unsigneds())
}

// TestRoundTripAllValueTypes verifies writing then reading yields identical
// point sequences for every supported value type.
func TestRoundTripAllValueTypes(t *testing.T) {
	timestamps := []int64{-5, 0, 1000, 1001, 2000}

	floatBlock, err := NewFloatBlock(timestamps, []float64{1.5, -2.25, 0, 3.75, 1e18})
	require.NoError(t, err)
	intBlock, err := NewIntegerBlock(timestamps, []int64{-100, 0, 42, -1, 1 << 40})
	require.NoError(t, err)
	uintBlock, err := NewUnsignedBlock(timestamps, []uint64{0, 1, 1<<63 + 7, 99, 100})
	require.NoError(t, err)
	boolBlock, err := NewBooleanBlock(timestamps, []bool{true, false, true, true, false})
	require.NoError(t, err)
	strBlock, err := NewStringBlock(timestamps, [][]byte{[]byte("OK"), []byte(""), []byte("FAILED"), []byte("OK"), []byte("PENDING")})
	require.NoError(t, err)

	blocks := map[uint64]*DataBlock{
		10: floatBlock,
		20: intBlock,
		30: uintBlock,
		40: boolBlock,
		50: strBlock,
	}

	path, _ := writeTestFile(t, blocks)

	reader, err := OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	for fieldID, want := range blocks {
		got, err := reader.ReadField(fieldID)
		require.NoError(t, err)
		require.Equal(t, want.Type(), got.Type())
		require.Equal(t, want.Timestamps(), got.Timestamps())
	}

	gotFloat, _ := reader.ReadField(10)
	require.Equal(t, floatBlock.Floats(), gotFloat.Floats())
	gotInt, _ := reader.ReadField(20)
	require.Equal(t, intBlock.Integers(), gotInt.Integers())
	gotUint, _ := reader.ReadField(30)
	require.Equal(t, uintBlock.Unsigneds(), gotUint.Unsigneds())
	gotBool, _ := reader.ReadField(40)
	require.Equal(t, boolBlock.Booleans(), gotBool.Booleans())
	gotStr, _ := reader.ReadField(50)
	require.Equal(t, strBlock.Strings(), gotStr.Strings())
}

// TestChunkCountLaw verifies block_count == ceil(n / cap) across the
// remainder, exact-multiple and single-chunk cases.
func TestChunkCountLaw(t *testing.T) {
	tests := []struct {
		name       string
		points     int
		chunkCap   int
		wantChunks uint16
	}{
		{name: "remainder first", points: 2500, chunkCap: 1000, wantChunks: 3},
		{name: "exact multiple", points: 3000, chunkCap: 1000, wantChunks: 3},
		{name: "single partial", points: 999, chunkCap: 1000, wantChunks: 1},
		{name: "n equals cap", points: 10000, chunkCap: 10000, wantChunks: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timestamps := make([]int64, tt.points)
			values := make([]uint64, tt.points)
			for i := range timestamps {
				timestamps[i] = int64(i)
				values[i] = uint64(i * 3)
			}
			block, err := NewUnsignedBlock(timestamps, values)
			require.NoError(t, err)

			path, _ := writeTestFile(t, map[uint64]*DataBlock{7: block}, WithMaxBlockValues(tt.chunkCap))

			reader, err := OpenReader(path)
			require.NoError(t, err)
			defer reader.Close()

			fields := reader.Fields()
			require.Len(t, fields, 1)
			require.Equal(t, tt.wantChunks, fields[0].Meta.BlockCount)

			// Coverage law: all points come back exactly once, in order.
			got, err := reader.ReadField(7)
			require.NoError(t, err)
			require.Equal(t, timestamps, got.Timestamps())
			require.Equal(t, values, got.Unsigneds())
		})
	}
}

// TestChunkMetadataInvariants verifies offset monotonicity, contiguity, size
// exactness and the time ranges recorded per chunk.
func TestChunkMetadataInvariants(t *testing.T) {
	const points = 2500
	const chunkCap = 1000

	timestamps := make([]int64, points)
	values := make([]float64, points)
	for i := range timestamps {
		timestamps[i] = int64(i * 10)
		values[i] = float64(i) / 7
	}
	block, err := NewFloatBlock(timestamps, values)
	require.NoError(t, err)

	path, totalSize := writeTestFile(t, map[uint64]*DataBlock{3: block}, WithMaxBlockValues(chunkCap))

	reader, err := OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	fields := reader.Fields()
	require.Len(t, fields, 1)
	chunks := fields[0].Blocks
	require.Len(t, chunks, 3)

	// First chunk absorbs the remainder (500 points), later chunks take a
	// full cap each.
	require.Equal(t, int64(0), chunks[0].MinTime)
	require.Equal(t, int64(499*10), chunks[0].MaxTime)
	require.Equal(t, int64(500*10), chunks[1].MinTime)
	require.Equal(t, int64(1499*10), chunks[1].MaxTime)
	require.Equal(t, int64(1500*10), chunks[2].MinTime)
	require.Equal(t, int64(2499*10), chunks[2].MaxTime)

	// Chunks are laid out back to back, offsets strictly increasing, with
	// the first chunk starting right after the header.
	require.Equal(t, uint64(section.HeaderSize), chunks[0].Offset)
	for i, chunk := range chunks {
		require.LessOrEqual(t, chunk.MinTime, chunk.MaxTime)
		require.GreaterOrEqual(t, chunk.ValOffset, chunk.Offset+4)
		require.Less(t, chunk.ValOffset+4, chunk.Offset+chunk.Size)
		if i > 0 {
			require.Greater(t, chunk.Offset, chunks[i-1].Offset)
			require.Equal(t, chunks[i-1].Offset+chunks[i-1].Size, chunk.Offset)
		}
	}

	// Size exactness: header + all chunk bytes must land exactly on the
	// recorded index offset, and the total matches the file size.
	var blocksSize uint64
	for _, chunk := range chunks {
		blocksSize += chunk.Size
	}
	require.Equal(t, uint64(section.HeaderSize)+blocksSize, reader.IndexOffset())

	stat, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(totalSize), stat.Size())
}

// TestFooterExactness verifies the footer records exactly where the index
// section was written.
func TestFooterExactness(t *testing.T) {
	block, err := NewIntegerBlock([]int64{1, 2, 3}, []int64{7, 8, 9})
	require.NoError(t, err)

	path, size := writeTestFile(t, map[uint64]*DataBlock{42: block})

	reader, err := OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	// One field with one chunk: the index region is one index meta plus one
	// block meta, and the footer sits right behind it.
	indexSize := section.IndexMetaSize + section.BlockMetaSize
	require.Equal(t, uint64(size-section.FooterSize-indexSize), reader.IndexOffset())

	// The first index byte parses as the field's index meta, proving the
	// recorded offset is where the index actually starts.
	fields := reader.Fields()
	require.Len(t, fields, 1)
	require.Equal(t, uint64(42), fields[0].Meta.FieldID)
}

// TestFilterSoundness verifies every written field is reported present by
// the footer's membership filter.
func TestFilterSoundness(t *testing.T) {
	blocks := make(map[uint64]*DataBlock)
	for i := uint64(1); i <= 200; i++ {
		block, err := NewUnsignedBlock([]int64{1}, []uint64{i})
		require.NoError(t, err)
		blocks[i*7919] = block
	}

	path, _ := writeTestFile(t, blocks)

	reader, err := OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	for fieldID := range blocks {
		require.True(t, reader.MaybeContains(fieldID), "field %d missing from filter", fieldID)
	}
}

// TestUnknownValueTypeRejected verifies blocks cannot be created with the
// unknown value type.
func TestUnknownValueTypeRejected(t *testing.T) {
	_, err := NewDataBlock(format.TypeUnknown, 10)
	require.ErrorIs(t, err, errs.ErrUnknownValueType)

	_, err = NewDataBlock(format.ValueType(99), 10)
	require.ErrorIs(t, err, errs.ErrUnknownValueType)
}

// TestEmptyBlockRejected verifies a zero-point field aborts the write.
func TestEmptyBlockRejected(t *testing.T) {
	block, err := NewDataBlock(format.TypeFloat, 0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "empty.tsm")
	cursor, err := CreateFileCursor(path)
	require.NoError(t, err)
	defer cursor.Close()

	writer, err := NewBufferedWriter(cursor, map[uint64]*DataBlock{1: block})
	require.NoError(t, err)

	_, err = writer.Write()
	require.ErrorIs(t, err, errs.ErrEmptyBlock)
}

// TestWriterOptions verifies option validation.
func TestWriterOptions(t *testing.T) {
	cursor := &memSink{}

	_, err := NewBufferedWriter(cursor, nil, WithMaxBlockValues(0))
	require.ErrorIs(t, err, errs.ErrInvalidMaxBlockValues)

	_, err = NewBufferedWriter(cursor, nil, WithStringCompression(format.CompressionType(0xFF)))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)

	_, err = NewBufferedWriter(cursor, nil, WithMaxBlockValues(500), WithStringCompression(format.CompressionS2))
	require.NoError(t, err)
}

// memSink is an in-memory Sink for tests that never touch disk.
type memSink struct {
	buf   []byte
	syncs int
}

func (s *memSink) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)

	return len(p), nil
}

func (s *memSink) Pos() uint64 { return uint64(len(s.buf)) }

func (s *memSink) Sync(SyncMode) error {
	s.syncs++

	return nil
}

// failingSink fails every write once the byte limit is crossed.
type failingSink struct {
	memSink
	failAfter int
}

func (s *failingSink) Write(p []byte) (int, error) {
	if len(s.buf)+len(p) > s.failAfter {
		return 0, errors.New("disk full")
	}

	return s.memSink.Write(p)
}

// TestWriteFailureAbortsPipeline verifies a sink failure mid-blocks aborts
// the remaining phases: no index, no footer, no flush.
func TestWriteFailureAbortsPipeline(t *testing.T) {
	timestamps := make([]int64, 100)
	values := make([]uint64, 100)
	for i := range timestamps {
		timestamps[i] = int64(i)
		values[i] = uint64(i)
	}
	block, err := NewUnsignedBlock(timestamps, values)
	require.NoError(t, err)

	// Enough room for the header and a little of the blocks phase.
	sink := &failingSink{failAfter: section.HeaderSize + 10}
	writer, err := NewBufferedWriter(sink, map[uint64]*DataBlock{1: block})
	require.NoError(t, err)

	_, err = writer.Write()
	require.ErrorIs(t, err, errs.ErrWriteFailed)
	require.Contains(t, err.Error(), "disk full")
	require.Zero(t, sink.syncs, "flush must not run after a failed phase")

	// Nothing past the failure point was written: no index or footer bytes.
	require.LessOrEqual(t, len(sink.buf), sink.failAfter)
}

// phaseRecorder tracks which pipeline phases ran.
type phaseRecorder struct {
	phases    []string
	failPhase string
}

func (r *phaseRecorder) run(phase string) (int, error) {
	r.phases = append(r.phases, phase)
	if phase == r.failPhase {
		return 0, errors.New(phase + " failed")
	}

	return 1, nil
}

func (r *phaseRecorder) WriteHeader() (int, error) { return r.run("header") }
func (r *phaseRecorder) WriteBlocks() (int, error) { return r.run("blocks") }
func (r *phaseRecorder) WriteIndex() (int, error)  { return r.run("index") }
func (r *phaseRecorder) WriteFooter() (int, error) { return r.run("footer") }
func (r *phaseRecorder) Flush() error {
	_, err := r.run("flush")

	return err
}

// TestPhaseSequencing verifies the orchestrator runs phases strictly in
// order and stops at the first failure.
func TestPhaseSequencing(t *testing.T) {
	ok := &phaseRecorder{}
	size, err := Write(ok)
	require.NoError(t, err)
	require.Equal(t, 4, size)
	require.Equal(t, []string{"header", "blocks", "index", "footer", "flush"}, ok.phases)

	failed := &phaseRecorder{failPhase: "blocks"}
	_, err = Write(failed)
	require.Error(t, err)
	require.Equal(t, []string{"header", "blocks"}, failed.phases)
}
