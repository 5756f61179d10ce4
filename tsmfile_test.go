package tsmfile

import (
	"iter"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tsmfile/format"
	"github.com/arloliu/tsmfile/tsm"
)

// TestWriteFileRoundTrip verifies the top-level write and read path with
// name-derived field identifiers.
func TestWriteFileRoundTrip(t *testing.T) {
	cpuID := FieldID("cpu.usage")
	memID := FieldID("memory.bytes")
	require.NotEqual(t, cpuID, memID)

	cpu, err := tsm.NewFloatBlock([]int64{1000, 2000, 3000}, []float64{0.5, 0.75, 0.25})
	require.NoError(t, err)
	mem, err := tsm.NewUnsignedBlock([]int64{1000, 2000, 3000}, []uint64{1 << 30, 1<<30 + 4096, 1 << 31})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "000001.tsm")
	size, err := WriteFile(path, map[uint64]*tsm.DataBlock{cpuID: cpu, memID: mem})
	require.NoError(t, err)
	require.Positive(t, size)

	reader, err := tsm.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	require.True(t, reader.MaybeContains(cpuID))
	require.True(t, reader.MaybeContains(memID))
	require.Equal(t, size, reader.Size())

	gotCPU, err := reader.ReadField(cpuID)
	require.NoError(t, err)
	require.Equal(t, cpu.Timestamps(), gotCPU.Timestamps())
	require.Equal(t, cpu.Floats(), gotCPU.Floats())

	gotMem, err := reader.ReadField(memID)
	require.NoError(t, err)
	require.Equal(t, mem.Unsigneds(), gotMem.Unsigneds())
}

// TestStreamFile verifies the streaming entry point produces a readable file.
func TestStreamFile(t *testing.T) {
	block, err := tsm.NewIntegerBlock([]int64{1, 2}, []int64{-7, 7})
	require.NoError(t, err)

	source := func(yield func(uint64, *tsm.DataBlock) bool) {
		yield(99, block)
	}

	path := filepath.Join(t.TempDir(), "stream.tsm")
	size, err := StreamFile(path, iter.Seq2[uint64, *tsm.DataBlock](source),
		tsm.WithStringCompression(format.CompressionS2))
	require.NoError(t, err)
	require.Positive(t, size)

	reader, err := tsm.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	got, err := reader.ReadField(99)
	require.NoError(t, err)
	require.Equal(t, []int64{-7, 7}, got.Integers())
}

// TestFieldIDDeterministic verifies name hashing is stable.
func TestFieldIDDeterministic(t *testing.T) {
	require.Equal(t, FieldID("a.series.name"), FieldID("a.series.name"))
	require.NotZero(t, FieldID("a.series.name"))
}
