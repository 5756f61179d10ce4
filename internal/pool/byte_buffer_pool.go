package pool

import "sync"

// Default size and recycle threshold for chunk encoding buffers.
//
// A chunk holds at most MaxBlockValues points, so 16KiB covers the common
// case without growth. Buffers that ballooned past the threshold are dropped
// instead of being returned, keeping the pool from pinning large allocations.
const (
	ChunkBufferDefaultSize  = 1024 * 16
	ChunkBufferMaxThreshold = 1024 * 128
)

// ByteBuffer is a reusable byte slice wrapper handed out by GetChunkBuffer.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

var chunkBufferPool = sync.Pool{
	New: func() any {
		return NewByteBuffer(ChunkBufferDefaultSize)
	},
}

// GetChunkBuffer returns a reset ByteBuffer from the pool.
func GetChunkBuffer() *ByteBuffer {
	buf := chunkBufferPool.Get().(*ByteBuffer) //nolint:errcheck
	buf.Reset()

	return buf
}

// PutChunkBuffer returns a ByteBuffer to the pool.
// Oversized buffers are dropped to bound pooled memory.
func PutChunkBuffer(buf *ByteBuffer) {
	if buf == nil || cap(buf.B) > ChunkBufferMaxThreshold {
		return
	}
	chunkBufferPool.Put(buf)
}
