package tsm

import (
	"fmt"
	"os"
)

// SyncMode selects how FileCursor.Sync forces bytes to stable storage.
type SyncMode int

const (
	// SyncHard flushes file data and metadata (fsync). A completed hard sync
	// is the point after which a TSM file is considered durably committed.
	SyncHard SyncMode = iota

	// SyncSoft flushes file data only (fdatasync where the platform has it).
	SyncSoft
)

// Sink is the append-only byte sink a writer emits into.
//
// A sink is owned by exactly one writer for the duration of a write. The
// position starts at zero, advances monotonically with each Write, and is
// never rewound; offsets recorded in block and index metadata are positions
// returned by Pos.
type Sink interface {
	// Write appends p and returns the number of bytes written.
	Write(p []byte) (int, error)

	// Pos returns the current absolute write position from file start.
	Pos() uint64

	// Sync forces previously written bytes to stable storage.
	Sync(mode SyncMode) error
}

// FileCursor is the file-backed Sink implementation.
//
// It tracks the write position itself instead of seeking, so the underlying
// file is only ever appended to.
type FileCursor struct {
	f   *os.File
	pos uint64
}

var _ Sink = (*FileCursor)(nil)

// NewFileCursor wraps an opened file positioned at offset zero.
func NewFileCursor(f *os.File) *FileCursor {
	return &FileCursor{f: f}
}

// CreateFileCursor creates (or truncates) the file at path and returns a
// cursor positioned at its start.
func CreateFileCursor(path string) (*FileCursor, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	return NewFileCursor(f), nil
}

// Write appends p to the file and advances the cursor position.
func (c *FileCursor) Write(p []byte) (int, error) {
	n, err := c.f.Write(p)
	c.pos += uint64(n)
	if err != nil {
		return n, err
	}

	return n, nil
}

// Pos returns the current absolute write position.
func (c *FileCursor) Pos() uint64 {
	return c.pos
}

// Sync forces written bytes to stable storage.
func (c *FileCursor) Sync(mode SyncMode) error {
	if mode == SyncSoft {
		return c.syncData()
	}

	return c.f.Sync()
}

// Close closes the underlying file. The cursor is unusable afterwards.
func (c *FileCursor) Close() error {
	return c.f.Close()
}
