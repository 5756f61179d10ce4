package tsm

import (
	"fmt"
	"sync"

	"github.com/alphadose/haxmap"

	"github.com/arloliu/tsmfile/errs"
)

// FileManager tracks the TSM files currently being written, keyed by path.
//
// Flush pipelines typically run many writers concurrently, one file each.
// The manager gives them a lock-free registry to create cursors through and
// to guard against two writers opening the same path. Individual writes stay
// single-threaded per file; only the registry itself is shared.
type FileManager struct {
	files *haxmap.Map[string, *FileCursor]
}

// NewFileManager creates an empty registry.
func NewFileManager() *FileManager {
	return &FileManager{
		files: haxmap.New[string, *FileCursor](),
	}
}

var (
	defaultManager     *FileManager
	defaultManagerOnce sync.Once
)

// GetFileManager returns the process-wide registry.
func GetFileManager() *FileManager {
	defaultManagerOnce.Do(func() {
		defaultManager = NewFileManager()
	})

	return defaultManager
}

// CreateFile creates (or truncates) a TSM file and registers its cursor.
// It fails if the path is already registered by another writer.
func (m *FileManager) CreateFile(path string) (*FileCursor, error) {
	if _, ok := m.files.Get(path); ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrFileAlreadyOpen, path)
	}

	cursor, err := CreateFileCursor(path)
	if err != nil {
		return nil, err
	}

	if _, loaded := m.files.GetOrSet(path, cursor); loaded {
		cursor.Close()

		return nil, fmt.Errorf("%w: %s", errs.ErrFileAlreadyOpen, path)
	}

	return cursor, nil
}

// CloseFile closes the cursor registered at path and removes it.
func (m *FileManager) CloseFile(path string) error {
	cursor, ok := m.files.Get(path)
	if !ok {
		return fmt.Errorf("%w: %s", errs.ErrFileNotOpen, path)
	}
	m.files.Del(path)

	return cursor.Close()
}

// Len returns the number of registered files.
func (m *FileManager) Len() int {
	return int(m.files.Len())
}
