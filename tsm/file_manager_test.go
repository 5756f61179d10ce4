package tsm

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tsmfile/errs"
)

// TestFileManagerLifecycle verifies create, duplicate rejection and close.
func TestFileManagerLifecycle(t *testing.T) {
	manager := NewFileManager()
	path := filepath.Join(t.TempDir(), "000001.tsm")

	cursor, err := manager.CreateFile(path)
	require.NoError(t, err)
	require.NotNil(t, cursor)
	require.Equal(t, 1, manager.Len())

	_, err = manager.CreateFile(path)
	require.ErrorIs(t, err, errs.ErrFileAlreadyOpen)

	require.NoError(t, manager.CloseFile(path))
	require.Equal(t, 0, manager.Len())

	require.ErrorIs(t, manager.CloseFile(path), errs.ErrFileNotOpen)

	// The path is free again after close.
	cursor, err = manager.CreateFile(path)
	require.NoError(t, err)
	require.NotNil(t, cursor)
	require.NoError(t, manager.CloseFile(path))
}

// TestGetFileManagerSingleton verifies the process-wide registry is shared.
func TestGetFileManagerSingleton(t *testing.T) {
	require.Same(t, GetFileManager(), GetFileManager())
}
