//go:build !linux

package tsm

// syncData falls back to a full fsync on platforms without fdatasync.
func (c *FileCursor) syncData() error {
	return c.f.Sync()
}
