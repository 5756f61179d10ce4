//go:build linux

package tsm

import "golang.org/x/sys/unix"

// syncData flushes file data without metadata, saving an inode write when
// only the soft durability level is needed.
func (c *FileCursor) syncData() error {
	return unix.Fdatasync(int(c.f.Fd()))
}
