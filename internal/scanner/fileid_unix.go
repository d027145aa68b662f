//go:build unix

package scanner

import (
	"io/fs"
	"syscall"
)

// fileKey identifies a file's storage independently of its path
type fileKey struct {
	dev uint64
	ino uint64
}

// fileID returns the device and inode of info. Paths sharing a key are hard
// links to the same data.
func fileID(info fs.FileInfo) (fileKey, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}
	return fileKey{dev: uint64(st.Dev), ino: uint64(st.Ino)}, true
}
