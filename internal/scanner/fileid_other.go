//go:build !unix

package scanner

import "io/fs"

type fileKey struct{}

// fileID is unavailable here; hard links are not detected
func fileID(info fs.FileInfo) (fileKey, bool) {
	return fileKey{}, false
}
