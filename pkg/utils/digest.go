package utils

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"lukechampine.com/blake3"
)

// PartialDigestSize is the number of leading bytes hashed by PartialDigest.
const PartialDigestSize = 4096

const (
	digestBufferSmallSize      = 32 * 1024
	digestBufferLargeSize      = 128 * 1024
	digestLargeBufferThreshold = 256 * 1024
)

var digestBufferSmallPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, digestBufferSmallSize)
		return &buf
	},
}

var digestBufferLargePool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, digestBufferLargeSize)
		return &buf
	},
}

// PartialDigest hashes the first PartialDigestSize bytes of a file (or the
// whole file when it is shorter) with xxhash.
func PartialDigest(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := make([]byte, PartialDigestSize)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return strconv.FormatUint(xxhash.Sum64(buf[:n]), 16), nil
}

// FullDigest computes a BLAKE3-256 digest over the entire file content.
func FullDigest(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	pool := &digestBufferSmallPool
	if info, statErr := file.Stat(); statErr == nil && info.Size() >= digestLargeBufferThreshold {
		pool = &digestBufferLargePool
	}
	bufPtr := pool.Get().(*[]byte)
	defer pool.Put(bufPtr)

	h := blake3.New(32, nil)
	if _, err := io.CopyBuffer(h, file, *bufPtr); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
