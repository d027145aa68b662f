// Package shredder overwrites files before removing them so their former
// contents cannot be read back from the underlying blocks.
package shredder

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/fenilsonani/reclaim/internal/cleaner"
	"github.com/fenilsonani/reclaim/internal/logger"
)

// DefaultChunkSize is the write size used for every pass
const DefaultChunkSize = 64 * 1024

// Options controls how files are overwritten
type Options struct {
	Passes    int
	ChunkSize int
	// ForceSync flushes after every pass instead of once at the end
	ForceSync bool
}

// DefaultOptions returns three passes in 64 KiB chunks with a flush per pass
func DefaultOptions() Options {
	return Options{Passes: 3, ChunkSize: DefaultChunkSize, ForceSync: true}
}

// PassFunc is called after each completed pass over path
type PassFunc func(path string, pass, passes int, size int64)

// Shredder performs multi-pass overwrites. Odd passes write random bytes,
// even passes write zeros.
type Shredder struct {
	opts   Options
	random io.Reader
	onPass PassFunc
}

// New creates a Shredder. Zero values in opts fall back to the defaults.
func New(opts Options) *Shredder {
	def := DefaultOptions()
	if opts.Passes < 1 {
		opts.Passes = def.Passes
	}
	if opts.ChunkSize < 1 {
		opts.ChunkSize = def.ChunkSize
	}
	return &Shredder{opts: opts, random: rand.Reader}
}

// OnPass registers a per-pass progress callback
func (s *Shredder) OnPass(fn PassFunc) {
	s.onPass = fn
}

// Passes returns the configured pass count
func (s *Shredder) Passes() int {
	return s.opts.Passes
}

// Shred overwrites the regular file at path and unlinks it, returning the
// file length. If any write or flush fails the file is left in place with
// its length unchanged. Symlinks are unlinked without touching the target.
func (s *Shredder) Shred(path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, cleaner.CategorizeError(path, err)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		if err := os.Remove(path); err != nil {
			return 0, cleaner.CategorizeError(path, err)
		}
		return 0, nil
	case info.IsDir():
		return 0, cleaner.NewError(cleaner.ErrorInvalidParameter, path, fmt.Errorf("is a directory"))
	case !info.Mode().IsRegular():
		return 0, cleaner.NewError(cleaner.ErrorInvalidPath, path, fmt.Errorf("not a regular file"))
	}

	size := info.Size()
	if size > 0 {
		if err := s.overwrite(path, size); err != nil {
			return 0, err
		}
	}

	if err := os.Remove(path); err != nil {
		return 0, cleaner.CategorizeError(path, err)
	}
	logger.Debugf("shredded %s (%d bytes, %d passes)", path, size, s.opts.Passes)
	return size, nil
}

func (s *Shredder) overwrite(path string, size int64) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return cleaner.CategorizeError(path, err)
	}
	defer f.Close()

	buf := make([]byte, s.opts.ChunkSize)
	for pass := 1; pass <= s.opts.Passes; pass++ {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return cleaner.CategorizeError(path, fmt.Errorf("failed to rewind for pass %d: %w", pass, err))
		}

		random := pass%2 == 1
		if !random {
			clear(buf)
		}

		for remaining := size; remaining > 0; {
			n := int64(len(buf))
			if remaining < n {
				n = remaining
			}
			chunk := buf[:n]
			if random {
				if _, err := io.ReadFull(s.random, chunk); err != nil {
					return cleaner.NewError(cleaner.ErrorIO, path, fmt.Errorf("failed to generate random data: %w", err))
				}
			}
			if _, err := f.Write(chunk); err != nil {
				return cleaner.CategorizeError(path, fmt.Errorf("failed to write pass %d: %w", pass, err))
			}
			remaining -= n
		}

		if s.opts.ForceSync || pass == s.opts.Passes {
			if err := f.Sync(); err != nil {
				return cleaner.CategorizeError(path, fmt.Errorf("failed to flush pass %d: %w", pass, err))
			}
		}

		if s.onPass != nil {
			s.onPass(path, pass, s.opts.Passes, size)
		}
	}

	return f.Close()
}

// ShredPath shreds a file, or a directory file by file with its contents
// going before the directories that held them. ctx is checked between
// files; a file already being overwritten is always finished. A directory
// cancelled before its first file returns ErrorCancelled, one cancelled
// later returns ErrorPartial with the bytes already destroyed.
func (s *Shredder) ShredPath(ctx context.Context, path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, cleaner.CategorizeError(path, err)
	}
	if !info.IsDir() {
		return s.Shred(path)
	}

	var files, dirs []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, p)
		} else {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return 0, cleaner.CategorizeError(path, err)
	}

	var total int64
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			if i == 0 {
				return 0, cleaner.NewError(cleaner.ErrorCancelled, path, err)
			}
			return total, cleaner.NewError(cleaner.ErrorPartial, path,
				fmt.Errorf("%d of %d files shredded: %w", i, len(files), err))
		}
		n, err := s.Shred(f)
		total += n
		if err != nil {
			return total, err
		}
	}

	// Deepest first
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, d := range dirs {
		if err := os.Remove(d); err != nil {
			return total, cleaner.CategorizeError(d, err)
		}
	}
	return total, nil
}

// Erase adapts ShredPath to cleaner.EraseFunc so shredding goes through
// the Remover's containment and retry handling
func (s *Shredder) Erase(ctx context.Context, path string, _ bool) error {
	_, err := s.ShredPath(ctx, path)
	return err
}
