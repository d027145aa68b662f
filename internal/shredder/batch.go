package shredder

import (
	"context"

	"github.com/fenilsonani/reclaim/internal/cleaner"
)

// FileResult is the outcome of shredding one requested path
type FileResult struct {
	Path  string
	Bytes int64
	Err   error
}

// Cancelled reports whether the path was never started because of
// cancellation. A directory stopped part way is a failure, not a cancel.
func (r FileResult) Cancelled() bool {
	return r.Err != nil && cleaner.ReasonOf(r.Err) == cleaner.ErrorCancelled
}

// BatchResult aggregates a ShredBatch run
type BatchResult struct {
	Results []FileResult
	Bytes   int64
}

// Counts splits the results into completed, cancelled and failed
func (b *BatchResult) Counts() (completed, cancelled, failed int) {
	for _, r := range b.Results {
		switch {
		case r.Err == nil:
			completed++
		case r.Cancelled():
			cancelled++
		default:
			failed++
		}
	}
	return completed, cancelled, failed
}

// ShredBatch shreds every path in order. Once ctx is cancelled the
// remaining paths are recorded as cancelled without being touched; the
// file in progress at that moment is finished first. A failure on one
// path never stops the batch. done, if set, sees each result as it lands.
func (s *Shredder) ShredBatch(ctx context.Context, paths []string, done func(FileResult)) *BatchResult {
	res := &BatchResult{Results: make([]FileResult, 0, len(paths))}

	for _, path := range paths {
		var r FileResult
		if err := ctx.Err(); err != nil {
			r = FileResult{Path: path, Err: cleaner.NewError(cleaner.ErrorCancelled, path, err)}
		} else {
			n, err := s.ShredPath(ctx, path)
			r = FileResult{Path: path, Bytes: n, Err: err}
		}

		res.Results = append(res.Results, r)
		res.Bytes += r.Bytes
		if done != nil {
			done(r)
		}
	}

	return res
}
