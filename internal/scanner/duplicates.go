package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/fenilsonani/reclaim/internal/cleaner"
	"github.com/fenilsonani/reclaim/pkg/utils"
)

// duplicates finds byte-identical files with a three-phase funnel: equal
// size, then equal digest of the first 4 KiB, then equal digest of the
// whole content. In every group the lexicographically smallest path is the
// keeper and the rest are removable.
type duplicates struct {
	base
	minSize    int64
	maxSize    int64
	maxDepth   int
	skipDirs   []string
	skipBundle []string

	mu      sync.Mutex
	keepers map[string]string // group key -> keeper path from the last scan
}

// NewDuplicates returns the duplicates category
func NewDuplicates(env *Env) Category {
	cfg := env.Config
	return &duplicates{
		base: base{
			id:    IDDuplicates,
			label: "Duplicate Files",
			env:   env,
			roots: env.homeRoots(cfg.Duplicates.Roots),
		},
		minSize:    cfg.DuplicateMin(),
		maxSize:    cfg.DuplicateMax(),
		maxDepth:   cfg.Duplicates.MaxDepth,
		skipDirs:   cfg.Duplicates.SkipDirs,
		skipBundle: cfg.Duplicates.SkipBundle,
		keepers:    make(map[string]string),
	}
}

func (c *duplicates) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()

	// Phase 1: partition by size
	bySize, err := c.collect(ctx, res, progress)
	if err != nil {
		return res, cancelled(c.id, err)
	}

	var groups []DuplicateGroup
	sizes := make([]int64, 0, len(bySize))
	for size := range bySize {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] > sizes[j] })

	for _, size := range sizes {
		bucket := bySize[size]
		if len(bucket) < 2 {
			continue
		}

		// Phase 2: digest of the leading bytes
		for _, partial := range c.partition(ctx, res, bucket, utils.PartialDigest) {
			// Phase 3: digest of the full content
			for key, same := range c.partitionByKey(ctx, res, partial, utils.FullDigest) {
				groups = append(groups, newGroup(key, size, same))
			}
		}
		if err := ctx.Err(); err != nil {
			return res, cancelled(c.id, err)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Reclaimable() != groups[j].Reclaimable() {
			return groups[i].Reclaimable() > groups[j].Reclaimable()
		}
		return groups[i].Keeper.Path < groups[j].Keeper.Path
	})

	keepers := make(map[string]string, len(groups))
	for _, g := range groups {
		keepers[g.Key] = g.Keeper.Path
		for _, e := range g.Removable {
			res.Add(e)
		}
	}
	res.Groups = groups

	c.mu.Lock()
	c.keepers = keepers
	c.mu.Unlock()

	return res, nil
}

// collect walks the roots and buckets regular files by size. Hard links
// to an already seen file are dropped, keeping the smallest path.
func (c *duplicates) collect(ctx context.Context, res *Result, progress ProgressCallback) (map[int64][]Entry, error) {
	byID := make(map[fileKey]int)
	var found []Entry

	w := walker{
		maxDepth: c.maxDepth,
		skipDir: func(name string) bool {
			return nameIn(name, c.skipDirs) || hasSuffixFold(name, c.skipBundle)
		},
		onError: res.Warn,
	}

	for _, root := range c.roots {
		err := w.walk(ctx, root, func(path string, d fs.DirEntry, _ int) error {
			if !d.Type().IsRegular() || c.env.excluded(path) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				res.Warn(path, err)
				return nil
			}
			size := info.Size()
			if size < c.minSize || size > c.maxSize {
				return nil
			}

			e := Entry{Path: path, Size: size, Category: c.id, ModTime: info.ModTime()}
			key, ok := fileID(info)
			if ok {
				if i, seen := byID[key]; seen {
					if path < found[i].Path {
						found[i] = e
					}
					return nil
				}
				byID[key] = len(found)
			}
			found = append(found, e)
			if progress != nil {
				progress(c.id, path, len(found), 0)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	bySize := make(map[int64][]Entry)
	for _, e := range found {
		bySize[e.Size] = append(bySize[e.Size], e)
	}
	return bySize, nil
}

// partition splits entries by digest and drops singleton classes. Files
// that cannot be read are excluded with a warning.
func (c *duplicates) partition(ctx context.Context, res *Result, entries []Entry, digest func(string) (string, error)) [][]Entry {
	byKey := c.partitionByKey(ctx, res, entries, digest)
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([][]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, byKey[k])
	}
	return out
}

func (c *duplicates) partitionByKey(ctx context.Context, res *Result, entries []Entry, digest func(string) (string, error)) map[string][]Entry {
	byKey := make(map[string][]Entry)
	for _, e := range entries {
		if ctx.Err() != nil {
			return nil
		}
		sum, err := digest(e.Path)
		if err != nil {
			res.Warn(e.Path, cleaner.NewError(cleaner.ErrorHashComputation, e.Path, err))
			continue
		}
		byKey[sum] = append(byKey[sum], e)
	}
	for k, v := range byKey {
		if len(v) < 2 {
			delete(byKey, k)
		}
	}
	return byKey
}

// newGroup picks the smallest path as keeper and tags the rest with key
func newGroup(key string, size int64, members []Entry) DuplicateGroup {
	sorted := append([]Entry(nil), members...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	g := DuplicateGroup{Key: key, Size: size, Keeper: sorted[0]}
	g.Keeper.GroupKey = key
	g.Keeper.Reason = "Kept copy"
	for _, e := range sorted[1:] {
		e.GroupKey = key
		e.Reason = "Duplicate of " + sorted[0].Path
		g.Removable = append(g.Removable, e)
	}
	return g
}

// Clean removes duplicate copies, refusing any copy whose keeper has gone
// missing since the scan
func (c *duplicates) Clean(ctx context.Context, selected []Entry, opts CleanOptions) *Outcome {
	c.mu.Lock()
	keepers := c.keepers
	c.mu.Unlock()

	out := NewOutcome(opts.DryRun)
	var safe []Entry
	for _, e := range selected {
		keeper, ok := keepers[e.GroupKey]
		switch {
		case !ok:
			out.Record(EntryOutcome{
				Entry:  e,
				Status: StatusFailed,
				Reason: cleaner.ErrorInvalidParameter,
				Err:    cleaner.InvalidParameter("%s is not part of a known duplicate group", e.Path),
			})
		case keeper == e.Path:
			out.Record(EntryOutcome{
				Entry:  e,
				Status: StatusFailed,
				Reason: cleaner.ErrorInvalidParameter,
				Err:    cleaner.InvalidParameter("%s is the kept copy", e.Path),
			})
		case !fileExists(keeper):
			out.Record(EntryOutcome{
				Entry:  e,
				Status: StatusSkipped,
				Reason: cleaner.ErrorNotFound,
				Err:    cleaner.NewError(cleaner.ErrorNotFound, keeper, fmt.Errorf("kept copy of %s disappeared", e.Path)),
			})
		default:
			safe = append(safe, e)
		}
	}

	out.Merge(c.base.Clean(ctx, safe, opts))
	return out
}
