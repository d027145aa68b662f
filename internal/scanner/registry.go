package scanner

import (
	"fmt"
	"strings"

	"github.com/fenilsonani/reclaim/internal/cleaner"
)

// Category ids
const (
	IDSystemCaches    = "system-caches"
	IDAppLogs         = "app-logs"
	IDBrowserCaches   = "browser-caches"
	IDTempFiles       = "temp-files"
	IDBuildArtifacts  = "build-artifacts"
	IDPackageManagers = "package-managers"
	IDHomebrew        = "homebrew"
	IDTrash           = "trash"
	IDMarkerFiles     = "marker-files"
	IDLargeFiles      = "large-files"
	IDLanguageFiles   = "language-files"
	IDStaleFiles      = "stale-files"
	IDDuplicates      = "duplicates"
	IDPrivacyData     = "privacy-data"
	IDScreenshots     = "screenshots"
	IDEmptyFolders    = "empty-folders"
	IDBrokenSymlinks  = "broken-symlinks"
)

// All expands to every enabled category in Resolve
const All = "all"

// SafeCategories are cleaned by smart clean without further review
var SafeCategories = []string{
	IDSystemCaches,
	IDAppLogs,
	IDBrowserCaches,
	IDMarkerFiles,
	IDTrash,
	IDEmptyFolders,
	IDScreenshots,
}

// Registry maps category ids to categories in a fixed order
type Registry struct {
	order      []string
	categories map[string]Category
	enabled    func(id string) bool
}

// NewRegistry creates a registry over cats. Every category starts enabled.
func NewRegistry(cats ...Category) (*Registry, error) {
	r := &Registry{
		categories: make(map[string]Category, len(cats)),
		enabled:    func(string) bool { return true },
	}
	for _, c := range cats {
		if _, dup := r.categories[c.ID()]; dup {
			return nil, fmt.Errorf("duplicate category id %q", c.ID())
		}
		r.order = append(r.order, c.ID())
		r.categories[c.ID()] = c
	}
	return r, nil
}

// Default builds the registry of every built-in category, enabled per the
// config's category switches
func Default(env *Env) *Registry {
	r, _ := NewRegistry(
		NewSystemCaches(env),
		NewAppLogs(env),
		NewBrowserCaches(env),
		NewTempFiles(env),
		NewBuildArtifacts(env),
		NewPackageManagers(env),
		NewHomebrew(env),
		NewTrash(env),
		NewMarkerFiles(env),
		NewLargeFiles(env),
		NewLanguageFiles(env),
		NewStaleFiles(env),
		NewDuplicates(env),
		NewPrivacyData(env),
		NewScreenshots(env),
		NewEmptyFolders(env),
		NewBrokenSymlinks(env),
	)
	r.SetEnabled(env.Config.Categories.Enabled)
	return r
}

// SetEnabled sets the predicate used to expand "all"
func (r *Registry) SetEnabled(fn func(id string) bool) {
	if fn == nil {
		fn = func(string) bool { return true }
	}
	r.enabled = fn
}

// Get returns the category with the given id
func (r *Registry) Get(id string) (Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, cleaner.UnknownCategory(id)
	}
	return c, nil
}

// IDs returns every registered id in registration order
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Categories returns every registered category in registration order
func (r *Registry) Categories() []Category {
	cats := make([]Category, 0, len(r.order))
	for _, id := range r.order {
		cats = append(cats, r.categories[id])
	}
	return cats
}

// Enabled reports whether id is switched on
func (r *Registry) Enabled(id string) bool {
	return r.enabled(id)
}

// Resolve turns requested ids into categories, in registry order and
// without repeats. "all" expands to every enabled category; ids named
// explicitly are used even when disabled. Nothing is resolved if any id
// is unknown.
func (r *Registry) Resolve(ids []string) ([]Category, error) {
	if len(ids) == 0 {
		return nil, cleaner.InvalidParameter("no categories requested")
	}

	want := make(map[string]bool)
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == All {
			for _, known := range r.order {
				if r.enabled(known) {
					want[known] = true
				}
			}
			continue
		}
		if _, ok := r.categories[id]; !ok {
			return nil, cleaner.UnknownCategory(id)
		}
		want[id] = true
	}

	var cats []Category
	for _, id := range r.order {
		if want[id] {
			cats = append(cats, r.categories[id])
		}
	}
	return cats, nil
}
