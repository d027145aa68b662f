package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// languageFiles reports application localizations (.lproj bundles) for
// languages the user does not use
type languageFiles struct {
	base
	keep map[string]bool
}

// NewLanguageFiles returns the language-files category
func NewLanguageFiles(env *Env) Category {
	keep := make(map[string]bool)
	for _, lang := range env.Config.Languages.Keep {
		keep[lang] = true
	}
	for _, lang := range userLanguages() {
		keep[lang] = true
	}

	return &languageFiles{
		base: base{
			id:    IDLanguageFiles,
			label: "Language Files",
			env:   env,
			roots: env.Platform.LocaleRoots,
		},
		keep: keep,
	}
}

func (c *languageFiles) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()
	w := walker{maxDepth: 6, onError: res.Warn}

	for _, root := range c.roots {
		err := w.walk(ctx, root, func(path string, d fs.DirEntry, _ int) error {
			name := d.Name()
			if !d.IsDir() || !strings.HasSuffix(name, ".lproj") {
				return nil
			}
			if filepath.Base(filepath.Dir(path)) != "Resources" {
				return fs.SkipDir
			}
			if c.kept(strings.TrimSuffix(name, ".lproj")) {
				return fs.SkipDir
			}

			size, ok, err := measure(ctx, path, res)
			if err != nil {
				return err
			}
			if ok && size > 0 {
				res.Add(Entry{
					Path:     path,
					Size:     size,
					Category: c.id,
					Reason:   "Unused localization",
				})
				c.report(progress, res, path)
			}
			return fs.SkipDir
		})
		if err != nil {
			return res, cancelled(c.id, err)
		}
	}

	res.SortBySize()
	return res, nil
}

// kept reports whether code or its base language is in the keep set
func (c *languageFiles) kept(code string) bool {
	if c.keep[code] {
		return true
	}
	if i := strings.IndexAny(code, "_-"); i > 0 {
		return c.keep[code[:i]]
	}
	return false
}

// userLanguages derives language codes from the locale environment, e.g.
// LANG=de_DE.UTF-8 yields de_DE and de
func userLanguages() []string {
	var langs []string
	for _, v := range []string{os.Getenv("LANGUAGE"), os.Getenv("LC_ALL"), os.Getenv("LANG")} {
		for _, part := range strings.Split(v, ":") {
			part = strings.SplitN(part, ".", 2)[0]
			if part == "" || part == "C" || part == "POSIX" {
				continue
			}
			langs = append(langs, part)
			if i := strings.IndexAny(part, "_-"); i > 0 {
				langs = append(langs, part[:i])
			}
		}
	}
	return langs
}
