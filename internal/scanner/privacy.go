package scanner

import "context"

const privacyReason = "Browsing history or cookies; clearing logs you out of websites"

// privacyData reports browser history, cookie and recent-items stores
type privacyData struct {
	base
	globs []string
}

// NewPrivacyData returns the privacy-data category
func NewPrivacyData(env *Env) Category {
	globs := env.Platform.PrivacyGlobs
	return &privacyData{
		base: base{
			id:    IDPrivacyData,
			label: "Privacy Data",
			env:   env,
			roots: globRoots(globs),
		},
		globs: globs,
	}
}

func (c *privacyData) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()
	err := scanGlobs(ctx, &c.base, res, progress, c.globs, privacyReason)
	res.SortByPath()
	return res, err
}
