package fixture

import (
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/kbukum/seedkit/errors"
)

// File is a fixture file found under a module.
type File struct {
	Path   string
	Module string
}

// Collector enumerates fixture files for module specifiers.
type Collector struct {
	fs          afero.Fs
	locator     Locator
	fixturesDir string
	extensions  []string
}

// NewCollector creates a Collector. Empty fixturesDir and extensions fall
// back to the package defaults.
func NewCollector(fs afero.Fs, locator Locator, fixturesDir string, extensions []string) *Collector {
	if fixturesDir == "" {
		fixturesDir = DefaultFixturesDir
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &Collector{fs: fs, locator: locator, fixturesDir: fixturesDir, extensions: extensions}
}

// Collect resolves every specifier ("module" or "module/stem") and returns
// the union of matching files without duplicates. Each call starts from an
// empty set. Files appear in specifier order, sorted by name within one
// specifier; callers must not rely on that for load order.
func (c *Collector) Collect(specs []string) ([]File, error) {
	seen := make(map[string]bool)
	var files []File

	for _, spec := range specs {
		module, stem, _ := strings.Cut(spec, "/")
		if stem == "" {
			stem = "*"
		}

		dir, err := c.locator.Locate(module)
		if err != nil {
			return nil, err
		}

		matches, err := c.glob(path.Join(dir, c.fixturesDir), stem)
		if err != nil {
			return nil, errors.Configuration("invalid module specifier %q", spec).
				WithDetail(errors.DetailModule, module).WithCause(err)
		}
		for _, p := range matches {
			p = path.Clean(p)
			if seen[p] {
				continue
			}
			seen[p] = true
			files = append(files, File{Path: p, Module: module})
		}
	}
	return files, nil
}

func (c *Collector) glob(base, stem string) ([]string, error) {
	pattern := stem + "." + c.extensionPattern()
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	fsys := afero.NewIOFS(afero.NewBasePathFs(c.fs, base))
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	slices.Sort(matches)

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = path.Join(base, m)
	}
	return out, nil
}

func (c *Collector) extensionPattern() string {
	if len(c.extensions) == 1 {
		return c.extensions[0]
	}
	return "{" + strings.Join(c.extensions, ",") + "}"
}
