package fixture

import (
	"github.com/spf13/afero"

	"github.com/kbukum/seedkit/errors"
	"github.com/kbukum/seedkit/validation"
)

// Defaults applied by Config.ApplyDefaults.
const (
	DefaultFixturesDir = "fixtures"
	DefaultBackend     = "orm"
	DefaultPlaceholder = `SymfonYaml\CoreBundle\Entity\`
)

// DefaultExtensions are the fixture file extensions scanned when none are configured.
var DefaultExtensions = []string{"yml", "yaml"}

// Config describes where fixtures live and how their models are resolved.
type Config struct {
	// Modules lists module specifiers: "module" or "module/stem".
	Modules []string `mapstructure:"modules" validate:"required,min=1,dive,required"`

	// Locations maps a module name to its base directory.
	Locations map[string]string `mapstructure:"locations"`

	// Root is a directory whose subdirectories are modules. Consulted after Locations.
	Root string `mapstructure:"root"`

	// FixturesDir is the sub-directory of each module holding fixture files.
	FixturesDir string `mapstructure:"fixtures_dir"`

	// Extensions are the file extensions collected, without the dot.
	Extensions []string `mapstructure:"extensions" validate:"dive,required,excludes=."`

	// RootNamespace replaces the placeholder prefix in model identifiers.
	RootNamespace string `mapstructure:"root_namespace"`

	// Placeholder is the reserved model prefix rewritten to RootNamespace.
	Placeholder string `mapstructure:"placeholder"`

	// DefaultBackend is used for files without a persistence key.
	DefaultBackend string `mapstructure:"default_backend" validate:"required"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.FixturesDir == "" {
		c.FixturesDir = DefaultFixturesDir
	}
	if len(c.Extensions) == 0 {
		c.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if c.Placeholder == "" {
		c.Placeholder = DefaultPlaceholder
	}
	if c.DefaultBackend == "" {
		c.DefaultBackend = DefaultBackend
	}
}

// Validate checks the configuration. Failures are CONFIGURATION errors.
func (c *Config) Validate() error {
	if err := validation.ValidateConfig(c); err != nil {
		return err
	}
	if len(c.Locations) == 0 && c.Root == "" {
		return errors.Configuration("fixtures: either locations or root is required")
	}
	return nil
}

// NewLocator returns the locator described by Locations and Root.
func (c *Config) NewLocator(fs afero.Fs) Locator {
	var chain ChainLocator
	if len(c.Locations) > 0 {
		chain = append(chain, DirLocator(c.Locations))
	}
	if c.Root != "" {
		chain = append(chain, &RootLocator{Fs: fs, Root: c.Root})
	}
	return chain
}

// NewModelResolver returns the resolver for Placeholder and RootNamespace.
func (c *Config) NewModelResolver() *ModelResolver {
	return &ModelResolver{Placeholder: c.Placeholder, RootNamespace: c.RootNamespace}
}
