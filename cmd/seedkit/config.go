package main

import (
	"github.com/kbukum/seedkit/config"
	"github.com/kbukum/seedkit/database"
	"github.com/kbukum/seedkit/errors"
	"github.com/kbukum/seedkit/fixture"
	"github.com/kbukum/seedkit/logger"
	"github.com/kbukum/seedkit/observability"
	"github.com/kbukum/seedkit/redis"
	"github.com/kbukum/seedkit/validation"
	"github.com/kbukum/seedkit/version"
)

const serviceName = "seedkit"

// BackendConfig selects managers for one persistence backend.
type BackendConfig struct {
	// Default names the manager used when no route matches; empty picks
	// the first connection by name.
	Default string `yaml:"default" mapstructure:"default"`
	// Routes send models to managers by namespace prefix.
	Routes []fixture.Route `yaml:"routes" mapstructure:"routes" validate:"dive"`
	// Exclude lists tables a purge never empties (orm only).
	Exclude []string `yaml:"exclude" mapstructure:"exclude"`
}

// Config is the seedkit CLI configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Fixtures      fixture.Config             `yaml:"fixtures" mapstructure:"fixtures"`
	Databases     map[string]database.Config `yaml:"databases" mapstructure:"databases"`
	Redis         map[string]redis.Config    `yaml:"redis" mapstructure:"redis"`
	ORM           BackendConfig              `yaml:"orm" mapstructure:"orm"`
	Document      BackendConfig              `yaml:"document" mapstructure:"document"`
	Observability observability.Config       `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills unset fields. Connection names default to their map key.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.GetShortVersion()
	}
	c.ServiceConfig.ApplyDefaults()
	c.Fixtures.ApplyDefaults()

	for name, db := range c.Databases {
		if db.Name == "" {
			db.Name = name
		}
		db.ApplyDefaults()
		c.Databases[name] = db
	}
	for name, rc := range c.Redis {
		if rc.Name == "" {
			rc.Name = name
		}
		rc.ApplyDefaults()
		c.Redis[name] = rc
	}

	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
}

// Validate checks every section and reports the first problem.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Fixtures.Validate(); err != nil {
		return err
	}
	if len(c.Databases) == 0 && len(c.Redis) == 0 {
		return errors.Configuration("at least one database or redis connection is required")
	}
	for name, db := range c.Databases {
		if err := db.Validate(); err != nil {
			return errors.Configuration("databases.%s: %v", name, err).WithCause(err)
		}
	}
	for name, rc := range c.Redis {
		if err := rc.Validate(); err != nil {
			return errors.Configuration("redis.%s: %v", name, err).WithCause(err)
		}
	}
	for _, b := range []*BackendConfig{&c.ORM, &c.Document} {
		if err := validation.ValidateConfig(b); err != nil {
			return err
		}
	}
	if err := c.Observability.Validate(); err != nil {
		return errors.Configuration("observability: %v", err).WithCause(err)
	}
	return nil
}

// loadConfig reads the CLI configuration honoring the persistent flags.
// The logging section is not known yet, so the loader logs through a
// logger configured from LOG_* environment variables.
func loadConfig(opts *rootOptions) (*Config, error) {
	loaderOpts := []config.LoaderOption{config.WithLogger(logger.NewFromEnv(serviceName))}
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(opts.envFile))
	}

	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, loaderOpts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
