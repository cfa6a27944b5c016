// Package config provides configuration loading and validation for seedkit.
//
// It uses Viper to load configuration from a YAML file and environment
// variables, with optional .env files loaded through godotenv. File access
// goes through an afero filesystem so loaders can be tested in memory.
//
// # Usage
//
//	type CLIConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Fixtures fixture.Config `yaml:"fixtures" mapstructure:"fixtures"`
//	}
//	var cfg CLIConfig
//	err := config.LoadConfig("seedkit", &cfg)
//
// Environment variables override file values: FIXTURES_ROOT_NAMESPACE is
// bound to fixtures.root_namespace, LOGGING_LEVEL to logging.level.
package config
