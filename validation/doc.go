// Package validation provides configuration and input validation for seedkit.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    FixturesDir string `mapstructure:"fixtures_dir" validate:"required"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("root_namespace", ns).OneOf("persistence", p, backends)
//	err := v.Validate()
package validation
