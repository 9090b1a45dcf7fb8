// Package validation provides struct tag validation for webframe
// configuration types, backed by go-playground/validator.
//
//	type Config struct {
//	    BaseURI string `mapstructure:"base_uri" validate:"omitempty,url"`
//	}
//	err := validation.Validate(cfg)
//
// Field names in errors follow the mapstructure (config key) tag, so a
// failure reads the same way the key appears in the YAML file.
package validation
