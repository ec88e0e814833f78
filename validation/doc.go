// Package validation validates configuration structs using struct tags
// (github.com/go-playground/validator) and collects field errors into a
// single error value.
//
//	type Config struct {
//	    BaseURL string `mapstructure:"base_url" validate:"required,http_url"`
//	    Version string `mapstructure:"version" validate:"required,semver"`
//	}
//	err := validation.Validate(cfg)
//
// Field names in messages come from the mapstructure tag, so they match the
// keys users write in config files.
package validation
