package config

import (
	"fmt"
	"os"
	"path"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// Struct tags cover the declarative parts (port range, required fields,
// log level); rules that cannot be expressed in tags are checked below.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return validateCustomRules(cfg)
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return fmt.Errorf("base: cannot access %q: %w", cfg.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("base: %q is not a directory", cfg.Root)
	}

	for i, p := range cfg.Restricted {
		// surface malformed globs at startup instead of silently never
		// matching at request time
		if _, err := path.Match(p, "probe"); err != nil {
			return fmt.Errorf("restricted-files[%d]: bad pattern %q: %w", i, p, err)
		}
	}
	return nil
}

// formatValidationError rewrites validator's struct-field errors into
// flag-oriented messages.
func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Port":
			return fmt.Errorf("port: %v is out of range (1-65535)", fe.Value())
		case "Host":
			return fmt.Errorf("host: must not be empty")
		case "Root":
			return fmt.Errorf("base: must not be empty")
		case "LogLevel":
			return fmt.Errorf("log-level: %q is not one of debug, info, warn, error", fe.Value())
		}
	}
	return err
}
