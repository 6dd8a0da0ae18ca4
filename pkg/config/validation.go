package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks the configuration using struct tags plus custom rules
// that tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	// Duplicate export paths would make MNT and handle resolution
	// ambiguous.
	seen := make(map[string]bool)
	for i, raw := range cfg.Exports {
		path, _ := raw["path"].(string)
		if path == "" {
			continue // caught per-entry by ExportTable
		}
		if seen[path] {
			return fmt.Errorf("exports[%d]: duplicate export path %q", i, path)
		}
		seen[path] = true
	}

	return nil
}

// formatValidationError turns validator's error list into a single
// readable message.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		return fmt.Errorf("%s: failed %q validation (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
	}
	return err
}
