package config

import "fmt"

// ValidationError represents a configuration validation error with context.
type ValidationError struct {
	Field   string
	Message string
	Hint    string
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (hint: %s)", e.Field, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "error": {},
}

var validFormats = map[string]struct{}{
	"json": {}, "text": {},
}

// Validate checks the configuration for fatal errors.
func (c *Config) Validate() error {
	if c.Schema.Path == "" {
		return ValidationError{
			Field:   "schema.path",
			Message: "schema manifest path is required",
			Hint:    "extract the schema first, then pass --schema.path",
		}
	}
	if c.Output.Path == "" {
		return ValidationError{
			Field:   "output.path",
			Message: "output path is required",
			Hint:    "use - to write to stdout",
		}
	}
	if c.Extract.Root != "" && len(c.Extract.Include) == 0 {
		return ValidationError{
			Field:   "extract.include",
			Message: "at least one include pattern is required when scanning",
		}
	}
	if _, ok := validLevels[c.Logging.Level]; !ok {
		return ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q", c.Logging.Level),
			Hint:    "one of debug, info, warn, error",
		}
	}
	if _, ok := validFormats[c.Logging.Format]; !ok {
		return ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown format %q", c.Logging.Format),
			Hint:    "one of json, text",
		}
	}
	return nil
}
