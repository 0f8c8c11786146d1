// Package config loads and validates the generator configuration from
// flags, environment variables, and an optional config file.
package config

// Config holds the application configuration.
type Config struct {
	Schema   SchemaConfig   `mapstructure:"schema"`
	Output   OutputConfig   `mapstructure:"output"`
	Extract  ExtractConfig  `mapstructure:"extract"`
	Generate GenerateConfig `mapstructure:"generate"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SchemaConfig locates the extracted schema manifest.
type SchemaConfig struct {
	Path string `mapstructure:"path"`
}

// OutputConfig controls where the declaration file is written.
type OutputConfig struct {
	// Path is the destination file; "-" writes to stdout.
	Path string `mapstructure:"path"`
}

// ExtractConfig controls query discovery in the source tree.
type ExtractConfig struct {
	// Root is the directory scanned for source files.
	Root string `mapstructure:"root"`
	// Include are glob patterns, relative to Root, selecting files to scan.
	Include []string `mapstructure:"include"`
	// Exclude are glob patterns removing files matched by Include.
	Exclude []string `mapstructure:"exclude"`
}

// GenerateConfig tunes the emitted declarations.
type GenerateConfig struct {
	// OverloadClientMethods controls the aggregate query map that augments
	// the client's fetch signatures.
	OverloadClientMethods bool `mapstructure:"overload_client_methods"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
