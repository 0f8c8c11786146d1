package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var defineFlagsOnce sync.Once

// Load loads configuration from multiple sources with the following precedence:
// 1. Command line flags
// 2. Environment variables
// 3. Config file
// 4. Default values
func Load() (*Config, error) {
	v := viper.New()

	// Defaults (lowest priority)
	setDefaults(v)

	// --- Flags ---
	DefineFlags()
	if !pflag.Parsed() {
		pflag.Parse()
	}

	// --- Config file ---
	cfgPath, _ := pflag.CommandLine.GetString("config")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.SetConfigName("sanity-codegen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if cfgPath != "" {
			return nil, fmt.Errorf("failed to read config file %q: %w", cfgPath, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// --- Environment variables ---
	// Canonical keys: dot + snake_case
	// Env vars: SANITY_CODEGEN_SCHEMA_PATH
	v.SetEnvPrefix("SANITY_CODEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// --- Flags binding (highest priority) ---
	bindChangedFlagsToViper(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefineFlags registers the generator's flag set. Safe to call more than
// once.
func DefineFlags() {
	defineFlagsOnce.Do(func() {
		pflag.String("schema.path", "", "Path to the extracted schema manifest (JSON)")
		pflag.String("output.path", "", "Destination for the generated declarations (use - for stdout)")

		pflag.String("extract.root", "", "Directory scanned for source files containing queries")
		pflag.StringSlice("extract.include", nil, "Glob patterns selecting files to scan")
		pflag.StringSlice("extract.exclude", nil, "Glob patterns removing files from the scan")

		pflag.Bool("generate.overload_client_methods", true, "Emit the aggregate query map augmenting the client")

		pflag.String("logging.level", "", "Log level (debug, info, warn, error)")
		pflag.String("logging.format", "", "Log format (json, text)")

		pflag.String("config", "", "Path to config file")
		pflag.Bool("version", false, "Print version and exit")
		pflag.Bool("watch", false, "Watch the source tree and regenerate on changes")
	})
}

// bindChangedFlagsToViper copies only explicitly-set flags into viper so
// unset flags never shadow env or file values.
func bindChangedFlagsToViper(v *viper.Viper) {
	pflag.CommandLine.Visit(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "version" || f.Name == "watch" {
			return
		}

		switch f.Value.Type() {
		case "string":
			val, _ := pflag.CommandLine.GetString(f.Name)
			v.Set(f.Name, val)
		case "bool":
			val, _ := pflag.CommandLine.GetBool(f.Name)
			v.Set(f.Name, val)
		case "stringSlice":
			val, _ := pflag.CommandLine.GetStringSlice(f.Name)
			v.Set(f.Name, val)
		default:
			v.Set(f.Name, f.Value.String())
		}
	})
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("schema.path", "schema.json")
	v.SetDefault("output.path", "sanity.types.ts")

	v.SetDefault("extract.root", ".")
	v.SetDefault("extract.include", []string{"**/*.{js,jsx,mjs,cjs,ts,tsx}"})
	v.SetDefault("extract.exclude", []string{"**/node_modules/**"})

	v.SetDefault("generate.overload_client_methods", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}
