// Package config resolves shelf's runtime settings from flags, SHELF_*
// environment variables, an optional YAML file and built-in defaults, in
// that order of precedence.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the environment variable prefix: SHELF_DB, SHELF_FORMAT...
const EnvPrefix = "SHELF"

// Keys, shared by flags, environment variables and the config file.
const (
	KeyDB         = "db"
	KeyFormat     = "format"
	KeyVerbose    = "verbose"
	KeyConfig     = "config"
	KeyScanLimit  = "scan-limit"
	KeyConcurrent = "concurrent"
)

// ValidFormats are the accepted output formats.
var ValidFormats = []string{"text", "json"}

// Config holds resolved settings.
type Config struct {
	// DB is the SQLite database path.
	DB string `mapstructure:"db"`

	// Format is the output format, "text" or "json".
	Format string `mapstructure:"format"`

	// Verbose enables debug logging on stderr.
	Verbose bool `mapstructure:"verbose"`

	// ScanLimit caps records visited by a pattern scan (0 = unlimited).
	ScanLimit int `mapstructure:"scan-limit"`

	// Concurrent resolves the two units of a compound query in parallel.
	Concurrent bool `mapstructure:"concurrent"`

	// File is the config file that was read, empty when none.
	File string `mapstructure:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DB:     "shelf.db",
		Format: "text",
	}
}

// Load resolves settings. flags may be nil; flags that were not set on the
// command line do not override the environment or the config file.
//
// When --config (or SHELF_CONFIG) names a file it must exist. Otherwise a
// "shelf.yaml" in the working directory is read if present.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault(KeyDB, def.DB)
	v.SetDefault(KeyFormat, def.Format)
	v.SetDefault(KeyVerbose, def.Verbose)
	v.SetDefault(KeyScanLimit, def.ScanLimit)
	v.SetDefault(KeyConcurrent, def.Concurrent)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("shelf")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks setting values.
func (c Config) Validate() error {
	if c.DB == "" {
		return fmt.Errorf("invalid config: db path is empty")
	}
	if !slices.Contains(ValidFormats, c.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Format, ValidFormats)
	}
	if c.ScanLimit < 0 {
		return fmt.Errorf("invalid scan-limit %d: must be >= 0", c.ScanLimit)
	}
	return nil
}
