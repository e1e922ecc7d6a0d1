package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "invoscan"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "INVOSCAN"
)

// Loader handles loading configuration from files and environment variables.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader bound to the global viper instance so cobra
// flag bindings made by the commands take effect.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// Load reads configuration from the search paths and environment, applies
// defaults, unmarshals and validates.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env vars still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return l.unmarshal()
}

// LoadWithFile loads configuration from a specific file path. An empty path
// falls back to the regular search.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}

	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// GetConfigFileUsed returns the path of the config file used, if any.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for flag binding.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// addConfigPaths adds the standard configuration search paths.
func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
	}

	l.v.AddConfigPath("/etc/invoscan")

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "invoscan"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "invoscan"))
	}
}

// setupEnvironmentVariables configures environment variable handling, e.g.
// INVOSCAN_CACHE_REDIS_ADDR maps to cache.redis_addr.
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults sets default values for all configuration options.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)

	l.v.SetDefault("pipeline.max_pages", defaults.Pipeline.MaxPages)
	l.v.SetDefault("pipeline.dpi", defaults.Pipeline.DPI)
	l.v.SetDefault("pipeline.min_text_quality", defaults.Pipeline.MinTextQuality)
	l.v.SetDefault("pipeline.template_dir", defaults.Pipeline.TemplateDir)

	l.v.SetDefault("ocr.binary", defaults.OCR.Binary)
	l.v.SetDefault("ocr.language", defaults.OCR.Language)
	l.v.SetDefault("ocr.psm", defaults.OCR.PSM)

	l.v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	l.v.SetDefault("cache.ttl", defaults.Cache.TTL)
	l.v.SetDefault("cache.redis_addr", defaults.Cache.RedisAddr)
	l.v.SetDefault("cache.redis_db", defaults.Cache.RedisDB)
	l.v.SetDefault("cache.memory_entries", defaults.Cache.MemoryEntries)

	l.v.SetDefault("scoring.agreement_boost", defaults.Scoring.AgreementBoost)
	l.v.SetDefault("scoring.format_penalty", defaults.Scoring.FormatPenalty)
	l.v.SetDefault("scoring.product_step", defaults.Scoring.ProductStep)
	l.v.SetDefault("scoring.product_cap", defaults.Scoring.ProductCap)

	l.v.SetDefault("batch.workers", defaults.Batch.Workers)
	l.v.SetDefault("batch.recursive", defaults.Batch.Recursive)

	l.v.SetDefault("output.format", defaults.Output.Format)
	l.v.SetDefault("output.file", defaults.Output.File)
	l.v.SetDefault("output.dir", defaults.Output.Dir)
}

// GetConfigSearchPaths returns the paths where configuration files are searched.
func GetConfigSearchPaths() []string {
	paths := []string{"."}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home, filepath.Join(home, ".config", "invoscan"))
	}
	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, "invoscan"))
	}
	paths = append(paths, "/etc/invoscan")

	return paths
}
