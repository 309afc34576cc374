package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfig    = "PUNCHCLOCK_CONFIG"
	EnvDB        = "PUNCHCLOCK_DB"
	EnvLogLevel  = "PUNCHCLOCK_LOG_LEVEL"
	EnvReportDir = "PUNCHCLOCK_REPORT_DIR"
	EnvTimezone  = "PUNCHCLOCK_TZ"
)

// Loader provides methods for loading configuration from various sources.
type Loader interface {
	// Load loads configuration with the following precedence:
	// 1. Environment variables
	// 2. Configuration file
	// 3. Default values
	//
	// Returns the merged configuration or an error if validation fails.
	Load() (*Config, error)

	// LoadFromFile loads configuration from a specific file on top of
	// the defaults.
	LoadFromFile(path string) (*Config, error)

	// Path returns the config file Load reads, or "" if there is none.
	Path() string
}

// LoaderOption configures a Loader.
type LoaderOption func(*loader)

// WithEnvFile replaces the .env file read before the environment
// overrides are applied. An empty path disables it.
func WithEnvFile(path string) LoaderOption {
	return func(l *loader) {
		l.envFile = path
	}
}

// loader implements the Loader interface.
type loader struct {
	configPath string
	envFile    string
}

// NewLoader creates a new configuration loader.
//
// If configPath is empty, $PUNCHCLOCK_CONFIG is used, then the first
// existing file of:
// 1. ./config.yaml (current directory)
// 2. ~/.config/punchclock/config.yaml.
func NewLoader(configPath string, opts ...LoaderOption) Loader {
	l := &loader{
		configPath: configPath,
		envFile:    ".env",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements Loader.Load.
func (l *loader) Load() (*Config, error) {
	// Variables already set in the environment win over the .env file.
	if err := l.loadEnvFile(); err != nil {
		return nil, err
	}

	explicit := l.explicitPath()
	configPath := explicit
	if configPath == "" {
		configPath = findConfigFile()
	}

	cfg := Default()
	if configPath != "" {
		fileCfg, err := l.LoadFromFile(configPath)
		if err != nil {
			// If file is specified but can't be loaded, return error
			if explicit != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
			// Otherwise, just use defaults
		} else {
			cfg = fileCfg
		}
	}

	// Apply environment variable overrides
	cfg = applyEnvVars(cfg)

	// Validate final configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFile implements Loader.LoadFromFile.
//
// The file is decoded onto Default(), so keys it omits keep their
// default values.
func (l *loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return cfg, nil
}

// Path implements Loader.Path.
func (l *loader) Path() string {
	if p := l.explicitPath(); p != "" {
		return p
	}
	return findConfigFile()
}

func (l *loader) explicitPath() string {
	if l.configPath != "" {
		return l.configPath
	}
	return os.Getenv(EnvConfig)
}

func (l *loader) loadEnvFile() error {
	if l.envFile == "" {
		return nil
	}
	if err := godotenv.Load(l.envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", l.envFile, err)
	}
	return nil
}

// findConfigFile searches for a config file in standard locations.
//
// Searches in order:
// 1. ./config.yaml
// 2. ~/.config/punchclock/config.yaml
//
// Returns empty string if no config file is found.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		DefaultConfigPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvVars applies environment variable overrides to the configuration.
//
// Supported environment variables:
//   - PUNCHCLOCK_DB: Path to database file
//   - PUNCHCLOCK_LOG_LEVEL: Log level
//   - PUNCHCLOCK_REPORT_DIR: Report output directory
//   - PUNCHCLOCK_TZ: Timezone name
func applyEnvVars(cfg *Config) *Config {
	result := *cfg

	if dbPath := os.Getenv(EnvDB); dbPath != "" {
		result.Storage.DBPath = dbPath
	}

	if logLevel := os.Getenv(EnvLogLevel); logLevel != "" {
		result.Logging.Level = strings.ToLower(logLevel)
	}

	if dir := os.Getenv(EnvReportDir); dir != "" {
		result.Report.OutputDir = dir
	}

	if tz := os.Getenv(EnvTimezone); tz != "" {
		result.Timezone = tz
	}

	return &result
}

// Load is a convenience function that creates a loader and loads configuration.
//
// Equivalent to:
//
//	loader := NewLoader("")
//	return loader.Load()
func Load() (*Config, error) {
	return NewLoader("").Load()
}

// LoadFromFile is a convenience function that loads configuration from a file.
//
// Equivalent to:
//
//	loader := NewLoader(path)
//	return loader.Load()
func LoadFromFile(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// Save writes the configuration to a YAML file.
//
// Creates parent directories if they don't exist.
// File is created with 0600 permissions (read/write for owner only).
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
