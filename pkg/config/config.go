package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Storage backend names.
const (
	StorageDir    = "dir"
	StorageSQLite = "sqlite"
)

// Config is the immutable configuration passed into the store, the search
// engine and the API server. There is no ambient configuration state.
type Config struct {
	// DatasetsDir is where the directory backend keeps one file per
	// dataset (name.sql / name.json).
	DatasetsDir string `toml:"datasets_dir"`

	// Storage selects the persistence backend: "dir" or "sqlite".
	Storage string `toml:"storage"`

	// SQLitePath is the database file used when Storage is "sqlite".
	SQLitePath string `toml:"sqlite_path"`

	// TargetCapacity is the documented design target for the number of
	// datasets. Reporting only, never an enforced ceiling.
	TargetCapacity int `toml:"target_capacity"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// Validation rules applied at the CLI/API boundary before a query or
	// dataset name reaches the store or engine.
	MaxQueryLength int `toml:"max_query_length"`
	MaxLimit       int `toml:"max_limit"`
	MaxNameLength  int `toml:"max_name_length"`
}

// DefaultTargetCapacity is the design target the repository was sized for.
const DefaultTargetCapacity = 72

func GetDefaultConfig() (*Config, error) {
	dataDir, err := GetDefaultDataDir()
	if err != nil {
		return nil, fmt.Errorf("getting default data directory: %w", err)
	}
	return &Config{
		DatasetsDir:    filepath.Join(dataDir, "datasets"),
		Storage:        StorageDir,
		SQLitePath:     filepath.Join(dataDir, "quarry.db"),
		TargetCapacity: DefaultTargetCapacity,
		Host:           "127.0.0.1",
		Port:           8765,
		MaxQueryLength: 1000,
		MaxLimit:       10000,
		MaxNameLength:  100,
	}, nil
}

// LoadConfig reads the TOML config at configPath. A missing file yields the
// defaults; a present file has missing fields backfilled with defaults.
func LoadConfig(configPath string) (*Config, error) {
	defaults, err := GetDefaultConfig()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return defaults, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.DatasetsDir == "" {
		cfg.DatasetsDir = defaults.DatasetsDir
	}
	if cfg.Storage == "" {
		cfg.Storage = defaults.Storage
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = defaults.SQLitePath
	}
	if cfg.TargetCapacity <= 0 {
		cfg.TargetCapacity = defaults.TargetCapacity
	}
	if cfg.Host == "" {
		cfg.Host = defaults.Host
	}
	if cfg.Port <= 0 {
		cfg.Port = defaults.Port
	}
	if cfg.MaxQueryLength <= 0 {
		cfg.MaxQueryLength = defaults.MaxQueryLength
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = defaults.MaxLimit
	}
	if cfg.MaxNameLength <= 0 {
		cfg.MaxNameLength = defaults.MaxNameLength
	}

	if cfg.Storage != StorageDir && cfg.Storage != StorageSQLite {
		return nil, fmt.Errorf("unknown storage backend %q (want %q or %q)", cfg.Storage, StorageDir, StorageSQLite)
	}

	return &cfg, nil
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the commented sample config with the datasets
// directory placeholder replaced by the real default path.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template := strings.Replace(configTemplate, "/home/user/.local/share/quarry/datasets", c.DatasetsDir, 1)
	template = strings.Replace(template, "/home/user/.local/share/quarry/quarry.db", c.SQLitePath, 1)
	return os.WriteFile(configPath, []byte(template), 0644)
}

// ValidateQuery applies the boundary rules for search queries. Empty queries
// are valid (they short-circuit to an empty result inside the engine).
func (c *Config) ValidateQuery(query string) error {
	if len(query) > c.MaxQueryLength {
		return fmt.Errorf("query exceeds maximum length of %d characters", c.MaxQueryLength)
	}
	return nil
}

// ValidateLimit rejects limits above the configured safety ceiling.
// Zero means unlimited and is always valid.
func (c *Config) ValidateLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}
	if limit > c.MaxLimit {
		return fmt.Errorf("limit %d exceeds maximum of %d", limit, c.MaxLimit)
	}
	return nil
}

// ValidateDatasetName enforces the dataset naming rules for add operations:
// non-empty, bounded length, alphanumeric plus underscore and dash.
func (c *Config) ValidateDatasetName(name string) error {
	if name == "" {
		return fmt.Errorf("dataset name cannot be empty")
	}
	if len(name) > c.MaxNameLength {
		return fmt.Errorf("dataset name exceeds maximum length of %d characters", c.MaxNameLength)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return fmt.Errorf("dataset name contains invalid character %q (allowed: alphanumeric, underscore, dash)", r)
		}
	}
	return nil
}

// GetDefaultDataDir returns the data directory, honoring XDG_DATA_HOME.
func GetDefaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	quarryDir := filepath.Join(dataDir, "quarry")
	if err := os.MkdirAll(quarryDir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory %s: %w", quarryDir, err)
	}

	return quarryDir, nil
}

// GetConfigDir returns the configuration directory, honoring XDG_CONFIG_HOME.
func GetConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	quarryConfigDir := filepath.Join(configDir, "quarry")
	if err := os.MkdirAll(quarryConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", quarryConfigDir, err)
	}

	return quarryConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
