package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/existflow/paperclip/internal/db"
	"github.com/existflow/paperclip/internal/storage"
)

const (
	StorageSQLite = "sqlite"
	StorageJSON   = "json"

	yamlFile = "config.yaml"
	tomlFile = "config.toml"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds user preferences
type Config struct {
	ConfirmDelete    bool   `yaml:"confirm_delete" toml:"confirm_delete" json:"confirm_delete"`          // Require confirmation for delete
	Storage          string `yaml:"storage" toml:"storage" json:"storage"`                               // sqlite or json
	DataDir          string `yaml:"data_dir" toml:"data_dir" json:"data_dir"`                            // Where the data file lives
	HistorySize      int    `yaml:"history_size" toml:"history_size" json:"history_size"`                // Undo steps per workspace
	DefaultWorkspace string `yaml:"default_workspace" toml:"default_workspace" json:"default_workspace"` // Workspace opened on start

	// Logging configuration
	LogLevel   string `yaml:"log_level" toml:"log_level" json:"log_level"`       // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" toml:"log_file" json:"log_file"`          // Path to log file
	LogConsole bool   `yaml:"log_console" toml:"log_console" json:"log_console"` // Enable console logging
	LogFormat  string `yaml:"log_format" toml:"log_format" json:"log_format"`    // text, logfmt or json

	path string
}

// Dir returns the application directory: $PAPERCLIP_HOME or ~/.paperclip
func Dir() (string, error) {
	if dir := os.Getenv("PAPERCLIP_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".paperclip"), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	dir, _ := Dir()
	logPath := ""
	if dir != "" {
		logPath = filepath.Join(dir, "logs", "paperclip.log")
	}

	return &Config{
		ConfirmDelete: true,
		Storage:       StorageSQLite,
		DataDir:       dir,
		HistorySize:   getEnvInt("PAPERCLIP_HISTORY_SIZE", 50),
		LogLevel:      getEnv("PAPERCLIP_LOG_LEVEL", "INFO"),
		LogFile:       getEnv("PAPERCLIP_LOG_FILE", logPath),
		LogConsole:    getEnv("PAPERCLIP_LOG_CONSOLE", "false") == "true",
		LogFormat:     getEnv("PAPERCLIP_LOG_FORMAT", "text"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

// Load reads config.yaml, or config.toml when no YAML file exists, from the
// application directory. Missing files yield defaults.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	cfg.path = filepath.Join(dir, yamlFile)

	// Check if exists
	if data, err := os.ReadFile(cfg.path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		return cfg, cfg.Validate()
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	tomlPath := filepath.Join(dir, tomlFile)
	if _, err := os.Stat(tomlPath); err == nil {
		if _, err := toml.DecodeFile(tomlPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		cfg.path = tomlPath
		return cfg, cfg.Validate()
	}

	// Return defaults if no config
	return cfg, nil
}

// Validate checks enumerated and numeric settings
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageJSON:
	default:
		return fmt.Errorf("%w: storage must be %q or %q, got %q", ErrInvalidConfig, StorageSQLite, StorageJSON, c.Storage)
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("%w: history_size must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// Path returns the file Save writes to
func (c *Config) Path() string {
	if c.path != "" {
		return c.path
	}
	dir, _ := Dir()
	return filepath.Join(dir, yamlFile)
}

// DataPath returns the storage file for the configured backend
func (c *Config) DataPath() string {
	dir := c.DataDir
	if dir == "" {
		dir, _ = Dir()
	}
	if c.Storage == StorageJSON {
		return filepath.Join(dir, storage.DefaultJSONFile)
	}
	return filepath.Join(dir, db.DefaultFile)
}

// Save writes the config back in the format it was loaded from
func (c *Config) Save() error {
	configPath := c.Path()
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	if filepath.Ext(configPath) == ".toml" {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
