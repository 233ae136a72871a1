package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Remote   RemoteConfig   `toml:"remote"`
	Local    LocalConfig    `toml:"local"`
	Sync     SyncConfig     `toml:"sync"`
	Logging  LoggingConfig  `toml:"logging"`
}

// DatabaseConfig contains settings for the run history database.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// RemoteConfig contains cloud library proxy settings.
type RemoteConfig struct {
	BaseURL           string  `toml:"base_url"`
	Token             string  `toml:"token"`
	AuthFile          string  `toml:"auth_file"`
	PageSize          int     `toml:"page_size"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

// LocalConfig contains local library locations.
type LocalConfig struct {
	AmarokDB       string   `toml:"amarok_db"`
	MusicDir       string   `toml:"music_dir"`
	Extensions     []string `toml:"extensions"`
	ExtensionsFile string   `toml:"extensions_file"`
}

// SyncConfig contains reconciliation defaults. Flags override every field.
type SyncConfig struct {
	Policy    string `toml:"policy"`     // interactive or automatic
	DryRun    bool   `toml:"dry_run"`    // compute the batch without sending it
	OnInvalid string `toml:"on_invalid"` // skip or abort
	Prompt    string `toml:"prompt"`     // auto, tui or line
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // log destination while a terminal UI is running
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Sync.Policy) {
	case "", "interactive", "automatic":
	default:
		return fmt.Errorf("%w: sync.policy must be interactive or automatic, got %q", ErrInvalidConfig, c.Sync.Policy)
	}

	switch strings.ToLower(c.Sync.OnInvalid) {
	case "", "skip", "abort":
	default:
		return fmt.Errorf("%w: sync.on_invalid must be skip or abort, got %q", ErrInvalidConfig, c.Sync.OnInvalid)
	}

	switch strings.ToLower(c.Sync.Prompt) {
	case "", "auto", "tui", "line":
	default:
		return fmt.Errorf("%w: sync.prompt must be auto, tui or line, got %q", ErrInvalidConfig, c.Sync.Prompt)
	}

	if c.Remote.PageSize < 0 {
		return fmt.Errorf("%w: remote.page_size cannot be negative", ErrInvalidConfig)
	}

	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalidConfig, err)
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
