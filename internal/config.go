package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWindowDays     = 14
	DefaultTimelineMonths = 12

	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

type Config struct {
	// WindowDays is how many days ahead a renewal counts as upcoming
	WindowDays int `yaml:"window_days,omitempty"`

	// Currency is an ISO 4217 code used for display. Empty means detect from the system locale.
	Currency string `yaml:"currency,omitempty"`

	// Store selects the persistence backend: json or sqlite
	Store string `yaml:"store,omitempty"`

	// DataPath overrides where the backend keeps its data
	DataPath string `yaml:"data_path,omitempty"`

	// RenewalIncludesToday makes a renewal due today count as the next renewal
	// instead of rolling over to the following cycle.
	RenewalIncludesToday bool `yaml:"renewal_includes_today,omitempty"`

	// TimelineMonths is the length of the cost projection
	TimelineMonths int `yaml:"timeline_months,omitempty"`

	// Icons maps category names to display icons, on top of the built-in ones
	Icons map[string]string `yaml:"icons,omitempty"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level,omitempty"`
}

// DefaultConfigDir returns ~/.subscription-tracker
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".subscription-tracker"
	}
	return filepath.Join(home, ".subscription-tracker")
}

// DefaultConfigPath returns the default config file path (~/.subscription-tracker/config.yaml)
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// NewDefaultConfig returns the configuration used when no config file exists
func NewDefaultConfig() *Config {
	return &Config{
		WindowDays:     DefaultWindowDays,
		Store:          StoreJSON,
		TimelineMonths: DefaultTimelineMonths,
		LogLevel:       "warn",
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the config at path, falling back to defaults when the file
// does not exist. Any other problem with the file is an error.
func LoadConfigOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewDefaultConfig(), nil
	}
	return cfg, err
}

func (c *Config) normalize() error {
	if c.WindowDays < 0 {
		return fmt.Errorf("invalid window_days %d: must not be negative", c.WindowDays)
	}
	if c.TimelineMonths <= 0 {
		c.TimelineMonths = DefaultTimelineMonths
	}

	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case "":
		c.Store = StoreJSON
	case StoreJSON, StoreSQLite:
	default:
		return fmt.Errorf("invalid store %q: must be %s or %s", c.Store, StoreJSON, StoreSQLite)
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "":
		c.LogLevel = "warn"
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	return nil
}

// ResolvedDataPath returns DataPath, or the backend's default file under the config directory
func (c *Config) ResolvedDataPath() string {
	if c.DataPath != "" {
		return c.DataPath
	}
	if c.Store == StoreSQLite {
		return filepath.Join(DefaultConfigDir(), "subscriptions.db")
	}
	return filepath.Join(DefaultConfigDir(), "subscriptions.json")
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// RenewalOptions returns the renewal search options selected by the config
func (c *Config) RenewalOptions() RenewalOptions {
	if c == nil {
		return RenewalOptions{}
	}
	return RenewalOptions{IncludeToday: c.RenewalIncludesToday}
}

// GenerateConfigTemplate returns a config with every key set, including an icon
// entry for each category in use, as a starting point for editing.
func GenerateConfigTemplate(subs []Subscription) *Config {
	cfg := NewDefaultConfig()
	cfg.Currency = "USD"
	cfg.Icons = make(map[string]string)
	for _, category := range Categories(subs) {
		cfg.Icons[category] = CategoryIcon(category, nil)
	}
	return cfg
}
