// Package config handles loading and saving flavortown configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/flavortown/config.yaml
//
// A legacy ~/.flavortown-cli.json is read when no YAML config exists.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/flavortown/pkg/debug"
)

// DefaultBaseURL is the Flavortown API root.
const DefaultBaseURL = "https://flavortown.hackclub.com/api/v1"

// EnvAPIKey overrides the stored API key when set.
const EnvAPIKey = "FLAVORTOWN_API_KEY"

// ErrNoAPIKey is returned when a command needs credentials and none are configured.
var ErrNoAPIKey = errors.New("API key not found")

// StoreConfig holds defaults for store listings.
type StoreConfig struct {
	Sort  string `yaml:"sort,omitempty"`  // price-asc, price-desc, name
	Group *bool  `yaml:"group,omitempty"` // nest accessories under their parent
}

// Config is the top-level configuration for flavortown.
type Config struct {
	APIKey  string      `yaml:"api_key,omitempty"`
	BaseURL string      `yaml:"base_url,omitempty"`
	Store   StoreConfig `yaml:"store,omitempty"`
}

// legacyConfig is the JSON file written by earlier releases.
type legacyConfig struct {
	APIKey *string `json:"apiKey"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	group := true
	return Config{
		BaseURL: DefaultBaseURL,
		Store: StoreConfig{
			Sort:  "price-asc",
			Group: &group,
		},
	}
}

// ConfigDir returns the XDG config directory for flavortown.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "flavortown")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "flavortown")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// LegacyPath returns the path of the old JSON config.
func LegacyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flavortown-cli.json")
}

// Load reads the config file from the XDG config directory, falling back to
// the legacy JSON file. Returns DefaultConfig if neither exists.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if legacy := LegacyPath(); legacy != "" {
			return LoadLegacy(legacy)
		}
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// LoadLegacy reads the old JSON config. A missing or unreadable file yields
// defaults, as earlier releases treated it.
func LoadLegacy(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			debug.Log("legacy config %s unreadable: %v", path, err)
		}
		return cfg, nil
	}

	var legacy legacyConfig
	if err := json.Unmarshal(data, &legacy); err != nil {
		debug.Log("legacy config %s invalid: %v", path, err)
		return cfg, nil
	}
	if legacy.APIKey != nil {
		cfg.APIKey = strings.TrimSpace(*legacy.APIKey)
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path. The file holds a credential,
// so it is only readable by the owner.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("securing config: %w", err)
	}
	return nil
}

// Update loads the config at path, applies fn and writes it back, leaving
// settings fn does not touch intact.
func Update(path string, fn func(*Config)) (Config, error) {
	cfg, err := LoadFrom(path)
	if err != nil {
		return cfg, err
	}
	fn(&cfg)
	return cfg, SaveTo(cfg, path)
}

// SetAPIKey stores key in the config at path.
func SetAPIKey(path, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrNoAPIKey
	}
	_, err := Update(path, func(c *Config) { c.APIKey = key })
	return err
}

// ClearAPIKey removes the stored key from the config at path.
func ClearAPIKey(path string) error {
	_, err := Update(path, func(c *Config) { c.APIKey = "" })
	return err
}

// ResolvedAPIKey returns the API key to use, preferring the environment.
func (c Config) ResolvedAPIKey() string {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key
	}
	return c.APIKey
}

// RequireAPIKey returns the resolved key or ErrNoAPIKey.
func (c Config) RequireAPIKey() (string, error) {
	key := c.ResolvedAPIKey()
	if key == "" {
		return "", ErrNoAPIKey
	}
	return key, nil
}

// Grouping reports whether store listings nest attached items.
func (s StoreConfig) Grouping() bool {
	return s.Group == nil || *s.Group
}

// MaskKey hides all but the first and last four characters of key. Keys of
// eight characters or fewer are fully masked.
func MaskKey(key string) string {
	r := []rune(key)
	if len(r) <= 8 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:4]) + strings.Repeat("*", len(r)-8) + string(r[len(r)-4:])
}

func (c *Config) normalize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Store.Sort == "" {
		c.Store.Sort = "price-asc"
	}
}
