// Package daemon holds the long-running process configuration: the API
// listener, storage location, economy defaults, and metrics switch.
// Configuration lives at ~/.inside/config.toml; missing files fall back to
// defaults.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/inside-labs/inside/internal/domain"
)

// Config is the full daemon configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Economy EconomyConfig `toml:"economy"`
	Metrics MetricsConfig `toml:"metrics"`
}

// APIConfig controls the HTTP listener.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (a APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// StorageConfig controls where the profile database lives.
type StorageConfig struct {
	Dir string `toml:"dir"` // Empty means <home>/.inside
}

// EconomyConfig sets the defaults applied to newly created nodes.
type EconomyConfig struct {
	CurrencyName    string `toml:"currency_name"`
	CurrencySymbol  string `toml:"currency_symbol"`
	StartingBalance int64  `toml:"starting_balance"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	eco := domain.DefaultEconomy()
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8642,
		},
		Economy: EconomyConfig{
			CurrencyName:    eco.CurrencyName,
			CurrencySymbol:  eco.CurrencySymbol,
			StartingBalance: domain.DefaultStartingBalance,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Home returns the inside home directory, honoring INSIDE_HOME.
func Home() string {
	if h := os.Getenv("INSIDE_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".inside"
	}
	return filepath.Join(home, ".inside")
}

// ConfigPath returns the config file location.
func ConfigPath() string {
	return filepath.Join(Home(), "config.toml")
}

// Load reads the config at path, layered over defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// NodeDefaults returns the economy and starting balance applied to newly
// created nodes, for handing to the registry.
func (c Config) NodeDefaults() (domain.EconomyConfig, int64) {
	return domain.EconomyConfig{
		CurrencyName:   c.Economy.CurrencyName,
		CurrencySymbol: c.Economy.CurrencySymbol,
	}, c.Economy.StartingBalance
}

// StorageDir resolves the storage directory, creating it if needed.
func (c Config) StorageDir() (string, error) {
	dir := c.Storage.Dir
	if dir == "" {
		dir = Home()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create storage dir %s: %w", dir, err)
	}
	return dir, nil
}
