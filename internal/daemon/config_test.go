package daemon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inside-labs/inside/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8642 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8642)
	}
	if cfg.Economy.CurrencyName != "Love Tokens" {
		t.Errorf("Economy.CurrencyName = %q, want %q", cfg.Economy.CurrencyName, "Love Tokens")
	}
	if cfg.Economy.StartingBalance != 500 {
		t.Errorf("Economy.StartingBalance = %d, want 500", cfg.Economy.StartingBalance)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be true by default")
	}
}

func TestAPIConfig_Addr(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.API.Addr(); got != "127.0.0.1:8642" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:8642")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}
	if cfg.API.Port != DefaultConfig().API.Port {
		t.Error("missing file did not fall back to defaults")
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
host = "0.0.0.0"
port = 9000

[economy]
currency_name = "Gems"
currency_symbol = "💎"
starting_balance = 1000

[metrics]
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.Addr() != "0.0.0.0:9000" {
		t.Errorf("Addr() = %q, want 0.0.0.0:9000", cfg.API.Addr())
	}
	if cfg.Economy.CurrencyName != "Gems" || cfg.Economy.StartingBalance != 1000 {
		t.Errorf("economy overrides lost: %+v", cfg.Economy)
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics override lost")
	}
}

// NodeDefaults is the bridge from the [economy] config section to the
// registry: the configured currency and starting balance must come through
// unchanged.
func TestConfig_NodeDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Economy = EconomyConfig{CurrencyName: "Gems", CurrencySymbol: "💎", StartingBalance: 1000}

	eco, balance := cfg.NodeDefaults()
	if eco != (domain.EconomyConfig{CurrencyName: "Gems", CurrencySymbol: "💎"}) {
		t.Errorf("NodeDefaults economy = %+v", eco)
	}
	if balance != 1000 {
		t.Errorf("NodeDefaults balance = %d, want 1000", balance)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[api\nport ="), 0o644)

	if _, err := Load(path); err == nil {
		t.Fatal("malformed config accepted")
	}
}

func TestHome_EnvOverride(t *testing.T) {
	t.Setenv("INSIDE_HOME", "/tmp/inside-test-home")
	if got := Home(); got != "/tmp/inside-test-home" {
		t.Errorf("Home() = %q, want env override", got)
	}
}
