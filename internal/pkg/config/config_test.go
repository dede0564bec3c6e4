package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "storage:\n  driver: memory\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Matching.Threshold != 80 || cfg.Matching.AcceptanceFloor != 70 {
		t.Errorf("matching defaults = %+v", cfg.Matching)
	}
	if cfg.Timeouts.Navigation != 30*time.Second || cfg.Timeouts.Field != time.Second || cfg.Timeouts.OptionalField != 500*time.Millisecond {
		t.Errorf("timeout defaults = %+v", cfg.Timeouts)
	}
	if cfg.Sources.Primary.Name != "betman" || cfg.Sources.Secondary.Name != "livescore" {
		t.Errorf("source defaults = %+v", cfg.Sources)
	}
	if !cfg.Browser.Headless || cfg.Browser.Driver != "chromedp" {
		t.Errorf("browser defaults = %+v", cfg.Browser)
	}
	if cfg.Pacing.BetweenSources.Min != 3*time.Second || cfg.Pacing.BetweenSources.Max != 5*time.Second {
		t.Errorf("pacing defaults = %+v", cfg.Pacing.BetweenSources)
	}
	if cfg.Storage.Table != "sports_matches" {
		t.Errorf("table = %q", cfg.Storage.Table)
	}
}

func TestLoad_YAMLValuesWin(t *testing.T) {
	path := writeConfig(t, `
browser:
  headless: false
matching:
  threshold: 90
  exclusive_counterparts: true
timeouts:
  navigation: 10s
pacing:
  enabled: false
storage:
  driver: memory
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Browser.Headless {
		t.Errorf("headless should be false")
	}
	if cfg.Matching.Threshold != 90 || !cfg.Matching.ExclusiveCounterparts {
		t.Errorf("matching = %+v", cfg.Matching)
	}
	if cfg.Timeouts.Navigation != 10*time.Second {
		t.Errorf("navigation timeout = %v", cfg.Timeouts.Navigation)
	}
	if cfg.Pacing.Enabled {
		t.Errorf("pacing should be disabled")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MATCHSYNC_POSTGRES_DSN", "postgres://u:p@localhost:5432/matches?sslmode=disable")
	t.Setenv("MATCHSYNC_TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("MATCHSYNC_BROWSER_HEADLESS", "false")
	path := writeConfig(t, "storage:\n  driver: postgres\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.HasPrefix(cfg.Postgres.DSN, "postgres://") {
		t.Errorf("dsn = %q", cfg.Postgres.DSN)
	}
	if cfg.Telegram.ChatID != -100123 {
		t.Errorf("chat id = %d", cfg.Telegram.ChatID)
	}
	if cfg.Browser.Headless {
		t.Errorf("headless should be overridden to false")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"postgres without dsn", "storage:\n  driver: postgres\n", "postgres.dsn"},
		{"redis without addr", "storage:\n  driver: redis\n", "redis.addr"},
		{"unknown driver", "storage:\n  driver: mongo\n", "invalid config"},
		{"bad table", "storage:\n  driver: memory\n  table: \"x; drop\"\n", "storage.table"},
		{"threshold out of range", "storage:\n  driver: memory\nmatching:\n  threshold: 150\n", "invalid config"},
		{"inverted pacing range", "storage:\n  driver: memory\npacing:\n  after_navigate: {min: 5s, max: 1s}\n", "invalid config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MATCHSYNC_POSTGRES_DSN", "")
			t.Setenv("MATCHSYNC_REDIS_ADDR", "")
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_OverridesRunBeforeValidation(t *testing.T) {
	t.Setenv("MATCHSYNC_POSTGRES_DSN", "")
	path := writeConfig(t, "storage:\n  driver: postgres\n")

	cfg, err := Load(path, func(c *Config) { c.Storage.Driver = "memory" })
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("driver = %q, want memory", cfg.Storage.Driver)
	}
}
