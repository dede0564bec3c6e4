package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Browser     BrowserConfig     `yaml:"browser"`
	Sources     SourcesConfig     `yaml:"sources"`
	Matching    MatchingConfig    `yaml:"matching"`
	Timeouts    TimeoutsConfig    `yaml:"timeouts"`
	Pacing      PacingConfig      `yaml:"pacing"`
	Storage     StorageConfig     `yaml:"storage"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Redis       RedisConfig       `yaml:"redis"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Telegram    TelegramConfig    `yaml:"telegram"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type BrowserConfig struct {
	Driver       string            `yaml:"driver" validate:"oneof=chromedp static"`
	Headless     bool              `yaml:"headless"`
	UserAgent    string            `yaml:"user_agent"`
	WindowWidth  int               `yaml:"window_width" validate:"gte=0"`
	WindowHeight int               `yaml:"window_height" validate:"gte=0"`
	Flags        map[string]string `yaml:"flags"` // Extra chrome flags on top of the stealth defaults
	Headers      map[string]string `yaml:"headers"`
}

type SourcesConfig struct {
	Primary   SourceConfig `yaml:"primary"`
	Secondary SourceConfig `yaml:"secondary"`
}

type SourceConfig struct {
	Name       string `yaml:"name" validate:"required"`
	URL        string `yaml:"url" validate:"omitempty,url"`        // Overrides the built-in target URL
	WarmupURL  string `yaml:"warmup_url" validate:"omitempty,url"` // Overrides the built-in landing page
	MaxRecords int    `yaml:"max_records" validate:"gte=0"`
}

type MatchingConfig struct {
	Threshold       int     `yaml:"threshold" validate:"gte=0,lte=100"`
	AcceptanceFloor float64 `yaml:"acceptance_floor" validate:"gte=0,lte=100"`
	// ExclusiveCounterparts makes a secondary fixture claimable by at most one primary fixture.
	ExclusiveCounterparts bool `yaml:"exclusive_counterparts"`
}

type TimeoutsConfig struct {
	Navigation    time.Duration `yaml:"navigation"`
	Phase         time.Duration `yaml:"phase"`
	Field         time.Duration `yaml:"field"`
	OptionalField time.Duration `yaml:"optional_field"` // score and status reads
}

type PacingConfig struct {
	Enabled        bool          `yaml:"enabled"`
	AfterNavigate  DurationRange `yaml:"after_navigate"`
	BetweenSources DurationRange `yaml:"between_sources"`
	BeforeMerge    DurationRange `yaml:"before_merge"`
}

type DurationRange struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max" validate:"gtefield=Min"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" validate:"oneof=postgres redis memory"`
	Table  string `yaml:"table" validate:"required"`
}

type PostgresConfig struct {
	DSN           string `yaml:"dsn"`
	RunMigrations bool   `yaml:"run_migrations"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"gte=0"`
	TTL      time.Duration `yaml:"ttl"`
}

type DiagnosticsConfig struct {
	SnapshotDir string `yaml:"snapshot_dir"`
	Disabled    bool   `yaml:"disabled"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
	File   string `yaml:"file"` // Optional log file, appended to alongside stdout
}

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Env files read before overrides are applied. Missing files are ignored.
var envFiles = []string{".env.local", ".env"}

// Load reads the YAML file, applies env files, MATCHSYNC_* variables, the given overrides and
// defaults, in that order, then validates the result.
func Load(configPath string, overrides ...func(*Config)) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Defaults()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}
	applyEnvOverrides(config)
	for _, o := range overrides {
		o(config)
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Defaults returns a config with every tunable set to its production value.
func Defaults() *Config {
	c := &Config{
		Browser: BrowserConfig{Driver: "chromedp", Headless: true},
		Sources: SourcesConfig{
			Primary:   SourceConfig{Name: "betman"},
			Secondary: SourceConfig{Name: "livescore"},
		},
		Pacing:  PacingConfig{Enabled: true},
		Storage: StorageConfig{Driver: "postgres"},
	}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Browser.Driver == "" {
		c.Browser.Driver = "chromedp"
	}
	if c.Browser.UserAgent == "" {
		c.Browser.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if c.Browser.WindowWidth == 0 {
		c.Browser.WindowWidth = 1920
	}
	if c.Browser.WindowHeight == 0 {
		c.Browser.WindowHeight = 1080
	}

	if c.Matching.Threshold == 0 {
		c.Matching.Threshold = 80
	}
	if c.Matching.AcceptanceFloor == 0 {
		c.Matching.AcceptanceFloor = 70
	}

	if c.Timeouts.Navigation <= 0 {
		c.Timeouts.Navigation = 30 * time.Second
	}
	if c.Timeouts.Phase <= 0 {
		c.Timeouts.Phase = 2 * time.Minute
	}
	if c.Timeouts.Field <= 0 {
		c.Timeouts.Field = time.Second
	}
	if c.Timeouts.OptionalField <= 0 {
		c.Timeouts.OptionalField = 500 * time.Millisecond
	}

	setRange(&c.Pacing.AfterNavigate, 2*time.Second, 4*time.Second)
	setRange(&c.Pacing.BetweenSources, 3*time.Second, 5*time.Second)
	setRange(&c.Pacing.BeforeMerge, 2*time.Second, 4*time.Second)

	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Storage.Table == "" {
		c.Storage.Table = "sports_matches"
	}
	if c.Redis.TTL <= 0 {
		c.Redis.TTL = 7 * 24 * time.Hour
	}
	if c.Diagnostics.SnapshotDir == "" {
		c.Diagnostics.SnapshotDir = "."
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

func setRange(r *DurationRange, min, max time.Duration) {
	if r.Min == 0 && r.Max == 0 {
		r.Min, r.Max = min, max
	}
}

// Validate checks struct tags and cross-field requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if !tableNameRe.MatchString(c.Storage.Table) {
		return fmt.Errorf("invalid config: storage.table %q must be a plain SQL identifier", c.Storage.Table)
	}
	switch c.Storage.Driver {
	case "postgres":
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			return fmt.Errorf("invalid config: postgres.dsn is required for storage.driver=postgres")
		}
	case "redis":
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return fmt.Errorf("invalid config: redis.addr is required for storage.driver=redis")
		}
	}
	return nil
}

// applyEnvOverrides lets operators inject secrets at deploy time without touching the YAML file.
func applyEnvOverrides(c *Config) {
	setStr(&c.Postgres.DSN, "MATCHSYNC_POSTGRES_DSN")
	setStr(&c.Redis.Addr, "MATCHSYNC_REDIS_ADDR")
	setStr(&c.Redis.Password, "MATCHSYNC_REDIS_PASSWORD")
	setStr(&c.Storage.Driver, "MATCHSYNC_STORAGE_DRIVER")
	setStr(&c.Telegram.BotToken, "MATCHSYNC_TELEGRAM_BOT_TOKEN")
	setInt64(&c.Telegram.ChatID, "MATCHSYNC_TELEGRAM_CHAT_ID")
	setBool(&c.Browser.Headless, "MATCHSYNC_BROWSER_HEADLESS")
	setStr(&c.Logging.Level, "MATCHSYNC_LOG_LEVEL")
}

func setStr(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt64(dst *int64, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
