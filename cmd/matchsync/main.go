package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vodeneev/matchsync/internal/pipeline"
	pkgconfig "github.com/Vodeneev/matchsync/internal/pkg/config"
	"github.com/Vodeneev/matchsync/internal/pkg/diagnostics"
	"github.com/Vodeneev/matchsync/internal/pkg/logging"
	"github.com/Vodeneev/matchsync/internal/pkg/notify"
	"github.com/Vodeneev/matchsync/internal/pkg/storage"

	// Register all built-in sources via init().
	_ "github.com/Vodeneev/matchsync/internal/parser/sources/all"
)

const (
	defaultConfigPath = "configs/production.yaml"
)

type config struct {
	configPath string
	runFor     time.Duration
	primary    string
	secondary  string
	driver     string
	dryRun     bool
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg := parseFlags()
	slog.Info("Loading config", "path", cfg.configPath)

	appConfig, err := pkgconfig.Load(cfg.configPath, func(c *pkgconfig.Config) { applyFlagOverrides(c, cfg) })
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return pipeline.ExitFatal
	}

	_, logCloser, err := logging.SetupLogger(&appConfig.Logging, "matchsync")
	if err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	}
	defer logCloser.Close()

	ctx, cancel := createContext(cfg.runFor)
	defer cancel()
	setupSignalHandler(ctx, cancel)

	session, err := pipeline.OpenSession(ctx, appConfig)
	if err != nil {
		slog.Error("Failed to open page session", "driver", appConfig.Browser.Driver, "error", err)
		return pipeline.ExitFatal
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.Warn("Failed to close page session", "error", err)
		}
	}()

	store, err := storage.Open(ctx, appConfig)
	if err != nil {
		slog.Error("Failed to open fixture store", "driver", appConfig.Storage.Driver, "error", err)
		return pipeline.ExitFatal
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close fixture store", "error", err)
		}
	}()

	p, err := pipeline.New(appConfig, pipeline.Deps{
		Session:     session,
		Store:       store,
		Diagnostics: newRecorder(appConfig),
		Notifier:    newNotifier(appConfig),
	})
	if err != nil {
		slog.Error("Failed to build pipeline", "error", err)
		return pipeline.ExitFatal
	}

	report := p.Run(ctx)
	slog.Info("Sync finished", "exit_code", report.ExitCode)
	return report.ExitCode
}

func parseFlags() config {
	var cfg config

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.DurationVar(&cfg.runFor, "run-for", 0, "Abort the run after duration (e.g. 5m). 0 = no overall limit")
	flag.StringVar(&cfg.primary, "primary", "", "Override sources.primary.name (e.g. 'betman'). Empty = use config")
	flag.StringVar(&cfg.secondary, "secondary", "", "Override sources.secondary.name (e.g. 'livescore'). Empty = use config")
	flag.StringVar(&cfg.driver, "driver", "", "Override browser.driver: 'chromedp' or 'static'. Empty = use config")
	flag.BoolVar(&cfg.dryRun, "dry-run", false, "Keep results in memory instead of the configured store")
	flag.Parse()
	return cfg
}

func applyFlagOverrides(appConfig *pkgconfig.Config, cfg config) {
	if cfg.primary != "" {
		appConfig.Sources.Primary.Name = cfg.primary
	}
	if cfg.secondary != "" {
		appConfig.Sources.Secondary.Name = cfg.secondary
	}
	if cfg.driver != "" {
		appConfig.Browser.Driver = cfg.driver
	}
	if cfg.dryRun {
		appConfig.Storage.Driver = "memory"
	}
}

func newRecorder(cfg *pkgconfig.Config) diagnostics.Recorder {
	if cfg.Diagnostics.Disabled {
		return diagnostics.Disabled{}
	}
	return diagnostics.NewFileRecorder(cfg.Diagnostics.SnapshotDir)
}

func newNotifier(cfg *pkgconfig.Config) notify.Notifier {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == 0 {
		return notify.Nop{}
	}
	n, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		slog.Warn("Telegram notifier disabled", "error", err)
		return notify.Nop{}
	}
	return n
}

func createContext(runFor time.Duration) (context.Context, context.CancelFunc) {
	if runFor > 0 {
		return context.WithTimeout(context.Background(), runFor)
	}
	return context.WithCancel(context.Background())
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal, stopping sync...", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags]\n\nScrapes odds and results, reconciles them and upserts the merged fixtures.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
}
