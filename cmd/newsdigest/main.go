package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"NewsDigest/internal/app"
	"NewsDigest/internal/config"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	outputDir := flag.String("output", "", "override the digest output directory")
	maxArticles := flag.Int("max-articles", 0, "override the digest article cap")
	noSummary := flag.Bool("no-summary", false, "skip the relevance scoring pass")
	listFeeds := flag.Bool("list-feeds", false, "print the configured feeds and exit")
	serve := flag.Bool("serve", false, "run the scheduler and HTTP API instead of a one-shot digest")
	quiet := flag.Bool("quiet", false, "log errors only")
	flag.Parse()

	// A missing .env file is not an error; explicit environment wins anyway.
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *quiet {
		cfg.Logging.Level = "error"
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if *listFeeds {
		for _, f := range cfg.Feeds {
			state := "enabled"
			if !f.IsEnabled() {
				state = "disabled"
			}
			fmt.Printf("[%s] %s  %s\n", state, f.Name, f.URL)
		}
		return
	}

	application, err := app.New(cfg, app.Options{
		OutputDir:   *outputDir,
		MaxArticles: *maxArticles,
		SkipScoring: *noSummary,
	}, logger)
	if err != nil {
		logger.Errorw("startup failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = application.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		if err := application.Serve(ctx); err != nil {
			logger.Errorw("server stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	dg, err := application.RunOnce(ctx)
	if err != nil {
		logger.Errorw("digest run failed", "error", err)
		os.Exit(1)
	}

	if application.State() == usecase.StateEmpty {
		fmt.Println("No articles found across the configured feeds.")
		return
	}
	fmt.Printf("Digest for %s saved with %d articles.\n", dg.DateKey(), len(dg.Articles))
}

// loadConfig falls back to built-in defaults when no config file exists at
// the default location, so a bare binary still runs.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && path == "config.yaml" {
		return config.Default(), nil
	}
	return config.Load(path)
}
