// Package app wires configuration to use cases and owns process lifecycle.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"NewsDigest/internal/config"
	"NewsDigest/internal/digest"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/infrastructure/feed"
	"NewsDigest/internal/infrastructure/llm"
	"NewsDigest/internal/infrastructure/scheduler"
	"NewsDigest/internal/infrastructure/storage"
	"NewsDigest/internal/infrastructure/telegram"
	"NewsDigest/internal/infrastructure/web"
	"NewsDigest/internal/ports"
	"NewsDigest/internal/relevance"
	"NewsDigest/internal/usecase"
)

// Options are command-line overrides applied on top of the config file.
type Options struct {
	OutputDir   string
	MaxArticles int
	SkipScoring bool
}

// Application holds the fully wired object graph for one process.
type Application struct {
	cfg      *config.Config
	pipeline *usecase.Pipeline
	archive  *storage.Archive
	feeds    []domain.FeedSource
	repo     ports.DigestRepository
	logger   *zap.SugaredLogger
}

// New builds the application from validated configuration.
func New(cfg *config.Config, opts Options, logger *zap.SugaredLogger) (*Application, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	if opts.OutputDir != "" {
		cfg.Digest.OutputDir = opts.OutputDir
	}
	if opts.MaxArticles > 0 {
		cfg.Digest.MaxArticles = opts.MaxArticles
	}

	feeds := feedSources(cfg.Feeds)
	fetcher := feed.NewFetcher(nil, cfg.Digest.MaxEntriesPerFeed, logger.With("component", "fetcher"))
	source := usecase.NewAggregator(fetcher, feeds, logger.With("component", "aggregator"))

	scorer, skipScoring := buildScorer(cfg.LLM, logger)
	if opts.SkipScoring {
		skipScoring = true
	}

	repo, err := storage.NewFileStore(cfg.Digest.OutputDir)
	if err != nil {
		return nil, err
	}

	archive, err := storage.OpenArchive(cfg.Archive.Path)
	if err != nil {
		return nil, err
	}

	var notifier ports.Notifier
	if tg := telegram.NewNotifier(cfg.Notifications.Telegram); tg.Configured() {
		notifier = tg
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Scorer:     scorer,
		Fallback:   relevance.NewKeywordScorer(),
		Builder:    digest.NewBuilder(cfg.Digest.RelevanceThreshold, logger.With("component", "builder")),
		Repository: repo,
		Archive:    archive,
		Notifier:   notifier,
		Logger:     logger.With("component", "pipeline"),
	}, usecase.Options{
		Topic:       cfg.Topic,
		MaxArticles: cfg.Digest.MaxArticles,
		SkipScoring: skipScoring,
	})

	return &Application{
		cfg:      cfg,
		pipeline: pipeline,
		archive:  archive,
		feeds:    feeds,
		repo:     repo,
		logger:   logger,
	}, nil
}

// feedSources converts the config feed list into domain sources, resolving
// the default-enabled rule once here.
func feedSources(feeds []config.FeedConfig) []domain.FeedSource {
	sources := make([]domain.FeedSource, 0, len(feeds))
	for _, f := range feeds {
		sources = append(sources, domain.FeedSource{
			Name:    f.Name,
			URL:     f.URL,
			Enabled: f.IsEnabled(),
		})
	}
	return sources
}

// buildScorer resolves the configured scoring strategy. A remote provider
// without an API key degrades to the keyword fallback inside the pipeline;
// provider "none" disables the scoring pass entirely.
func buildScorer(cfg config.LLMConfig, logger *zap.SugaredLogger) (ports.RelevanceScorer, bool) {
	switch cfg.Provider {
	case config.ProviderNone:
		return nil, true
	case config.ProviderKeyword:
		return relevance.NewKeywordScorer(), false
	case config.ProviderAnthropic:
		if cfg.APIKey == "" {
			logger.Warnw("no API key for scoring provider", "provider", cfg.Provider)
			return nil, false
		}
		return llm.NewAnthropicScorer(cfg), false
	default:
		if cfg.APIKey == "" {
			logger.Warnw("no API key for scoring provider", "provider", cfg.Provider)
			return nil, false
		}
		return llm.NewOpenAIScorer(cfg), false
	}
}

// RunOnce executes a single digest generation.
func (a *Application) RunOnce(ctx context.Context) (domain.Digest, error) {
	now := time.Now().In(a.cfg.Scheduler.Location())
	return a.pipeline.Run(ctx, now)
}

// State reports the terminal state of the last pipeline run.
func (a *Application) State() usecase.State {
	return a.pipeline.State()
}

// Serve runs the cron scheduler and the HTTP API until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	cron := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location(), a.logger.With("component", "scheduler"))
	err := cron.Start(func(now time.Time) {
		if _, err := a.pipeline.Run(ctx, now); err != nil {
			a.logger.Errorw("scheduled digest run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	defer cron.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	web.NewServer(a.archive, a.repo, a.feeds, a.pipeline, a.logger.With("component", "web")).RegisterRoutes(router)

	server := &http.Server{Addr: a.cfg.Server.Addr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infow("http server listening", "addr", a.cfg.Server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close releases held resources.
func (a *Application) Close() error {
	return a.archive.Close()
}
