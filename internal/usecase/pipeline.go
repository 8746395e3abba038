package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"NewsDigest/internal/digest"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
	"NewsDigest/internal/relevance"
)

// State names one phase of a digest run. Runs move linearly through
// Fetching, Scoring, Filtering and Persisted; Empty is the only early-exit
// terminal state, reached when zero articles were aggregated.
type State string

const (
	StateFetching  State = "Fetching"
	StateScoring   State = "Scoring"
	StateFiltering State = "Filtering"
	StatePersisted State = "Persisted"
	StateEmpty     State = "Empty"
)

// PipelineDeps wires all collaborators into the orchestration pipeline.
// Scorer is the primary (remote) strategy and may be nil when no remote
// capability is configured; Fallback is the keyword heuristic the run
// degrades to instead of halting.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Scorer     ports.RelevanceScorer
	Fallback   ports.RelevanceScorer
	Builder    *digest.Builder
	Repository ports.DigestRepository
	Archive    ports.ArchiveIndex
	Notifier   ports.Notifier
	Logger     *zap.SugaredLogger
}

// Options adjust a single run beyond what the wiring fixes.
type Options struct {
	Topic       string
	MaxArticles int
	SkipScoring bool
}

// Pipeline implements the digest-generation workflow.
type Pipeline struct {
	mu sync.Mutex

	source     ports.ArticleSource
	scorer     ports.RelevanceScorer
	fallback   ports.RelevanceScorer
	builder    *digest.Builder
	repository ports.DigestRepository
	archive    ports.ArchiveIndex
	notifier   ports.Notifier
	logger     *zap.SugaredLogger

	topic       string
	maxArticles int
	skipScoring bool
	state       State
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps, opts Options) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Pipeline{
		source:      deps.Source,
		scorer:      deps.Scorer,
		fallback:    deps.Fallback,
		builder:     deps.Builder,
		repository:  deps.Repository,
		archive:     deps.Archive,
		notifier:    deps.Notifier,
		logger:      logger,
		topic:       opts.Topic,
		maxArticles: opts.MaxArticles,
		skipScoring: opts.SkipScoring,
	}
}

// State reports the terminal state of the most recent run.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Run executes one digest generation end to end and returns the persisted
// digest. Fetch and scoring failures degrade per unit; only persistence and
// configuration-level failures abort a run. Concurrent runs are serialized.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (domain.Digest, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.transition(StateFetching)
	articles, err := p.source.FetchAll(ctx)
	if err != nil {
		return domain.Digest{}, fmt.Errorf("aggregate feeds: %w", err)
	}
	if len(articles) == 0 {
		p.transition(StateEmpty)
		return domain.Digest{Topic: p.topic, GeneratedAt: now}, nil
	}
	if p.maxArticles > 0 && len(articles) > p.maxArticles {
		articles = articles[:p.maxArticles]
	}

	p.transition(StateScoring)
	scored, didScore := p.score(ctx, articles)

	p.transition(StateFiltering)
	dg := p.builder.Build(p.topic, scored, didScore, now)

	jsonPath, markdownPath, err := p.repository.Save(ctx, dg)
	if err != nil {
		return domain.Digest{}, fmt.Errorf("persist digest: %w", err)
	}

	if p.archive != nil {
		entry := domain.ArchiveEntry{
			Date:         dg.DateKey(),
			Topic:        dg.Topic,
			ArticleCount: len(dg.Articles),
			JSONPath:     jsonPath,
			MarkdownPath: markdownPath,
			GeneratedAt:  dg.GeneratedAt,
		}
		if err := p.archive.Record(ctx, entry); err != nil {
			p.logger.Warnw("archive record failed", "date", entry.Date, "error", err)
		}
	}

	p.transition(StatePersisted)

	if p.notifier != nil {
		if err := p.notifier.PublishDigest(ctx, digest.RenderMarkdown(dg)); err != nil {
			p.logger.Warnw("digest notification failed", "error", err)
		}
	}

	return dg, nil
}

// score runs the relevance pass over the batch. With scoring skipped no
// pass happens at all and downstream filtering is bypassed. When no remote
// capability is configured, the run degrades in place to the keyword
// heuristic rather than halting.
func (p *Pipeline) score(ctx context.Context, articles []domain.Article) ([]domain.ScoredArticle, bool) {
	if p.skipScoring {
		scored := make([]domain.ScoredArticle, len(articles))
		for i, article := range articles {
			scored[i] = domain.ScoredArticle{Article: article}
		}
		return scored, false
	}

	scorer := p.scorer
	if scorer == nil {
		p.logger.Warn("no remote scoring capability configured, falling back to keyword heuristic")
		scorer = p.fallback
	}

	engine := relevance.NewEngine(scorer, p.logger)
	return engine.ScoreAll(ctx, articles, p.topic), true
}

func (p *Pipeline) transition(to State) {
	from := p.state
	p.state = to
	p.logger.Infow("pipeline state", "from", string(from), "to", string(to))
}
