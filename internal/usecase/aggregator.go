package usecase

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

// Aggregator merges candidate articles from every enabled feed source.
// Sources are fetched sequentially in configuration order, which makes the
// first-occurrence-wins dedup rule deterministic.
type Aggregator struct {
	fetcher ports.FeedFetcher
	sources []domain.FeedSource
	logger  *zap.SugaredLogger
}

var _ ports.ArticleSource = (*Aggregator)(nil)

// NewAggregator wires the per-source fetcher with the configured sources.
func NewAggregator(fetcher ports.FeedFetcher, sources []domain.FeedSource, logger *zap.SugaredLogger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Aggregator{fetcher: fetcher, sources: sources, logger: logger}
}

// FetchAll fetches every enabled source, deduplicates by link identity
// (first occurrence wins, even across sources) and orders the survivors by
// publication timestamp descending. Articles without a timestamp sort after
// all timestamped ones, keeping their encounter order. An unavailable
// source is skipped with a warning and never aborts the others.
func (a *Aggregator) FetchAll(ctx context.Context) ([]domain.Article, error) {
	seen := make(map[string]struct{})
	var merged []domain.Article

	for _, source := range a.sources {
		if !source.Enabled || source.URL == "" {
			a.logger.Debugw("skipping source", "source", source.Name, "enabled", source.Enabled)
			continue
		}

		articles, err := a.fetcher.Fetch(ctx, source)
		if err != nil {
			a.logger.Warnw("feed unavailable, skipping source", "source", source.Name, "error", err)
			continue
		}

		for _, article := range articles {
			if _, dup := seen[article.Link]; dup {
				continue
			}
			seen[article.Link] = struct{}{}
			merged = append(merged, article)
		}
	}

	// Stable: equal timestamps keep their encounter order.
	sort.SliceStable(merged, func(i, j int) bool {
		pi, pj := merged[i].Published, merged[j].Published
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return pi.After(*pj)
		}
	})

	a.logger.Infow("aggregation done", "sources", len(a.sources), "articles", len(merged))
	return merged, nil
}
