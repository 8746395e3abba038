// Package digest turns a scored article set into a dated, filtered, grouped
// snapshot and its human-readable rendering.
package digest

import (
	"time"

	"go.uber.org/zap"

	"NewsDigest/internal/domain"
)

// fallbackCount is how many of the most recent articles survive when the
// threshold filter would otherwise empty the digest.
const fallbackCount = 5

// Builder assembles digests from scored, already-ordered article sets.
type Builder struct {
	threshold float64
	logger    *zap.SugaredLogger
}

// NewBuilder wires the relevance threshold used for filtering.
func NewBuilder(threshold float64, logger *zap.SugaredLogger) *Builder {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Builder{threshold: threshold, logger: logger}
}

// Build assembles the digest snapshot. Articles must already be in the
// aggregator's newest-first order. When scored is false (no scoring pass was
// performed at all), threshold filtering is bypassed and every article is
// retained.
func (b *Builder) Build(topic string, articles []domain.ScoredArticle, scored bool, now time.Time) domain.Digest {
	selected := articles
	if scored {
		selected = b.filter(articles)
	}

	return domain.Digest{
		Topic:       topic,
		GeneratedAt: now,
		Articles:    selected,
	}
}

// filter keeps articles at or above the threshold. When nothing qualifies
// but articles exist, it falls back to the most recent ones so a digest is
// never vacuous.
func (b *Builder) filter(articles []domain.ScoredArticle) []domain.ScoredArticle {
	kept := make([]domain.ScoredArticle, 0, len(articles))
	for _, article := range articles {
		if article.RelevanceScore >= b.threshold {
			kept = append(kept, article)
		}
	}

	if len(kept) == 0 && len(articles) > 0 {
		b.logger.Warnw("no articles met the relevance threshold, keeping most recent",
			"threshold", b.threshold, "fallback", fallbackCount)
		if len(articles) > fallbackCount {
			articles = articles[:fallbackCount]
		}
		return articles
	}

	return kept
}

// GroupBySource partitions articles into presentation buckets by source,
// preserving each bucket's internal order and first-seen source ordering
// across buckets.
func GroupBySource(articles []domain.ScoredArticle) []domain.SourceGroup {
	index := make(map[string]int)
	var groups []domain.SourceGroup

	for _, article := range articles {
		i, ok := index[article.Source]
		if !ok {
			i = len(groups)
			index[article.Source] = i
			groups = append(groups, domain.SourceGroup{Source: article.Source})
		}
		groups[i].Articles = append(groups[i].Articles, article)
	}

	return groups
}
