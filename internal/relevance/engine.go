package relevance

import (
	"context"

	"go.uber.org/zap"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

// Engine applies a scorer to an article batch. Articles are processed
// independently and in caller order; the engine never reorders and carries
// no state between articles.
type Engine struct {
	scorer ports.RelevanceScorer
	logger *zap.SugaredLogger
}

// NewEngine wires a scorer strategy selected at construction time.
func NewEngine(scorer ports.RelevanceScorer, logger *zap.SugaredLogger) *Engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Engine{scorer: scorer, logger: logger}
}

// ScoreAll derives the scored record for every article in the batch. A
// failed article keeps an empty summary and a zero score; the failure is
// logged and the rest of the batch is unaffected.
func (e *Engine) ScoreAll(ctx context.Context, articles []domain.Article, topic string) []domain.ScoredArticle {
	scored := make([]domain.ScoredArticle, 0, len(articles))

	for _, article := range articles {
		text := article.Description
		if text == "" {
			text = article.Title
		}

		summary, score, err := e.scorer.Score(ctx, article.Title, text, topic)
		if err != nil {
			e.logger.Warnw("scoring failed for article",
				"scorer", e.scorer.Name(), "link", article.Link, "error", err)
			summary, score = "", 0
		}

		scored = append(scored, domain.ScoredArticle{
			Article:        article,
			Summary:        summary,
			RelevanceScore: score,
		})
	}

	return scored
}
