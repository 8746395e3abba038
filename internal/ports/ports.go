package ports

import (
	"context"
	"time"

	"NewsDigest/internal/domain"
)

// FeedFetcher retrieves and normalizes candidate articles from a single
// feed source.
type FeedFetcher interface {
	Fetch(ctx context.Context, source domain.FeedSource) ([]domain.Article, error)
}

// ArticleSource aggregates fresh articles from all configured feeds,
// deduplicated and ordered newest first.
type ArticleSource interface {
	FetchAll(ctx context.Context) ([]domain.Article, error)
}

// RelevanceScorer rates one article against the digest topic. Remote
// implementations return a short natural-language summary as well; the
// local keyword heuristic returns an empty one.
type RelevanceScorer interface {
	Name() string
	Score(ctx context.Context, title, text, topic string) (summary string, relevance float64, err error)
}

// DigestRepository persists digest snapshots keyed by generation date.
type DigestRepository interface {
	Save(ctx context.Context, digest domain.Digest) (jsonPath, markdownPath string, err error)
	Load(ctx context.Context, date string) (domain.Digest, error)
}

// ArchiveIndex records generated digests for listing and history.
type ArchiveIndex interface {
	Record(ctx context.Context, entry domain.ArchiveEntry) error
	List(ctx context.Context) ([]domain.ArchiveEntry, error)
}

// Notifier pushes a rendered digest to an outbound channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when recurring digest runs execute.
type Scheduler interface {
	Start(job func(time.Time)) error
	Stop()
}
