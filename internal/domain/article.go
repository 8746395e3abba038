package domain

import "time"

// Article is an immutable record built from a single feed entry.
// Identity is the Link: two articles with equal links are the same entity,
// even when a feed republishes an entry with edited text.
type Article struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Source      string     `json:"source"`
	Published   *time.Time `json:"published,omitempty"`
	Description string     `json:"description"`
}

// ScoredArticle joins a fetched Article with the output of the relevance
// pass. The keyword heuristic leaves Summary empty.
type ScoredArticle struct {
	Article
	Summary        string  `json:"summary,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
}

// FeedSource is one configured RSS endpoint with a display name.
type FeedSource struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// Digest is a dated, filtered, grouped snapshot of scored articles prepared
// for presentation. A digest owns its snapshot exclusively; articles are
// frozen once the digest is built.
type Digest struct {
	Topic       string          `json:"topic"`
	GeneratedAt time.Time       `json:"generated_at"`
	Articles    []ScoredArticle `json:"articles"`
}

// DateKey returns the ISO date string digest artifacts are keyed by.
func (d Digest) DateKey() string {
	return d.GeneratedAt.Format("2006-01-02")
}

// SourceGroup is one presentation bucket of a digest, holding the articles
// of a single source in chronological order.
type SourceGroup struct {
	Source   string          `json:"source"`
	Articles []ScoredArticle `json:"articles"`
}

// ArchiveEntry is the archive-index row describing one generated digest.
type ArchiveEntry struct {
	Date         string    `json:"date"`
	Topic        string    `json:"topic"`
	ArticleCount int       `json:"article_count"`
	JSONPath     string    `json:"json_path"`
	MarkdownPath string    `json:"markdown_path"`
	GeneratedAt  time.Time `json:"generated_at"`
}
