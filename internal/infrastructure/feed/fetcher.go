package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

const (
	defaultMaxEntries = 50
	maxDescriptionLen = 1000
	fetchTimeout      = 15 * time.Second
	userAgent         = "NewsDigest/1.0 RSS Reader"
)

// Fetcher retrieves and normalizes entries from RSS/Atom sources.
type Fetcher struct {
	parser     *gofeed.Parser
	client     *http.Client
	maxEntries int
	logger     *zap.SugaredLogger
}

var _ ports.FeedFetcher = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; maxEntries caps the entries taken from a
// single source and defaults to 50.
func NewFetcher(client *http.Client, maxEntries int, logger *zap.SugaredLogger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Fetcher{
		parser:     gofeed.NewParser(),
		client:     client,
		maxEntries: maxEntries,
		logger:     logger,
	}
}

// Fetch downloads and parses one feed, converting its entries into article
// records. The returned error means the whole source was unavailable; the
// caller is expected to skip the source and continue with the others.
func (f *Fetcher) Fetch(ctx context.Context, source domain.FeedSource) ([]domain.Article, error) {
	parsed, err := f.parseFeed(ctx, source.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", source.Name, err)
	}

	count := len(parsed.Items)
	if count > f.maxEntries {
		count = f.maxEntries
	}

	articles := make([]domain.Article, 0, count)
	for _, item := range parsed.Items[:count] {
		articles = append(articles, convertItem(item, source.Name))
	}

	f.logger.Debugw("feed fetched", "source", source.Name, "entries", len(articles))
	return articles, nil
}

func (f *Fetcher) parseFeed(ctx context.Context, url string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return parsed, nil
}

// convertItem normalizes one feed entry. Text fields are HTML-stripped, the
// description is bounded, and the publication timestamp falls back from
// published to updated to absent.
func convertItem(item *gofeed.Item, sourceName string) domain.Article {
	title := CleanHTML(item.Title)
	if title == "" {
		title = "No Title"
	}

	description := item.Description
	if description == "" {
		description = item.Content
	}
	description = Truncate(CleanHTML(description), maxDescriptionLen)

	var published *time.Time
	if item.PublishedParsed != nil {
		t := *item.PublishedParsed
		published = &t
	} else if item.UpdatedParsed != nil {
		t := *item.UpdatedParsed
		published = &t
	}

	return domain.Article{
		Title:       title,
		Link:        item.Link,
		Source:      sourceName,
		Published:   published,
		Description: description,
	}
}
