package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"NewsDigest/internal/domain"
)

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <item>
      <title>&lt;b&gt;First&lt;/b&gt; article</title>
      <link>https://example.org/first</link>
      <description>&lt;p&gt;Fresh&amp;nbsp;news&lt;/p&gt;</description>
      <pubDate>Sat, 22 Aug 2026 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Second article</title>
      <link>https://example.org/second</link>
      <description>older news</description>
      <pubDate>not a real date</pubDate>
    </item>
  </channel>
</rss>`

const atomBody = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Feed</title>
  <id>urn:atom-feed</id>
  <updated>2026-08-21T08:00:00Z</updated>
  <entry>
    <title>Updated-only entry</title>
    <id>urn:entry-1</id>
    <link href="https://example.org/atom-1"/>
    <updated>2026-08-21T08:00:00Z</updated>
    <summary>entry body</summary>
  </entry>
</feed>`

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchNormalizesEntries(t *testing.T) {
	t.Parallel()

	server := serveFeed(t, rssBody)
	fetcher := NewFetcher(server.Client(), 0, nil)

	articles, err := fetcher.Fetch(context.Background(), domain.FeedSource{Name: "Example", URL: server.URL})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}

	first := articles[0]
	if first.Title != "First article" {
		t.Fatalf("title should be HTML-stripped: %q", first.Title)
	}
	if first.Description != "Fresh news" {
		t.Fatalf("description should be cleaned: %q", first.Description)
	}
	if first.Link != "https://example.org/first" {
		t.Fatalf("unexpected link: %q", first.Link)
	}
	if first.Source != "Example" {
		t.Fatalf("unexpected source: %q", first.Source)
	}
	if first.Published == nil {
		t.Fatal("expected a parsed publication timestamp")
	}

	// A malformed pubDate is treated as absent, never fatal.
	if articles[1].Published != nil {
		t.Fatalf("malformed date should yield absent timestamp, got %v", articles[1].Published)
	}
}

func TestFetchFallsBackToUpdatedTimestamp(t *testing.T) {
	t.Parallel()

	server := serveFeed(t, atomBody)
	fetcher := NewFetcher(server.Client(), 0, nil)

	articles, err := fetcher.Fetch(context.Background(), domain.FeedSource{Name: "Atom", URL: server.URL})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].Published == nil {
		t.Fatal("updated timestamp should be used when published is missing")
	}
	if got := articles[0].Published.UTC().Format("2006-01-02"); got != "2026-08-21" {
		t.Fatalf("unexpected updated timestamp: %s", got)
	}
}

func TestFetchCapsEntries(t *testing.T) {
	t.Parallel()

	server := serveFeed(t, rssBody)
	fetcher := NewFetcher(server.Client(), 1, nil)

	articles, err := fetcher.Fetch(context.Background(), domain.FeedSource{Name: "Example", URL: server.URL})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("entry cap not applied: got %d articles", len(articles))
	}
}

func TestFetchMalformedFeed(t *testing.T) {
	t.Parallel()

	server := serveFeed(t, "this is not a feed document")
	fetcher := NewFetcher(server.Client(), 0, nil)

	articles, err := fetcher.Fetch(context.Background(), domain.FeedSource{Name: "Broken", URL: server.URL})
	if err == nil {
		t.Fatal("expected an error for an unparseable feed")
	}
	if len(articles) != 0 {
		t.Fatalf("unparseable feed should yield no articles, got %d", len(articles))
	}
}

func TestFetchHTTPFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	fetcher := NewFetcher(server.Client(), 0, nil)
	if _, err := fetcher.Fetch(context.Background(), domain.FeedSource{Name: "Down", URL: server.URL}); err == nil {
		t.Fatal("expected an error for a failing source")
	}
}

func TestFetchTruncatesLongDescriptions(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 1500)
	body := strings.Replace(rssBody, "older news", long, 1)
	server := serveFeed(t, body)
	fetcher := NewFetcher(server.Client(), 0, nil)

	articles, err := fetcher.Fetch(context.Background(), domain.FeedSource{Name: "Example", URL: server.URL})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	desc := articles[1].Description
	if len([]rune(desc)) != 1003 || !strings.HasSuffix(desc, "...") {
		t.Fatalf("description not bounded: len=%d", len([]rune(desc)))
	}
}
