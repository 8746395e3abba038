package digest

import (
	"fmt"
	"strings"
	"time"

	"NewsDigest/internal/domain"
)

// RenderMarkdown produces the human-readable digest artifact, grouped by
// source with per-article summary and relevance.
func RenderMarkdown(d domain.Digest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# News Digest: %s\n\n", d.DateKey())
	fmt.Fprintf(&b, "**Topic:** %s\n\n", d.Topic)
	fmt.Fprintf(&b, "Generated at %s with %d articles.\n",
		d.GeneratedAt.Format(time.RFC3339), len(d.Articles))

	for _, group := range GroupBySource(d.Articles) {
		fmt.Fprintf(&b, "\n## %s\n", group.Source)

		for _, article := range group.Articles {
			fmt.Fprintf(&b, "\n### [%s](%s)\n\n", article.Title, article.Link)
			if article.Published != nil {
				fmt.Fprintf(&b, "*%s*\n\n", article.Published.Format("2006-01-02 15:04"))
			}
			if article.Summary != "" {
				fmt.Fprintf(&b, "%s\n\n", article.Summary)
			} else if article.Description != "" {
				fmt.Fprintf(&b, "%s\n\n", article.Description)
			}
			fmt.Fprintf(&b, "Relevance: %.2f\n", article.RelevanceScore)
		}
	}

	return b.String()
}
