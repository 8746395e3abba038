package feed

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var (
	tagExpr   = regexp.MustCompile(`<[^>]+>`)
	spaceExpr = regexp.MustCompile(`\s+`)
)

// CleanHTML reduces feed markup to plain text: tags removed, entities
// decoded, runs of whitespace collapsed to a single space, ends trimmed.
func CleanHTML(raw string) string {
	if raw == "" {
		return ""
	}

	text := raw
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		text = doc.Text()
	} else {
		text = tagExpr.ReplaceAllString(raw, "")
	}

	text = html.UnescapeString(text)
	// &nbsp; decodes to U+00A0, which \s does not match.
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = spaceExpr.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Truncate caps s at max runes, appending an ellipsis marker when cut.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
