package relevance

import (
	"context"
	"errors"
	"testing"

	"NewsDigest/internal/domain"
)

// flakyScorer fails for one specific title and scores everything else.
type flakyScorer struct {
	failTitle string
}

func (s *flakyScorer) Name() string { return "flaky" }

func (s *flakyScorer) Score(_ context.Context, title, _, _ string) (string, float64, error) {
	if title == s.failTitle {
		return "", 0, errors.New("malformed provider response")
	}
	return "summary of " + title, 0.8, nil
}

func TestScoreAllIsolatesFailures(t *testing.T) {
	t.Parallel()

	articles := []domain.Article{
		{Title: "good one", Link: "https://example.org/1"},
		{Title: "bad one", Link: "https://example.org/2"},
		{Title: "good two", Link: "https://example.org/3"},
	}

	engine := NewEngine(&flakyScorer{failTitle: "bad one"}, nil)
	scored := engine.ScoreAll(context.Background(), articles, "AI")

	if len(scored) != 3 {
		t.Fatalf("expected 3 scored articles, got %d", len(scored))
	}

	// Order preserved.
	for i, art := range articles {
		if scored[i].Link != art.Link {
			t.Fatalf("order changed at %d: %s", i, scored[i].Link)
		}
	}

	if scored[1].RelevanceScore != 0 || scored[1].Summary != "" {
		t.Fatalf("failed article must get zero score and empty summary: %+v", scored[1])
	}
	for _, i := range []int{0, 2} {
		if scored[i].RelevanceScore != 0.8 {
			t.Fatalf("neighbor article %d affected by failure: %+v", i, scored[i])
		}
		if scored[i].Summary == "" {
			t.Fatalf("neighbor article %d lost its summary", i)
		}
	}
}

func TestScoreAllUsesTitleWhenDescriptionEmpty(t *testing.T) {
	t.Parallel()

	var gotText string
	engine := NewEngine(scorerFunc(func(_ context.Context, _, text, _ string) (string, float64, error) {
		gotText = text
		return "", 0.5, nil
	}), nil)

	engine.ScoreAll(context.Background(), []domain.Article{{Title: "only title"}}, "AI")
	if gotText != "only title" {
		t.Fatalf("expected title fallback, got %q", gotText)
	}
}

type scorerFunc func(ctx context.Context, title, text, topic string) (string, float64, error)

func (f scorerFunc) Name() string { return "func" }

func (f scorerFunc) Score(ctx context.Context, title, text, topic string) (string, float64, error) {
	return f(ctx, title, text, topic)
}
