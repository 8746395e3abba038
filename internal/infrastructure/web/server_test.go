package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"NewsDigest/internal/domain"
)

type stubArchive struct {
	entries []domain.ArchiveEntry
	err     error
}

func (a *stubArchive) Record(context.Context, domain.ArchiveEntry) error { return nil }

func (a *stubArchive) List(context.Context) ([]domain.ArchiveEntry, error) {
	return a.entries, a.err
}

type stubRepository struct {
	digests map[string]domain.Digest
}

func (r *stubRepository) Save(context.Context, domain.Digest) (string, string, error) {
	return "", "", errors.New("read only")
}

func (r *stubRepository) Load(_ context.Context, date string) (domain.Digest, error) {
	dg, ok := r.digests[date]
	if !ok {
		return domain.Digest{}, os.ErrNotExist
	}
	return dg, nil
}

type stubRunner struct {
	digest domain.Digest
	err    error
	calls  int
}

func (r *stubRunner) Run(context.Context, time.Time) (domain.Digest, error) {
	r.calls++
	return r.digest, r.err
}

func newTestRouter(s *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	s.RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListDigests(t *testing.T) {
	archive := &stubArchive{entries: []domain.ArchiveEntry{
		{Date: "2026-08-23", Topic: "AI and machine learning", ArticleCount: 4},
		{Date: "2026-08-22", Topic: "AI and machine learning", ArticleCount: 7},
	}}
	r := newTestRouter(NewServer(archive, &stubRepository{}, nil, &stubRunner{}, nil))

	rec := doRequest(t, r, http.MethodGet, "/api/v1/digests")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Code string                `json:"code"`
		Data []domain.ArchiveEntry `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Code != "ok" || len(body.Data) != 2 || body.Data[0].Date != "2026-08-23" {
		t.Fatalf("unexpected response: %+v", body)
	}
}

func TestGetDigestGroupsBySource(t *testing.T) {
	repo := &stubRepository{digests: map[string]domain.Digest{
		"2026-08-23": {
			Topic:       "AI and machine learning",
			GeneratedAt: time.Date(2026, time.August, 23, 6, 0, 0, 0, time.UTC),
			Articles: []domain.ScoredArticle{
				{Article: domain.Article{Title: "a", Link: "l1", Source: "One"}},
				{Article: domain.Article{Title: "b", Link: "l2", Source: "Two"}},
				{Article: domain.Article{Title: "c", Link: "l3", Source: "One"}},
			},
		},
	}}
	r := newTestRouter(NewServer(&stubArchive{}, repo, nil, &stubRunner{}, nil))

	rec := doRequest(t, r, http.MethodGet, "/api/v1/digests/2026-08-23")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data struct {
			Topic  string               `json:"topic"`
			Groups []domain.SourceGroup `json:"groups"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Data.Groups) != 2 {
		t.Fatalf("expected 2 source groups, got %d", len(body.Data.Groups))
	}
	if body.Data.Groups[0].Source != "One" || len(body.Data.Groups[0].Articles) != 2 {
		t.Fatalf("grouping broken: %+v", body.Data.Groups)
	}
}

func TestGetDigestNotFound(t *testing.T) {
	r := newTestRouter(NewServer(&stubArchive{}, &stubRepository{}, nil, &stubRunner{}, nil))

	rec := doRequest(t, r, http.MethodGet, "/api/v1/digests/2001-01-01")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGenerateTriggersRun(t *testing.T) {
	runner := &stubRunner{digest: domain.Digest{
		Topic:       "AI and machine learning",
		GeneratedAt: time.Date(2026, time.August, 23, 6, 0, 0, 0, time.UTC),
		Articles:    []domain.ScoredArticle{{Article: domain.Article{Link: "l1"}}},
	}}
	r := newTestRouter(NewServer(&stubArchive{}, &stubRepository{}, nil, runner, nil))

	rec := doRequest(t, r, http.MethodPost, "/api/v1/generate")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if runner.calls != 1 {
		t.Fatalf("expected exactly one run, got %d", runner.calls)
	}

	var body struct {
		Data struct {
			Date     string `json:"date"`
			Articles int    `json:"articles"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.Date != "2026-08-23" || body.Data.Articles != 1 {
		t.Fatalf("unexpected response: %+v", body.Data)
	}
}

func TestGenerateFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("feeds unreachable")}
	r := newTestRouter(NewServer(&stubArchive{}, &stubRepository{}, nil, runner, nil))

	rec := doRequest(t, r, http.MethodPost, "/api/v1/generate")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}
