package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"NewsDigest/internal/digest"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

var dateKeyExpr = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FileStore persists digest snapshots as per-date JSON and markdown files.
// Artifacts are keyed by generation date, so a re-run overwrites its own
// files and can never touch another date's.
type FileStore struct {
	dir string
}

var _ ports.DigestRepository = (*FileStore)(nil)

// NewFileStore creates the output directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes digest_<date>.json and digest_<date>.md and returns both paths.
func (s *FileStore) Save(_ context.Context, dg domain.Digest) (string, string, error) {
	data, err := json.MarshalIndent(dg, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal digest: %w", err)
	}

	jsonPath := s.jsonPath(dg.DateKey())
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("write digest json: %w", err)
	}

	markdownPath := filepath.Join(s.dir, fmt.Sprintf("digest_%s.md", dg.DateKey()))
	if err := os.WriteFile(markdownPath, []byte(digest.RenderMarkdown(dg)), 0o644); err != nil {
		return "", "", fmt.Errorf("write digest markdown: %w", err)
	}

	return jsonPath, markdownPath, nil
}

// Load reads the stored snapshot for one date. The structured file
// round-trips losslessly: all fields survive, and an absent publication
// timestamp stays absent.
func (s *FileStore) Load(_ context.Context, date string) (domain.Digest, error) {
	if !dateKeyExpr.MatchString(date) {
		return domain.Digest{}, fmt.Errorf("invalid digest date %q", date)
	}

	data, err := os.ReadFile(s.jsonPath(date))
	if err != nil {
		return domain.Digest{}, fmt.Errorf("read digest %s: %w", date, err)
	}

	var dg domain.Digest
	if err := json.Unmarshal(data, &dg); err != nil {
		return domain.Digest{}, fmt.Errorf("decode digest %s: %w", date, err)
	}
	return dg, nil
}

func (s *FileStore) jsonPath(date string) string {
	return filepath.Join(s.dir, fmt.Sprintf("digest_%s.json", date))
}
