package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

const archiveSchema = `CREATE TABLE IF NOT EXISTS digests (
	date          TEXT PRIMARY KEY,
	topic         TEXT NOT NULL,
	article_count INTEGER NOT NULL,
	json_path     TEXT NOT NULL,
	markdown_path TEXT NOT NULL,
	generated_at  TEXT NOT NULL
)`

// Archive indexes generated digests in SQLite for listing and history.
type Archive struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ArchiveIndex = (*Archive)(nil)

// OpenArchive opens or creates the archive database and runs its migration.
func OpenArchive(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(archiveSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}

	return &Archive{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

// Record upserts the entry for its date, keeping same-day re-runs idempotent.
func (a *Archive) Record(ctx context.Context, entry domain.ArchiveEntry) error {
	query, args, err := a.builder.
		Insert("digests").
		Columns("date", "topic", "article_count", "json_path", "markdown_path", "generated_at").
		Values(
			entry.Date,
			entry.Topic,
			entry.ArticleCount,
			entry.JSONPath,
			entry.MarkdownPath,
			entry.GeneratedAt.UTC().Format(time.RFC3339),
		).
		Suffix(`ON CONFLICT(date) DO UPDATE SET
			topic = excluded.topic,
			article_count = excluded.article_count,
			json_path = excluded.json_path,
			markdown_path = excluded.markdown_path,
			generated_at = excluded.generated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert digest entry: %w", err)
	}
	return nil
}

// List returns all recorded digests, newest date first.
func (a *Archive) List(ctx context.Context) ([]domain.ArchiveEntry, error) {
	query, args, err := a.builder.
		Select("date", "topic", "article_count", "json_path", "markdown_path", "generated_at").
		From("digests").
		OrderBy("date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query digests: %w", err)
	}
	defer rows.Close()

	var entries []domain.ArchiveEntry
	for rows.Next() {
		var (
			entry       domain.ArchiveEntry
			generatedAt string
		)
		if err := rows.Scan(&entry.Date, &entry.Topic, &entry.ArticleCount,
			&entry.JSONPath, &entry.MarkdownPath, &generatedAt); err != nil {
			return nil, fmt.Errorf("scan digest entry: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, generatedAt); err == nil {
			entry.GeneratedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return entries, nil
}

// Close releases the underlying database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}
