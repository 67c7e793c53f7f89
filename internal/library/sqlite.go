package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Belphemur/Addic7edSubtitles/internal/apperrors"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"
)

const seriesSchema = `CREATE TABLE IF NOT EXISTS series (
	name       TEXT PRIMARY KEY COLLATE NOCASE,
	tvdb_id    TEXT NOT NULL DEFAULT '',
	imdb_id    TEXT NOT NULL DEFAULT '',
	updated_at TEXT NOT NULL
)`

// Series is one entry of the local catalog
type Series struct {
	Name      string
	IDs       models.ProviderIDs
	UpdatedAt time.Time
}

// SQLiteCatalog is a local catalog maintained with Upsert, for hosts without a media server
type SQLiteCatalog struct {
	db *sql.DB
}

// NewSQLiteCatalog creates the series table when missing
func NewSQLiteCatalog(ctx context.Context, db *sql.DB) (*SQLiteCatalog, error) {
	if _, err := db.ExecContext(ctx, seriesSchema); err != nil {
		return nil, fmt.Errorf("create series table: %w", err)
	}
	return &SQLiteCatalog{db: db}, nil
}

// LookupSeries matches name exactly, ignoring case
func (s *SQLiteCatalog) LookupSeries(ctx context.Context, name string) (models.ProviderIDs, error) {
	var ids models.ProviderIDs
	err := s.db.QueryRowContext(ctx, `SELECT tvdb_id, imdb_id FROM series WHERE name = ?`, name).Scan(&ids.TVDB, &ids.IMDB)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ProviderIDs{}, apperrors.NewNotFoundError("series", name)
	}
	if err != nil {
		return models.ProviderIDs{}, fmt.Errorf("query series: %w", err)
	}
	return ids, nil
}

// Upsert stores the identifiers of a series, replacing a previous entry with the same name
func (s *SQLiteCatalog) Upsert(ctx context.Context, name string, ids models.ProviderIDs) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO series (name, tvdb_id, imdb_id, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET tvdb_id = excluded.tvdb_id, imdb_id = excluded.imdb_id, updated_at = excluded.updated_at`,
		name, ids.TVDB, ids.IMDB, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert series: %w", err)
	}
	return nil
}

// List returns every series, ordered by name
func (s *SQLiteCatalog) List(ctx context.Context) ([]Series, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, tvdb_id, imdb_id, updated_at FROM series ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var out []Series
	for rows.Next() {
		var item Series
		var updated string
		if err := rows.Scan(&item.Name, &item.IDs.TVDB, &item.IDs.IMDB, &updated); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		item.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, item)
	}
	return out, rows.Err()
}

// Close implements Catalog. The database belongs to the caller.
func (s *SQLiteCatalog) Close() error {
	return nil
}
