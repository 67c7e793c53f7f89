// Package library resolves series names to the identifiers the host media library
// knows them by. The Gestdown API is keyed by TVDB id, which the subtitle request
// itself does not carry.
package library

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/Belphemur/Addic7edSubtitles/internal/cache"
	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"
)

// Catalog types
const (
	TypeSQLite = "sqlite"
	TypeEmby   = "emby"
)

// Catalog looks up the external identifiers of a series by its display name.
// A series the catalog does not know yields *apperrors.ErrNotFound.
type Catalog interface {
	LookupSeries(ctx context.Context, name string) (models.ProviderIDs, error)
	Close() error
}

// FromConfig builds the catalog selected by the library section of the configuration,
// wrapped with the configured cache.
func FromConfig(cfg *config.Config, db *sql.DB, httpClient *http.Client) (Catalog, error) {
	var catalog Catalog
	switch cfg.Library.Type {
	case "", TypeSQLite:
		store, err := NewSQLiteCatalog(context.Background(), db)
		if err != nil {
			return nil, err
		}
		catalog = store
	case TypeEmby:
		emby, err := NewEmby(httpClient, cfg.Library.EmbyURL, cfg.Library.EmbyAPIKey)
		if err != nil {
			return nil, err
		}
		catalog = emby
	default:
		return nil, fmt.Errorf("unknown library type %q", cfg.Library.Type)
	}

	c, err := cache.FromConfig(cfg.Cache, "library")
	if err != nil {
		return nil, fmt.Errorf("create library cache: %w", err)
	}
	return NewCached(catalog, c), nil
}
