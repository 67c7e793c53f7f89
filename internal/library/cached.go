package library

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Belphemur/Addic7edSubtitles/internal/cache"
	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"
)

// Cached remembers successful catalog answers. Misses and errors are not cached so a
// series added to the library is picked up on the next search.
type Cached struct {
	inner Catalog
	cache cache.Cache
}

// NewCached wraps inner with c. A nil cache returns inner unchanged.
func NewCached(inner Catalog, c cache.Cache) Catalog {
	if c == nil {
		return inner
	}
	return &Cached{inner: inner, cache: c}
}

func seriesKey(name string) string {
	return "series:" + strings.ToLower(strings.TrimSpace(name))
}

// LookupSeries implements Catalog
func (c *Cached) LookupSeries(ctx context.Context, name string) (models.ProviderIDs, error) {
	key := seriesKey(name)
	if raw, ok := c.cache.Get(ctx, key); ok {
		var ids models.ProviderIDs
		if err := json.Unmarshal(raw, &ids); err == nil {
			return ids, nil
		}
		c.cache.Delete(ctx, key)
	}

	ids, err := c.inner.LookupSeries(ctx, name)
	if err != nil {
		return ids, err
	}

	if raw, err := json.Marshal(ids); err == nil {
		c.cache.Set(ctx, key, raw)
	} else {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("series", name).Msg("Failed to cache series identifiers")
	}
	return ids, nil
}

// Close closes the cache and the wrapped catalog
func (c *Cached) Close() error {
	cacheErr := c.cache.Close()
	if err := c.inner.Close(); err != nil {
		return err
	}
	return cacheErr
}
