package library

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Belphemur/Addic7edSubtitles/internal/apperrors"
	"github.com/Belphemur/Addic7edSubtitles/internal/cache"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"
)

type countingCatalog struct {
	calls int
	ids   map[string]models.ProviderIDs
}

func (c *countingCatalog) LookupSeries(_ context.Context, name string) (models.ProviderIDs, error) {
	c.calls++
	ids, ok := c.ids[name]
	if !ok {
		return models.ProviderIDs{}, apperrors.NewNotFoundError("series", name)
	}
	return ids, nil
}

func (c *countingCatalog) Close() error { return nil }

func newMemoryCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.New("memory", cache.ProviderConfig{Size: 10, TTL: time.Hour})
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	return c
}

func TestCached_ServesRepeatedLookupsFromCache(t *testing.T) {
	inner := &countingCatalog{ids: map[string]models.ProviderIDs{"Example Show": {TVDB: "42"}}}
	catalog := NewCached(inner, newMemoryCache(t))
	defer catalog.Close()
	ctx := context.Background()

	for range 3 {
		ids, err := catalog.LookupSeries(ctx, "Example Show")
		if err != nil || ids.TVDB != "42" {
			t.Fatalf("LookupSeries = %+v, %v", ids, err)
		}
	}
	if inner.calls != 1 {
		t.Errorf("Expected 1 inner lookup, got %d", inner.calls)
	}
}

func TestCached_DoesNotCacheMisses(t *testing.T) {
	inner := &countingCatalog{ids: map[string]models.ProviderIDs{}}
	catalog := NewCached(inner, newMemoryCache(t))
	defer catalog.Close()
	ctx := context.Background()

	for range 2 {
		if _, err := catalog.LookupSeries(ctx, "Unknown"); !errors.Is(err, &apperrors.ErrNotFound{}) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("Expected 2 inner lookups, got %d", inner.calls)
	}
}

func TestNewCached_NilCache(t *testing.T) {
	inner := &countingCatalog{}
	if got := NewCached(inner, nil); got != Catalog(inner) {
		t.Error("Expected inner catalog to be returned unchanged")
	}
}
