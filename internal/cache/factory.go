package cache

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Belphemur/Addic7edSubtitles/internal/config"
)

// ProviderConfig holds what a provider needs to build a cache instance
type ProviderConfig struct {
	// Size is the maximum number of entries, 0 means unbounded
	Size int

	// TTL is the lifetime of an entry, 0 means entries never expire
	TTL time.Duration

	// OnEvict is called for capacity evictions
	OnEvict EvictCallback

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	// KeyPrefix namespaces the Redis keys, defaults to "addic7ed:"
	KeyPrefix string

	// Group labels the cache metrics. A non empty Group wraps the cache with
	// Prometheus instrumentation.
	Group string
}

// Provider builds a Cache from its configuration
type Provider func(cfg ProviderConfig) (Cache, error)

var (
	mu        sync.RWMutex
	providers = make(map[string]Provider)
)

// Register makes a provider available under name. It panics on a nil provider or a
// duplicate name.
func Register(name string, p Provider) {
	mu.Lock()
	defer mu.Unlock()

	if p == nil {
		panic("cache: Register provider is nil")
	}
	if _, exists := providers[name]; exists {
		panic(fmt.Sprintf("cache: provider %q already registered", name))
	}
	providers[name] = p
}

// New builds a cache with the named provider, instrumented when cfg.Group is set
func New(name string, cfg ProviderConfig) (Cache, error) {
	mu.RLock()
	p, ok := providers[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("cache: unknown provider %q (registered: %v)", name, RegisteredProviders())
	}

	if cfg.Group == "" {
		return p(cfg)
	}

	group := cfg.Group
	onEvict := cfg.OnEvict
	cfg.OnEvict = func(key string, value []byte) {
		EvictionsTotal.WithLabelValues(group).Inc()
		if onEvict != nil {
			onEvict(key, value)
		}
	}

	inner, err := p(cfg)
	if err != nil {
		return nil, err
	}
	return newInstrumentedCache(inner, group), nil
}

// FromConfig builds the cache described by the cache section of the configuration.
// It returns nil without error when caching is disabled.
func FromConfig(cfg config.CacheConfig, group string) (Cache, error) {
	if cfg.Type == "" || cfg.Type == "none" {
		return nil, nil
	}

	return New(cfg.Type, ProviderConfig{
		Size:          cfg.Size,
		TTL:           config.ParseDuration("cache.ttl", cfg.TTL, 24*time.Hour),
		RedisAddress:  cfg.Redis.Address,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		Group:         group,
	})
}

// RegisteredProviders returns the registered provider names, sorted
func RegisteredProviders() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
