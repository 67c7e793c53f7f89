// Package configstore persists named configuration objects and lets components
// rewrite an object before it is saved.
package configstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Belphemur/Addic7edSubtitles/internal/apperrors"
	"github.com/Belphemur/Addic7edSubtitles/internal/config"
)

const schema = `CREATE TABLE IF NOT EXISTS named_config (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// UpdatingHook receives the JSON of an object about to be saved and returns the JSON
// to persist instead. Returning an error aborts the save.
type UpdatingHook func(ctx context.Context, value json.RawMessage) (json.RawMessage, error)

type registration struct {
	id   uint64
	hook UpdatingHook
}

// Store keeps named configuration objects as JSON in SQLite
type Store struct {
	db *sql.DB

	mu     sync.RWMutex
	hooks  map[string][]registration
	nextID uint64
}

// New creates the configuration table when missing
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create named_config table: %w", err)
	}
	return &Store{db: db, hooks: make(map[string][]registration)}, nil
}

// OnUpdating registers hook for saves of key. Hooks run in registration order.
// The returned function unregisters the hook and is safe to call more than once.
func (s *Store) OnUpdating(key string, hook UpdatingHook) (unregister func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.hooks[key] = append(s.hooks[key], registration{id: id, hook: hook})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			regs := s.hooks[key]
			for i, r := range regs {
				if r.id == id {
					s.hooks[key] = append(regs[:i:i], regs[i+1:]...)
					break
				}
			}
			if len(s.hooks[key]) == 0 {
				delete(s.hooks, key)
			}
		})
	}
}

// Load decodes the object stored under key into out.
// A missing object yields *apperrors.ErrNotFound.
func (s *Store) Load(ctx context.Context, key string, out any) error {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM named_config WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFoundError("configuration", key)
	}
	if err != nil {
		return fmt.Errorf("load configuration %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode configuration %q: %w", key, err)
	}
	return nil
}

// Save runs the updating hooks of key over value and persists the result
func (s *Store) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode configuration %q: %w", key, err)
	}

	s.mu.RLock()
	regs := append([]registration(nil), s.hooks[key]...)
	s.mu.RUnlock()

	for _, r := range regs {
		if raw, err = r.hook(ctx, raw); err != nil {
			return fmt.Errorf("updating hook for %q: %w", key, err)
		}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO named_config (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(raw), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save configuration %q: %w", key, err)
	}

	logger := config.GetLogger()
	logger.Debug().Str("key", key).Int("hooks", len(regs)).Msg("Saved named configuration")
	return nil
}
