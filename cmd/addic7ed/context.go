package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/Belphemur/Addic7edSubtitles/internal/client"
	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	"github.com/Belphemur/Addic7edSubtitles/internal/configstore"
	"github.com/Belphemur/Addic7edSubtitles/internal/database"
	"github.com/Belphemur/Addic7edSubtitles/internal/library"
	"github.com/Belphemur/Addic7edSubtitles/internal/provider"
	"github.com/Belphemur/Addic7edSubtitles/internal/secrets"
)

// commandContext lazily builds the components a command needs and closes them
// once the command has run
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	httpClient    *http.Client
	libraryClient *http.Client
	db         *sql.DB
	store      *configstore.Store
	provider   provider.Provider
	catalog    library.Catalog
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := strings.TrimSpace(*c.configFlag)
		if path == "" {
			c.config = config.GetConfig()
			return
		}
		cfg, err := config.LoadConfigFile(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config %s: %w", path, err)
			return
		}
		config.Use(cfg)
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) client() *http.Client {
	if c.httpClient == nil {
		c.httpClient = client.NewHTTPClient(c.config)
	}
	return c.httpClient
}

// libraryHTTPClient talks to the host media server. It has its own circuit breaker so
// a failing library does not cut off the subtitle source, nor the other way around.
func (c *commandContext) libraryHTTPClient() *http.Client {
	if c.libraryClient == nil {
		c.libraryClient = client.NewHTTPClient(c.config)
	}
	return c.libraryClient
}

func (c *commandContext) database() (*sql.DB, error) {
	if c.db != nil {
		return c.db, nil
	}
	db, err := database.Open(c.config.Database.Path)
	if err != nil {
		return nil, err
	}
	c.db = db
	return db, nil
}

func (c *commandContext) configStore(ctx context.Context) (*configstore.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	db, err := c.database()
	if err != nil {
		return nil, err
	}
	store, err := configstore.New(ctx, db)
	if err != nil {
		return nil, err
	}
	c.store = store
	return store, nil
}

// cipher returns nil when no passphrase is configured: passwords are then stored as given
func (c *commandContext) cipher() (*secrets.Cipher, error) {
	cipher, err := secrets.CipherFromConfig(c.config.Credentials)
	if errors.Is(err, secrets.ErrNoPassphrase) {
		logger := config.GetLogger()
		logger.Warn().Msg("No credentials passphrase configured, the provider password is stored unencrypted")
		return nil, nil
	}
	return cipher, err
}

func (c *commandContext) subtitleProvider(ctx context.Context) (provider.Provider, error) {
	if c.provider != nil {
		return c.provider, nil
	}

	deps := provider.Dependencies{HTTPClient: c.client()}
	switch c.config.Provider.Strategy {
	case config.StrategyAddic7ed:
		store, err := c.configStore(ctx)
		if err != nil {
			return nil, err
		}
		cipher, err := c.cipher()
		if err != nil {
			return nil, err
		}
		deps.Store, deps.Cipher = store, cipher
	default:
		db, err := c.database()
		if err != nil {
			return nil, err
		}
		catalog, err := library.FromConfig(c.config, db, c.libraryHTTPClient())
		if err != nil {
			return nil, err
		}
		c.catalog = catalog
		deps.Catalog = catalog
	}

	p, err := provider.New(c.config, deps)
	if err != nil {
		return nil, err
	}
	c.provider = p
	return p, nil
}

func (c *commandContext) close() error {
	var errs []error
	if c.provider != nil {
		errs = append(errs, c.provider.Close())
	}
	if c.catalog != nil {
		errs = append(errs, c.catalog.Close())
	}
	if c.db != nil {
		errs = append(errs, c.db.Close())
	}
	return errors.Join(errs...)
}
