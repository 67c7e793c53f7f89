// Package provider resolves subtitle search requests against Addic7ed and downloads
// the chosen subtitle. Two interchangeable strategies implement Provider: the Gestdown
// JSON API and scraping of the Addic7ed website.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/Belphemur/Addic7edSubtitles/internal/client"
	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	"github.com/Belphemur/Addic7edSubtitles/internal/configstore"
	"github.com/Belphemur/Addic7edSubtitles/internal/library"
	"github.com/Belphemur/Addic7edSubtitles/internal/metrics"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"
	"github.com/Belphemur/Addic7edSubtitles/internal/secrets"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Name is reported as the provider of every search result
const Name = "Addic7ed"

const hearingImpairedSuffix = " - Hearing Impaired"

// Provider searches subtitles and retrieves the one a caller picked.
//
// Search never fails: source errors, unknown shows and malformed requests all yield an
// empty list. Retrieve only fails for a token that was not produced by Search; a
// download failure or a response that is not a subtitle yields a nil payload.
type Provider interface {
	Name() string
	SupportedKinds() []models.ContentKind
	Search(ctx context.Context, req models.SearchRequest) []models.RemoteSubtitle
	Retrieve(ctx context.Context, token string) (*models.SubtitlePayload, error)
	Close() error
}

// Dependencies are the collaborators a provider is built with
type Dependencies struct {
	// HTTPClient performs every source request, client.NewHTTPClient(cfg) when nil
	HTTPClient *http.Client

	// Catalog resolves series names to TVDB ids, required by the gestdown strategy
	Catalog library.Catalog

	// Store holds the login options of the addic7ed strategy. Without it the site is
	// scraped anonymously.
	Store *configstore.Store

	// Cipher encrypts the stored password, nil stores it as given
	Cipher *secrets.Cipher
}

// New builds the provider selected by provider.strategy
func New(cfg *config.Config, deps Dependencies) (Provider, error) {
	if deps.HTTPClient == nil {
		deps.HTTPClient = client.NewHTTPClient(cfg)
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider.Strategy {
	case "", config.StrategyGestdown:
		p, err = NewGestdown(cfg.Provider, deps)
	case config.StrategyAddic7ed:
		p, err = NewAddic7ed(cfg.Provider, deps)
	default:
		return nil, fmt.Errorf("unknown provider strategy %q", cfg.Provider.Strategy)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", cfg.Provider.Strategy, err)
	}
	return p, nil
}

var errInvalidRequest = errors.New("invalid search request")

// validate checks the fields required by the content kind
func validate(req models.SearchRequest) error {
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.Language) == "" {
		missing = append(missing, "language")
	}

	switch req.Kind {
	case models.ContentKindEpisode:
		if req.Season == nil {
			missing = append(missing, "season")
		}
		if req.Episode == nil {
			missing = append(missing, "episode")
		}
	case models.ContentKindMovie:
		if req.Year == nil {
			missing = append(missing, "year")
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", errInvalidRequest, req.Kind)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", errInvalidRequest, strings.Join(missing, ", "))
	}
	return nil
}

func displayName(c models.SubtitleCandidate) string {
	if c.HearingImpaired {
		return c.Version + hearingImpairedSuffix
	}
	return c.Version
}

// finder returns the filtered candidates of a validated request
type finder func(ctx context.Context, req models.SearchRequest) []models.SubtitleCandidate

// base holds what both strategies share: request screening, token encoding and retrieval
type base struct {
	*retriever
	strategy string
	kinds    []models.ContentKind
	closers  []func()
}

func (b *base) Name() string {
	return Name
}

func (b *base) SupportedKinds() []models.ContentKind {
	return slices.Clone(b.kinds)
}

// Close releases the subscriptions made at construction
func (b *base) Close() error {
	for _, closeFn := range b.closers {
		closeFn()
	}
	b.closers = nil
	return nil
}

// search screens req, runs find and encodes the surviving candidates. Result tokens and
// languages carry the language as the caller asked for it.
func (b *base) search(ctx context.Context, req models.SearchRequest, find finder) []models.RemoteSubtitle {
	logger := config.GetLogger().With().
		Str("search_id", uuid.NewString()).
		Str("provider", b.strategy).
		Str("kind", string(req.Kind)).
		Str("name", req.Name).
		Logger()
	ctx = logger.WithContext(ctx)

	results := []models.RemoteSubtitle{}
	reject := func(reason string, err error) []models.RemoteSubtitle {
		logger.Debug().Err(err).Msg(reason)
		metrics.SearchesTotal.WithLabelValues(b.strategy, string(req.Kind), metrics.OutcomeRejected).Inc()
		return results
	}

	if req.Forced() {
		return reject("Forced subtitles are not supported", nil)
	}
	if err := validate(req); err != nil {
		return reject("Ignoring incomplete search request", err)
	}
	if !slices.Contains(b.kinds, req.Kind) {
		return reject("Content kind not supported by strategy", nil)
	}

	requested := strings.TrimSpace(req.Language)
	for _, c := range find(ctx, req) {
		token, err := b.codec.Encode(c.DownloadURI, requested)
		if err != nil {
			logger.Warn().Err(err).Str("download", c.DownloadURI).Msg("Skipping subtitle with unencodable locator")
			continue
		}
		results = append(results, models.RemoteSubtitle{
			ID:           token,
			Name:         displayName(c),
			Language:     requested,
			Format:       models.FormatSRT,
			ProviderName: Name,
		})
	}

	outcome := metrics.OutcomeFound
	if len(results) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.SearchesTotal.WithLabelValues(b.strategy, string(req.Kind), outcome).Inc()
	logger.Info().Int("results", len(results)).Msg("Subtitle search completed")
	return results
}

// logFetchError logs a failed source request at a level matching its cause
func logFetchError(ctx context.Context, err error, msg string) {
	logger := zerolog.Ctx(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Debug().Err(err).Msg(msg)
		return
	}
	logger.Warn().Err(err).Msg(msg)
}
