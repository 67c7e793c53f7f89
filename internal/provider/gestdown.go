package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Belphemur/Addic7edSubtitles/internal/apperrors"
	"github.com/Belphemur/Addic7edSubtitles/internal/client"
	"github.com/Belphemur/Addic7edSubtitles/internal/codec"
	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	"github.com/Belphemur/Addic7edSubtitles/internal/filter"
	"github.com/Belphemur/Addic7edSubtitles/internal/language"
	"github.com/Belphemur/Addic7edSubtitles/internal/library"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"

	"github.com/rs/zerolog"
)

// Gestdown resolves episodes through the Gestdown JSON API, which mirrors Addic7ed.
// Shows are identified by their TVDB id taken from the host library.
type Gestdown struct {
	base
	fetcher client.Fetcher
	catalog library.Catalog
}

// NewGestdown creates the JSON API strategy
func NewGestdown(cfg config.ProviderConfig, deps Dependencies) (*Gestdown, error) {
	if deps.Catalog == nil {
		return nil, errors.New("gestdown strategy requires a library catalog")
	}

	fetcher, err := client.NewFetcher(deps.HTTPClient, cfg.GestdownURL)
	if err != nil {
		return nil, err
	}

	return &Gestdown{
		base: base{
			retriever: &retriever{fetcher: fetcher, codec: codec.Escaped, strategy: config.StrategyGestdown},
			strategy:  config.StrategyGestdown,
			kinds:     []models.ContentKind{models.ContentKindEpisode},
		},
		fetcher: fetcher,
		catalog: deps.Catalog,
	}, nil
}

func (g *Gestdown) Search(ctx context.Context, req models.SearchRequest) []models.RemoteSubtitle {
	return g.search(ctx, req, g.findEpisode)
}

// findEpisode returns the subtitles of the first show with a match. Shows sharing the
// TVDB id are tried in API order.
func (g *Gestdown) findEpisode(ctx context.Context, req models.SearchRequest) []models.SubtitleCandidate {
	logger := zerolog.Ctx(ctx)

	shows := g.resolveShow(ctx, req.Name)
	if len(shows) == 0 {
		return nil
	}

	lang := language.ToTwoLetter(req.Language)
	for _, show := range shows {
		candidates, err := g.subtitles(ctx, show, *req.Season, *req.Episode, lang)
		if err != nil {
			logFetchError(ctx, err, "Failed to fetch subtitles for show")
			continue
		}

		matching := filter.Episode(candidates, *req.Episode, lang)
		if len(matching) == 0 {
			logger.Debug().Str("show_id", show.ID).Msg("No matching subtitles for show")
			continue
		}
		return matching
	}
	return nil
}

// resolveShow looks the series up in the host library and lists the Gestdown shows
// registered under its TVDB id
func (g *Gestdown) resolveShow(ctx context.Context, name string) []models.ShowHandle {
	logger := zerolog.Ctx(ctx)

	ids, err := g.catalog.LookupSeries(ctx, name)
	if err != nil {
		if errors.Is(err, &apperrors.ErrNotFound{}) {
			logger.Debug().Msg("Series not found in library")
		} else {
			logger.Warn().Err(err).Msg("Library lookup failed")
		}
		return nil
	}
	if ids.TVDB == "" {
		logger.Debug().Msg("Series has no TVDB id")
		return nil
	}

	resp, err := g.fetcher.Get(ctx, "/shows/external/tvdb/"+url.PathEscape(ids.TVDB), nil)
	if err != nil {
		logFetchError(ctx, err, "Failed to fetch shows by TVDB id")
		return nil
	}

	var payload models.GestdownShowResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		logger.Warn().Err(err).Str("tvdb_id", ids.TVDB).Msg("Failed to decode show response")
		return nil
	}

	handles := make([]models.ShowHandle, 0, len(payload.Shows))
	for _, show := range payload.Shows {
		handles = append(handles, models.ShowHandle{ID: show.ID, Name: show.Name})
	}
	logger.Debug().Str("tvdb_id", ids.TVDB).Int("shows", len(handles)).Msg("Resolved shows")
	return handles
}

// subtitles fetches the subtitles of one episode, with languages normalized to two letters.
// The endpoint is scoped to the episode, so every entry carries the requested numbers.
func (g *Gestdown) subtitles(ctx context.Context, show models.ShowHandle, season, episode int, lang string) ([]models.SubtitleCandidate, error) {
	path := fmt.Sprintf("/subtitles/get/%s/%s/%s/%s",
		url.PathEscape(show.ID), strconv.Itoa(season), strconv.Itoa(episode), url.PathEscape(lang))

	resp, err := g.fetcher.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var payload models.GestdownSubtitleSearchResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("decode subtitles of show %s: %w", show.ID, err)
	}

	candidates := make([]models.SubtitleCandidate, 0, len(payload.MatchingSubtitles))
	for _, s := range payload.MatchingSubtitles {
		candidates = append(candidates, models.SubtitleCandidate{
			Season:          season,
			Episode:         episode,
			Title:           payload.Episode.Title,
			Language:        language.ToTwoLetter(s.Language),
			Version:         s.Version,
			Completed:       s.Completed,
			HearingImpaired: s.HearingImpaired,
			Corrected:       s.Corrected,
			HD:              s.HD,
			DownloadURI:     s.DownloadURI,
		})
	}
	return candidates, nil
}
