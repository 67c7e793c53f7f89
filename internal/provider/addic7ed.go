package provider

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/Belphemur/Addic7edSubtitles/internal/client"
	"github.com/Belphemur/Addic7edSubtitles/internal/codec"
	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	"github.com/Belphemur/Addic7edSubtitles/internal/credentials"
	"github.com/Belphemur/Addic7edSubtitles/internal/filter"
	"github.com/Belphemur/Addic7edSubtitles/internal/language"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"
	"github.com/Belphemur/Addic7edSubtitles/internal/parser"

	"github.com/rs/zerolog"
)

// seasonQuery is the query of ajax_loadShow.php. Zero langs/hd/hi disable the
// server-side filters; language filtering happens on the parsed rows.
type seasonQuery struct {
	Show   string `url:"show"`
	Season int    `url:"season"`
	Langs  string `url:"langs"`
	HD     int    `url:"hd"`
	HI     int    `url:"hi"`
}

type movieSearchQuery struct {
	Search string `url:"search"`
	Submit string `url:"Submit"`
}

// Addic7ed scrapes the Addic7ed website. Requests go through a session that logs in
// with the stored credentials at most once per cooldown.
type Addic7ed struct {
	base
	fetcher     client.Fetcher
	session     *client.Session
	credentials *credentials.Manager

	showList    parser.Parser[models.ShowHandle]
	season      parser.Parser[models.SubtitleCandidate]
	movieSearch parser.Parser[models.MovieHandle]
	moviePage   parser.Parser[models.SubtitleCandidate]
}

// NewAddic7ed creates the scraping strategy. Without a configuration store in deps the
// site is browsed anonymously.
func NewAddic7ed(cfg config.ProviderConfig, deps Dependencies) (*Addic7ed, error) {
	raw, err := client.NewFetcher(deps.HTTPClient, cfg.Addic7edURL)
	if err != nil {
		return nil, err
	}

	a := &Addic7ed{
		showList:    parser.NewShowListParser(),
		season:      parser.NewSeasonParser(language.ToThreeLetter),
		movieSearch: parser.NewMovieSearchParser(),
		moviePage:   parser.NewMoviePageParser(language.ToThreeLetter),
	}

	var source client.CredentialSource = anonymous{}
	if deps.Store != nil {
		a.credentials = credentials.Register(deps.Store, deps.Cipher)
		a.closers = append(a.closers, a.credentials.Close)
		source = a.credentials
	}

	cooldown := config.ParseDuration("provider.login_cooldown", cfg.LoginCooldown, client.DefaultLoginCooldown)
	a.session = client.NewSession(raw, source, cooldown)
	a.fetcher = client.WithSession(raw, a.session)

	a.retriever = &retriever{fetcher: a.fetcher, codec: codec.Plain, strategy: config.StrategyAddic7ed}
	a.strategy = config.StrategyAddic7ed
	a.kinds = []models.ContentKind{models.ContentKindEpisode, models.ContentKindMovie}
	return a, nil
}

// Credentials manages the stored login, nil when the provider has no configuration store
func (a *Addic7ed) Credentials() *credentials.Manager {
	return a.credentials
}

func (a *Addic7ed) Search(ctx context.Context, req models.SearchRequest) []models.RemoteSubtitle {
	if req.Kind == models.ContentKindMovie {
		return a.search(ctx, req, a.findMovie)
	}
	return a.search(ctx, req, a.findEpisode)
}

func (a *Addic7ed) findEpisode(ctx context.Context, req models.SearchRequest) []models.SubtitleCandidate {
	logger := zerolog.Ctx(ctx)

	shows := a.resolveShow(ctx, req.Name)
	if len(shows) == 0 {
		logger.Debug().Msg("Show not found")
		return nil
	}
	show := shows[0]

	resp, err := a.fetcher.Get(ctx, "/ajax_loadShow.php", seasonQuery{Show: show.ID, Season: *req.Season})
	if err != nil {
		logFetchError(ctx, err, "Failed to fetch season page")
		return nil
	}

	candidates, err := a.season.ParseHtml(bytes.NewReader(resp.Body))
	if err != nil {
		logger.Warn().Err(err).Str("show_id", show.ID).Msg("Failed to parse season page")
		return nil
	}

	return filter.Episode(candidates, *req.Episode, language.ToThreeLetter(req.Language))
}

// resolveShow matches name exactly against the full show listing. The listing is
// fetched on every call.
func (a *Addic7ed) resolveShow(ctx context.Context, name string) []models.ShowHandle {
	logger := zerolog.Ctx(ctx)

	resp, err := a.fetcher.Get(ctx, "/shows.php", nil)
	if err != nil {
		logFetchError(ctx, err, "Failed to fetch show listing")
		return nil
	}

	shows, err := a.showList.ParseHtml(bytes.NewReader(resp.Body))
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to parse show listing")
		return nil
	}

	id, ok := parser.ShowIndex(shows)[name]
	if !ok {
		return nil
	}
	return []models.ShowHandle{{ID: id, Name: name}}
}

func (a *Addic7ed) findMovie(ctx context.Context, req models.SearchRequest) []models.SubtitleCandidate {
	logger := zerolog.Ctx(ctx)

	movie := a.resolveMovie(ctx, req.Name, *req.Year)
	if movie == nil {
		logger.Debug().Int("year", *req.Year).Msg("Movie not found")
		return nil
	}

	resp, err := a.fetcher.Get(ctx, "/movie/"+url.PathEscape(movie.ID), nil)
	if err != nil {
		logFetchError(ctx, err, "Failed to fetch movie page")
		return nil
	}

	candidates, err := a.moviePage.ParseHtml(bytes.NewReader(resp.Body))
	if err != nil {
		logger.Warn().Err(err).Str("movie_id", movie.ID).Msg("Failed to parse movie page")
		return nil
	}

	return filter.Movie(candidates, language.ToThreeLetter(req.Language))
}

// resolveMovie searches the site and keeps the result titled exactly "{name} ({year})"
func (a *Addic7ed) resolveMovie(ctx context.Context, name string, year int) *models.MovieHandle {
	resp, err := a.fetcher.Get(ctx, "/search.php", movieSearchQuery{Search: name, Submit: "Search"})
	if err != nil {
		logFetchError(ctx, err, "Failed to search movies")
		return nil
	}

	movies, err := a.movieSearch.ParseHtml(bytes.NewReader(resp.Body))
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to parse movie search results")
		return nil
	}

	want := fmt.Sprintf("%s (%d)", name, year)
	for _, movie := range movies {
		if movie.Title == want {
			return &movie
		}
	}
	return nil
}

// anonymous provides no login, the session then never authenticates
type anonymous struct{}

func (anonymous) Credentials(context.Context) (string, string, error) {
	return "", "", nil
}
