package parser

import (
	"io"
	"regexp"
	"strings"

	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"
)

var movieLinks = []Column{
	{Name: "href", Selector: `a[href^="movie/"], a[href^="/movie/"]`, Attr: "href"},
	{Name: "title", Selector: `a[href^="movie/"], a[href^="/movie/"]`},
}

// MoviePage holds the four groups of a movie page. They are zipped by position and
// the number of versions decides how many candidates the page yields.
var MoviePage = []Column{
	{Name: "version", Selector: "td.NewsTitle"},
	{Name: "language", Selector: "td.language"},
	{Name: "download", Selector: "a.buttonDownload", Attr: "href"},
	{Name: "title", Selector: "span.titulo"},
}

// versionLabel captures the release label of "Version KILLERS, 0.00 MBs"
var versionLabel = regexp.MustCompile(`^Version\s+(.+?),\s*[\d.]+\s*MBs`)

// MovieSearchParser extracts movie handles from a search results page
type MovieSearchParser struct{}

// NewMovieSearchParser creates a new movie search results parser
func NewMovieSearchParser() *MovieSearchParser {
	return &MovieSearchParser{}
}

// ParseHtml returns the movies listed in the search results. Title holds the
// displayed "Name (Year)" text the resolver matches against.
func (p *MovieSearchParser) ParseHtml(body io.Reader) ([]models.MovieHandle, error) {
	logger := config.GetLogger()

	doc, err := loadDocument(body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse movie search results")
		return nil, err
	}

	groups := ExtractGroups(doc, movieLinks)
	hrefs, titles := groups["href"], groups["title"]

	movies := make([]models.MovieHandle, 0, len(hrefs))
	for i, href := range hrefs {
		id := strings.Trim(strings.TrimPrefix(strings.TrimPrefix(href, "/"), "movie/"), "/")
		if id == "" || titles[i] == "" {
			continue
		}
		movies = append(movies, models.MovieHandle{ID: id, Title: titles[i]})
	}

	logger.Debug().Int("total_movies", len(movies)).Msg("Completed movie search parsing")
	return movies, nil
}

// MoviePageParser extracts subtitle candidates from a movie page
type MoviePageParser struct {
	normalize LanguageNormalizer
}

// NewMoviePageParser creates a movie page parser. A nil normalizer keeps languages as displayed.
func NewMoviePageParser(normalize LanguageNormalizer) *MoviePageParser {
	if normalize == nil {
		normalize = strings.TrimSpace
	}
	return &MoviePageParser{normalize: normalize}
}

// ParseHtml zips the page groups into candidates. Positions missing a language or a
// download link are skipped.
func (p *MoviePageParser) ParseHtml(body io.Reader) ([]models.SubtitleCandidate, error) {
	logger := config.GetLogger()

	doc, err := loadDocument(body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse movie page")
		return nil, err
	}

	groups := ExtractGroups(doc, MoviePage)
	versions := groups["version"]
	languages := groups["language"]
	downloads := groups["download"]

	var title string
	if len(groups["title"]) > 0 {
		title = strings.TrimSpace(strings.TrimSuffix(groups["title"][0], "Subtitle"))
	}

	candidates := make([]models.SubtitleCandidate, 0, len(versions))
	for i, version := range versions {
		if i >= len(languages) || i >= len(downloads) || downloads[i] == "" {
			logger.Warn().Int("index", i).Str("version", version).Msg("Skipping movie subtitle without language or download")
			continue
		}

		candidates = append(candidates, models.SubtitleCandidate{
			Title:       title,
			Language:    p.normalize(languages[i]),
			Version:     parseVersion(version),
			DownloadURI: downloads[i],
		})
	}

	logger.Debug().Int("total_candidates", len(candidates)).Msg("Completed movie page parsing")
	return candidates, nil
}

func parseVersion(text string) string {
	if m := versionLabel.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}
