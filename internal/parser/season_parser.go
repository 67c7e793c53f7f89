package parser

import (
	"io"
	"strconv"
	"strings"

	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"
)

// SeasonTable is the fixed 11 column layout of a season page
var SeasonTable = RowPattern{
	Page: "season",
	Row:  "tr.epeven",
	Cell: "td",
	Columns: []Column{
		{Name: "season"},
		{Name: "episode"},
		{Name: "title", Selector: "a"},
		{Name: "language"},
		{Name: "version"},
		{Name: "completed"},
		{Name: "hearing_impaired"},
		{Name: "corrected"},
		{Name: "hd"},
		{Name: "download", Selector: "a", Attr: "href"},
		{Name: "multi"},
	},
}

// LanguageNormalizer maps the language label of a page to the canonical code compared by the filter
type LanguageNormalizer func(string) string

// SeasonParser extracts subtitle candidates from a season page
type SeasonParser struct {
	normalize LanguageNormalizer
}

// NewSeasonParser creates a season parser. A nil normalizer keeps languages as displayed.
func NewSeasonParser(normalize LanguageNormalizer) *SeasonParser {
	if normalize == nil {
		normalize = strings.TrimSpace
	}
	return &SeasonParser{normalize: normalize}
}

// ParseHtml returns the candidates of every well formed row in page order
func (p *SeasonParser) ParseHtml(body io.Reader) ([]models.SubtitleCandidate, error) {
	logger := config.GetLogger()

	doc, err := loadDocument(body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse season page")
		return nil, err
	}

	rows := ExtractRows(doc, SeasonTable)
	candidates := make([]models.SubtitleCandidate, 0, len(rows))
	for _, row := range rows {
		season, seasonErr := strconv.Atoi(row["season"])
		episode, episodeErr := strconv.Atoi(row["episode"])
		if seasonErr != nil || episodeErr != nil {
			logger.Warn().
				Str("season", row["season"]).
				Str("episode", row["episode"]).
				Msg("Skipping season row with non numeric season or episode")
			continue
		}

		candidates = append(candidates, models.SubtitleCandidate{
			Season:          season,
			Episode:         episode,
			Title:           row["title"],
			Language:        p.normalize(row["language"]),
			Version:         row["version"],
			Completed:       strings.EqualFold(row["completed"], "Completed"),
			HearingImpaired: row["hearing_impaired"] != "",
			Corrected:       row["corrected"] != "",
			HD:              row["hd"] != "",
			DownloadURI:     row["download"],
			Multi:           row["multi"] != "",
		})
	}

	logger.Debug().Int("total_candidates", len(candidates)).Msg("Completed season page parsing")
	return candidates, nil
}
