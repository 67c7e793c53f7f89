package parser

import (
	"io"
	"strings"

	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"
)

var showLinks = []Column{
	{Name: "href", Selector: `a[href^="/show/"]`, Attr: "href"},
	{Name: "name", Selector: `a[href^="/show/"]`},
}

// ShowListParser extracts the show handles of the full show listing page
type ShowListParser struct{}

// NewShowListParser creates a new show listing parser
func NewShowListParser() *ShowListParser {
	return &ShowListParser{}
}

// ParseHtml returns the listed shows in page order. Links without an id or a name are ignored.
func (p *ShowListParser) ParseHtml(body io.Reader) ([]models.ShowHandle, error) {
	logger := config.GetLogger()

	doc, err := loadDocument(body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse show listing")
		return nil, err
	}

	groups := ExtractGroups(doc, showLinks)
	hrefs, names := groups["href"], groups["name"]

	shows := make([]models.ShowHandle, 0, len(hrefs))
	for i, href := range hrefs {
		id := strings.Trim(strings.TrimPrefix(href, "/show/"), "/")
		if id == "" || names[i] == "" {
			logger.Debug().Str("href", href).Msg("Ignoring show link without id or name")
			continue
		}
		shows = append(shows, models.ShowHandle{ID: id, Name: names[i]})
	}

	logger.Debug().Int("total_shows", len(shows)).Msg("Completed show listing parsing")
	return shows, nil
}

// ShowIndex maps show names to ids. The first occurrence of a duplicated name wins.
func ShowIndex(shows []models.ShowHandle) map[string]string {
	index := make(map[string]string, len(shows))
	for _, show := range shows {
		if _, exists := index[show.Name]; !exists {
			index[show.Name] = show.ID
		}
	}
	return index
}
