package library

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Belphemur/Addic7edSubtitles/internal/apperrors"
	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"

	"github.com/google/go-querystring/query"
)

// Emby looks series up in an Emby or Jellyfin server
type Emby struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

type embyItemsQuery struct {
	IncludeItemTypes string `url:"IncludeItemTypes"`
	Recursive        bool   `url:"Recursive"`
	SearchTerm       string `url:"SearchTerm"`
	Fields           string `url:"Fields"`
	Limit            int    `url:"Limit"`
}

type embyItemsResponse struct {
	Items []struct {
		Name        string            `json:"Name"`
		ProviderIDs map[string]string `json:"ProviderIds"`
	} `json:"Items"`
}

// NewEmby creates a catalog backed by the Emby server at baseURL
func NewEmby(httpClient *http.Client, baseURL, apiKey string) (*Emby, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid emby URL %q: %w", baseURL, err)
	}
	return &Emby{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}, nil
}

// LookupSeries returns the identifiers of the first series matching name
func (e *Emby) LookupSeries(ctx context.Context, name string) (models.ProviderIDs, error) {
	logger := config.GetLogger()

	params, err := query.Values(embyItemsQuery{
		IncludeItemTypes: "Series",
		Recursive:        true,
		SearchTerm:       name,
		Fields:           "ProviderIds",
		Limit:            10,
	})
	if err != nil {
		return models.ProviderIDs{}, fmt.Errorf("encode emby query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/Items?"+params.Encode(), nil)
	if err != nil {
		return models.ProviderIDs{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Emby-Token", e.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", config.GetUserAgent())

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return models.ProviderIDs{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ProviderIDs{}, &apperrors.ErrUnexpectedStatus{URL: req.URL.String(), StatusCode: resp.StatusCode}
	}

	var items embyItemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return models.ProviderIDs{}, fmt.Errorf("decode emby items: %w", err)
	}

	if len(items.Items) == 0 {
		return models.ProviderIDs{}, apperrors.NewNotFoundError("series", name)
	}

	item := items.Items[0]
	ids := models.ProviderIDs{
		TVDB: lookupID(item.ProviderIDs, "Tvdb"),
		IMDB: lookupID(item.ProviderIDs, "Imdb"),
	}
	logger.Debug().Str("series", name).Str("emby_name", item.Name).Str("tvdb", ids.TVDB).Msg("Resolved series from Emby")
	return ids, nil
}

// Close implements Catalog
func (e *Emby) Close() error {
	return nil
}

// lookupID reads a provider id, Emby and Jellyfin disagree on key casing
func lookupID(ids map[string]string, key string) string {
	for k, v := range ids {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
