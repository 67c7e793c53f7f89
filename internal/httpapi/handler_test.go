package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Belphemur/Addic7edSubtitles/internal/apperrors"
	"github.com/Belphemur/Addic7edSubtitles/internal/metrics"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"
)

type stubProvider struct {
	lastSearch models.SearchRequest
	lastToken  string
	results    []models.RemoteSubtitle
	payload    *models.SubtitlePayload
	err        error
}

func (s *stubProvider) Name() string { return "Addic7ed" }

func (s *stubProvider) SupportedKinds() []models.ContentKind {
	return []models.ContentKind{models.ContentKindEpisode}
}

func (s *stubProvider) Search(_ context.Context, req models.SearchRequest) []models.RemoteSubtitle {
	s.lastSearch = req
	if s.results == nil {
		return []models.RemoteSubtitle{}
	}
	return s.results
}

func (s *stubProvider) Retrieve(_ context.Context, token string) (*models.SubtitlePayload, error) {
	s.lastToken = token
	return s.payload, s.err
}

func (s *stubProvider) Close() error { return nil }

func TestSearch_MapsQuery(t *testing.T) {
	p := &stubProvider{results: []models.RemoteSubtitle{{ID: "/download/abc:en", Name: "KILLERS", Language: "en", Format: "srt", ProviderName: "Addic7ed"}}}
	router := NewRouter(p)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?kind=episode&name=Example+Show&season=1&episode=2&language=en&forced=false", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	var got []models.RemoteSubtitle
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(got) != 1 || got[0].ID != "/download/abc:en" {
		t.Errorf("Unexpected body: %+v", got)
	}

	sr := p.lastSearch
	if sr.Kind != models.ContentKindEpisode || sr.Name != "Example Show" || sr.Language != "en" {
		t.Errorf("Unexpected request: %+v", sr)
	}
	if sr.Season == nil || *sr.Season != 1 || sr.Episode == nil || *sr.Episode != 2 {
		t.Errorf("Season/episode not mapped: %+v", sr)
	}
	if sr.IsForced == nil || *sr.IsForced {
		t.Errorf("IsForced = %v, want false", sr.IsForced)
	}
}

func TestSearch_EmptyListIsJSONArray(t *testing.T) {
	router := NewRouter(&stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?kind=movie&name=Film&year=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("Body = %q, want an empty JSON array", body)
	}
}

func TestSearchRequestFromQuery_InvalidNumbersAreUnset(t *testing.T) {
	q := url.Values{"season": {"one"}, "episode": {" 3 "}, "year": {""}, "forced": {"maybe"}}
	req := searchRequestFromQuery(q)

	if req.Season != nil {
		t.Errorf("Season = %v, want nil", *req.Season)
	}
	if req.Episode == nil || *req.Episode != 3 {
		t.Errorf("Episode = %v, want 3", req.Episode)
	}
	if req.Year != nil || req.IsForced != nil {
		t.Errorf("Unexpected request: %+v", req)
	}
}

func TestRetrieve(t *testing.T) {
	token := "/download/abc:en"
	path := "/api/v1/subtitles/" + url.PathEscape(token)

	tests := []struct {
		name        string
		provider    *stubProvider
		wantStatus  int
		wantType    string
		wantContent string
	}{
		{
			name:        "subtitle",
			provider:    &stubProvider{payload: &models.SubtitlePayload{Language: "en", Format: "srt", Content: []byte("1\nHi\n")}},
			wantStatus:  http.StatusOK,
			wantType:    subripContentType,
			wantContent: "1\nHi\n",
		},
		{
			name:       "not available",
			provider:   &stubProvider{},
			wantStatus: http.StatusNotFound,
			wantType:   "application/json",
		},
		{
			name:       "malformed token",
			provider:   &stubProvider{err: &apperrors.ErrMalformedToken{Token: token}},
			wantStatus: http.StatusBadRequest,
			wantType:   "application/json",
		},
		{
			name:       "unexpected error",
			provider:   &stubProvider{err: errors.New("boom")},
			wantStatus: http.StatusInternalServerError,
			wantType:   "application/json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewRouter(tt.provider).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", got, tt.wantType)
			}
			if tt.wantContent != "" && rec.Body.String() != tt.wantContent {
				t.Errorf("Body = %q, want %q", rec.Body.String(), tt.wantContent)
			}
			if tt.provider.lastToken != token {
				t.Errorf("Provider received token %q, want %q", tt.provider.lastToken, token)
			}
		})
	}
}

func TestRouter_MountedOnMetricsServer(t *testing.T) {
	p := &stubProvider{payload: &models.SubtitlePayload{Language: "en", Format: "srt", Content: []byte("1\n")}}
	srv := metrics.NewHTTPServer("localhost", 0, NewRouter(p))

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/subtitles/%2Fdownload%2Fabc:en", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	if p.lastToken != "/download/abc:en" {
		t.Errorf("Provider received token %q", p.lastToken)
	}

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/healthz status = %d", rec.Code)
	}
}
