package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Belphemur/Addic7edSubtitles/internal/apperrors"
	"github.com/Belphemur/Addic7edSubtitles/internal/codec"
	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"
	"github.com/Belphemur/Addic7edSubtitles/internal/testutil"
)

type staticCatalog map[string]models.ProviderIDs

func (c staticCatalog) LookupSeries(_ context.Context, name string) (models.ProviderIDs, error) {
	ids, ok := c[name]
	if !ok {
		return models.ProviderIDs{}, apperrors.NewNotFoundError("series", name)
	}
	return ids, nil
}

func (c staticCatalog) Close() error { return nil }

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

// gestdownServer serves two shows for TVDB id 123: the first has no subtitles for
// S01E02, the second has an English and a French one. TVDB id 500 answers with a
// garbled body, 600 lists two shows whose subtitle pages are garbled or failing, and
// 700 lists a garbled show ahead of show-b.
func gestdownServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var requests atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/shows/external/tvdb/123", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, models.GestdownShowResponse{Shows: []models.GestdownShow{
			{ID: "show-a", Name: "Example Show", TvDbID: 123},
			{ID: "show-b", Name: "Example Show (US)", TvDbID: 123},
		}})
	})
	mux.HandleFunc("/shows/external/tvdb/999", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, models.GestdownShowResponse{})
	})
	mux.HandleFunc("/shows/external/tvdb/500", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	mux.HandleFunc("/shows/external/tvdb/600", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, models.GestdownShowResponse{Shows: []models.GestdownShow{
			{ID: "garbled", Name: "Broken Show", TvDbID: 600},
			{ID: "failing", Name: "Broken Show (UK)", TvDbID: 600},
		}})
	})
	mux.HandleFunc("/shows/external/tvdb/700", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, models.GestdownShowResponse{Shows: []models.GestdownShow{
			{ID: "garbled", Name: "Example Show", TvDbID: 700},
			{ID: "show-b", Name: "Example Show (US)", TvDbID: 700},
		}})
	})
	mux.HandleFunc("/subtitles/get/garbled/1/2/en", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	mux.HandleFunc("/subtitles/get/failing/1/2/en", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/subtitles/get/show-a/1/2/en", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/subtitles/get/show-b/1/2/en", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, models.GestdownSubtitleSearchResponse{
			Episode: models.GestdownEpisode{Season: 1, Number: 2, Title: "Pilot", Show: "Example Show (US)"},
			MatchingSubtitles: []models.GestdownSubtitle{
				{SubtitleID: "s1", Version: "KILLERS", Language: "English", HearingImpaired: true, Completed: true, DownloadURI: "/subtitles/download/s1"},
				{SubtitleID: "s2", Version: "KILLERS", Language: "French", Completed: true, DownloadURI: "/subtitles/download/s2"},
			},
		})
	})
	mux.HandleFunc("/subtitles/download/s1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/srt; charset=utf-8")
		_, _ = w.Write([]byte("1\n00:00:01,000 --> 00:00:02,000\nHello\n"))
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newTestGestdown(t *testing.T, srv *httptest.Server) *Gestdown {
	t.Helper()
	catalog := staticCatalog{
		"Example Show": {TVDB: "123"},
		"Unlisted":     {TVDB: "999"},
		"No Tvdb":      {IMDB: "tt0000001"},
		"Garbled":      {TVDB: "500"},
		"Broken Show":  {TVDB: "600"},
		"Recovering":   {TVDB: "700"},
	}
	g, err := NewGestdown(config.ProviderConfig{GestdownURL: srv.URL}, Dependencies{HTTPClient: srv.Client(), Catalog: catalog})
	if err != nil {
		t.Fatalf("NewGestdown: %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func episodeRequest(name string, season, episode int, lang string) models.SearchRequest {
	return models.SearchRequest{
		Kind:     models.ContentKindEpisode,
		Name:     name,
		Season:   testutil.IntPtr(season),
		Episode:  testutil.IntPtr(episode),
		Language: lang,
	}
}

func TestGestdown_SearchContinuesToNextShow(t *testing.T) {
	srv, _ := gestdownServer(t)
	g := newTestGestdown(t, srv)

	results := g.Search(context.Background(), episodeRequest("Example Show", 1, 2, "en"))
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d: %+v", len(results), results)
	}

	got := results[0]
	if got.Name != "KILLERS - Hearing Impaired" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.Language != "en" || got.Format != models.FormatSRT || got.ProviderName != Name {
		t.Errorf("Unexpected result: %+v", got)
	}
	if got.ID != ",subtitles,download,s1:en" {
		t.Errorf("ID = %q, want escaped locator", got.ID)
	}

	locator, lang, err := codec.Escaped.Decode(got.ID)
	if err != nil || locator != "/subtitles/download/s1" || lang != "en" {
		t.Errorf("Decode(%q) = %q, %q, %v", got.ID, locator, lang, err)
	}
}

func TestGestdown_SearchAcceptsLanguageName(t *testing.T) {
	srv, _ := gestdownServer(t)
	g := newTestGestdown(t, srv)

	results := g.Search(context.Background(), episodeRequest("Example Show", 1, 2, "English"))
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Language != "English" {
		t.Errorf("Language = %q, want the requested value", results[0].Language)
	}
}

func TestGestdown_SearchEmpty(t *testing.T) {
	tests := []struct {
		name         string
		req          models.SearchRequest
		wantRequests int32
	}{
		{"series not in library", episodeRequest("Unknown", 1, 2, "en"), 0},
		{"series without tvdb id", episodeRequest("No Tvdb", 1, 2, "en"), 0},
		{"no shows for tvdb id", episodeRequest("Unlisted", 1, 2, "en"), 1},
		{"episode without subtitles", episodeRequest("Example Show", 1, 9, "en"), 3},
		{"garbled show listing", episodeRequest("Garbled", 1, 2, "en"), 1},
		{"garbled then failing subtitle pages", episodeRequest("Broken Show", 1, 2, "en"), 3},
		{"movies are not supported", models.SearchRequest{Kind: models.ContentKindMovie, Name: "Example Show", Year: testutil.IntPtr(2020), Language: "en"}, 0},
		{"missing season", models.SearchRequest{Kind: models.ContentKindEpisode, Name: "Example Show", Episode: testutil.IntPtr(2), Language: "en"}, 0},
		{"missing language", episodeRequest("Example Show", 1, 2, ""), 0},
		{"forced", models.SearchRequest{
			Kind: models.ContentKindEpisode, Name: "Example Show", Season: testutil.IntPtr(1), Episode: testutil.IntPtr(2),
			Language: "en", IsForced: testutil.BoolPtr(true),
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, requests := gestdownServer(t)
			g := newTestGestdown(t, srv)

			results := g.Search(context.Background(), tt.req)
			if results == nil || len(results) != 0 {
				t.Errorf("Expected an empty non-nil result, got %#v", results)
			}
			if got := requests.Load(); got != tt.wantRequests {
				t.Errorf("Expected %d source requests, got %d", tt.wantRequests, got)
			}
		})
	}
}

func TestGestdown_SearchSkipsGarbledShow(t *testing.T) {
	srv, requests := gestdownServer(t)
	g := newTestGestdown(t, srv)

	results := g.Search(context.Background(), episodeRequest("Recovering", 1, 2, "en"))
	if len(results) != 1 {
		t.Fatalf("Expected 1 result from the second show, got %d: %+v", len(results), results)
	}
	if results[0].ID != ",subtitles,download,s1:en" {
		t.Errorf("ID = %q", results[0].ID)
	}
	if got := requests.Load(); got != 3 {
		t.Errorf("Expected 3 source requests, got %d", got)
	}
}

func TestGestdown_Retrieve(t *testing.T) {
	srv, _ := gestdownServer(t)
	g := newTestGestdown(t, srv)

	payload, err := g.Retrieve(context.Background(), ",subtitles,download,s1:en")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if payload == nil {
		t.Fatal("Expected a payload")
	}
	if payload.Language != "en" || payload.Format != models.FormatSRT {
		t.Errorf("Unexpected payload: %+v", payload)
	}
	if string(payload.Content) != "1\n00:00:01,000 --> 00:00:02,000\nHello\n" {
		t.Errorf("Content = %q", payload.Content)
	}
}

func TestNewGestdown_RequiresCatalog(t *testing.T) {
	_, err := NewGestdown(config.ProviderConfig{GestdownURL: "https://api.example.com"}, Dependencies{HTTPClient: http.DefaultClient})
	if err == nil {
		t.Fatal("Expected an error without a library catalog")
	}
}
