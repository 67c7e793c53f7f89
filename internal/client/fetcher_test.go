package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Belphemur/Addic7edSubtitles/internal/apperrors"
	"github.com/Belphemur/Addic7edSubtitles/internal/config"
)

type seasonParams struct {
	Show   string `url:"show"`
	Season int    `url:"season"`
	Langs  string `url:"langs"`
	HD     int    `url:"hd"`
}

func newTestFetcher(t *testing.T, handler http.HandlerFunc) (Fetcher, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	f, err := NewFetcher(server.Client(), server.URL)
	if err != nil {
		t.Fatalf("NewFetcher failed: %v", err)
	}
	return f, server
}

func TestFetcher_GetSendsIdentityHeadersAndParams(t *testing.T) {
	var serverURL string
	f, server := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ajax_loadShow.php" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("show") != "123" || q.Get("season") != "1" || q.Get("hd") != "0" || !q.Has("langs") {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if got := r.Header.Get("Referer"); got != serverURL {
			t.Errorf("Referer = %q, want %q", got, serverURL)
		}
		if got := r.Header.Get("User-Agent"); got != config.GetUserAgent() {
			t.Errorf("User-Agent = %q", got)
		}
		w.Header().Set("Content-Type", "text/html; charset=UTF-8")
		_, _ = w.Write([]byte("<table></table>"))
	})
	serverURL = server.URL

	resp, err := f.Get(context.Background(), "/ajax_loadShow.php", seasonParams{Show: "123", Season: 1})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	if resp.ContentType != "text/html; charset=UTF-8" {
		t.Errorf("ContentType = %q", resp.ContentType)
	}
	if string(resp.Body) != "<table></table>" {
		t.Errorf("Body = %q", resp.Body)
	}
}

func TestFetcher_RelativeAndAbsolutePaths(t *testing.T) {
	var paths []string
	f, server := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
	})

	if _, err := f.Get(context.Background(), "shows/external/tvdb/42", nil); err != nil {
		t.Fatalf("relative Get failed: %v", err)
	}
	if _, err := f.Get(context.Background(), server.URL+"/download/abc", nil); err != nil {
		t.Fatalf("absolute Get failed: %v", err)
	}

	if len(paths) != 2 || paths[0] != "/shows/external/tvdb/42" || paths[1] != "/download/abc" {
		t.Errorf("paths = %v", paths)
	}
}

func TestFetcher_UnexpectedStatus(t *testing.T) {
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := f.Get(context.Background(), "/missing", nil)
	if !errors.Is(err, &apperrors.ErrUnexpectedStatus{}) {
		t.Fatalf("Expected ErrUnexpectedStatus, got %v", err)
	}
	var statusErr *apperrors.ErrUnexpectedStatus
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %+v", statusErr)
	}
}

func TestFetcher_BodyLimit(t *testing.T) {
	previous := maxBodySize
	maxBodySize = 16
	t.Cleanup(func() { maxBodySize = previous })

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"at the limit", "0123456789abcdef", false},
		{"over the limit", "0123456789abcdef!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			resp, err := f.Get(context.Background(), "/download/1", nil)
			if tt.wantErr {
				if !errors.Is(err, &apperrors.ErrBodyTooLarge{}) {
					t.Fatalf("Expected ErrBodyTooLarge, got resp=%v err=%v", resp, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(resp.Body) != tt.body {
				t.Errorf("Body = %q, want %q", resp.Body, tt.body)
			}
		})
	}
}

func TestFetcher_PostForm(t *testing.T) {
	f, _ := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if r.PostForm.Get("username") != "alice" || r.PostForm.Get("password") != "s3cret" {
			t.Errorf("form = %v", r.PostForm)
		}
		_, _ = w.Write([]byte("ok"))
	})

	resp, err := f.PostForm(context.Background(), "/dologin.php", loginForm{Username: "alice", Password: "s3cret"})
	if err != nil {
		t.Fatalf("PostForm failed: %v", err)
	}
	if string(resp.Body) != "ok" {
		t.Errorf("Body = %q", resp.Body)
	}
}

func TestNewFetcher_InvalidBaseURL(t *testing.T) {
	for _, base := range []string{"", "not a url", "://broken"} {
		if _, err := NewFetcher(http.DefaultClient, base); err == nil {
			t.Errorf("NewFetcher(%q) should fail", base)
		}
	}
}
