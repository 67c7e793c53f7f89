package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Belphemur/Addic7edSubtitles/internal/apperrors"
	"github.com/Belphemur/Addic7edSubtitles/internal/config"

	"github.com/google/go-querystring/query"
)

// maxBodySize caps how much of a response is buffered in memory. Larger bodies fail.
var maxBodySize int64 = 32 << 20

// Response is a fully buffered 200 response of the subtitle source
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher performs requests against one subtitle source. Paths are resolved against the
// source base URL, absolute URLs are used as is. params and form are structs encoded
// with go-querystring `url` tags, nil sends nothing.
type Fetcher interface {
	Get(ctx context.Context, path string, params any) (*Response, error)
	PostForm(ctx context.Context, path string, form any) (*Response, error)
	BaseURL() string
}

type fetcher struct {
	httpClient *http.Client
	baseURL    *url.URL
}

// NewFetcher creates a fetcher for the source at baseURL
func NewFetcher(httpClient *http.Client, baseURL string) (Fetcher, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}
	return &fetcher{httpClient: httpClient, baseURL: base}, nil
}

func (f *fetcher) BaseURL() string {
	return f.baseURL.String()
}

func (f *fetcher) Get(ctx context.Context, path string, params any) (*Response, error) {
	target, err := f.resolve(path, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return f.do(req)
}

func (f *fetcher) PostForm(ctx context.Context, path string, form any) (*Response, error) {
	target, err := f.resolve(path, nil)
	if err != nil {
		return nil, err
	}

	values, err := encodeValues(form)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(req)
}

func (f *fetcher) do(req *http.Request) (*Response, error) {
	logger := config.GetLogger()

	req.Header.Set("User-Agent", config.GetUserAgent())
	req.Header.Set("Referer", f.baseURL.String())

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Debug().Str("url", req.URL.String()).Int("status", resp.StatusCode).Msg("Unexpected status from subtitle source")
		return nil, &apperrors.ErrUnexpectedStatus{URL: req.URL.String(), StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > maxBodySize {
		logger.Warn().Str("url", req.URL.String()).Int64("limit", maxBodySize).Msg("Response body too large")
		return nil, &apperrors.ErrBodyTooLarge{URL: req.URL.String(), Limit: maxBodySize}
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func (f *fetcher) resolve(path string, params any) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	target := f.baseURL.ResolveReference(ref)

	values, err := encodeValues(params)
	if err != nil {
		return "", err
	}
	if len(values) > 0 {
		q := target.Query()
		for key, vs := range values {
			for _, v := range vs {
				q.Add(key, v)
			}
		}
		target.RawQuery = q.Encode()
	}
	return target.String(), nil
}

func encodeValues(v any) (url.Values, error) {
	if v == nil {
		return url.Values{}, nil
	}
	values, err := query.Values(v)
	if err != nil {
		return nil, fmt.Errorf("encode parameters: %w", err)
	}
	return values, nil
}
