package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/Belphemur/Addic7edSubtitles/internal/config"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/failsafe-go/failsafe-go/failsafehttp"
	"golang.org/x/net/publicsuffix"
)

// Circuit breaker defaults
const (
	defaultFailureThreshold = 5
	defaultBreakerDelay     = time.Minute
)

// ErrCircuitOpen is returned while the breaker rejects requests to a failing source
var ErrCircuitOpen = circuitbreaker.ErrOpen

// NewHTTPClient builds the HTTP client shared by every request to the subtitle source:
// optional proxy, transparent decompression, a circuit breaker and a cookie jar holding
// the login session.
func NewHTTPClient(cfg *config.Config) *http.Client {
	logger := config.GetLogger()

	// Clone DefaultTransport to preserve its timeouts, pooling and HTTP/2 settings
	base := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			base.Proxy = http.ProxyURL(proxyURL)
		}
	}

	var jar http.CookieJar
	if j, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}); err != nil {
		logger.Warn().Err(err).Msg("Failed to create cookie jar, login sessions will not persist")
	} else {
		jar = j
	}

	return &http.Client{
		Timeout:   config.ParseDuration("client_timeout", cfg.ClientTimeout, 30*time.Second),
		Transport: newBreakerTransport(cfg.Breaker, newDecompressionTransport(base)),
		Jar:       jar,
	}
}

// newBreakerTransport stops calling a source that keeps failing. No retry policy is
// installed: a failed request fails the current search.
func newBreakerTransport(cfg config.BreakerConfig, next http.RoundTripper) http.RoundTripper {
	logger := config.GetLogger()

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = defaultFailureThreshold
	}
	delay := config.ParseDuration("breaker.delay", cfg.Delay, defaultBreakerDelay)

	breaker := circuitbreaker.NewBuilder[*http.Response]().
		HandleIf(isSourceFailure).
		WithFailureThreshold(threshold).
		WithDelay(delay).
		OnOpen(func(circuitbreaker.StateChangedEvent) {
			logger.Warn().Uint("failure_threshold", threshold).Dur("delay", delay).Msg("Subtitle source circuit breaker opened")
		}).
		OnClose(func(circuitbreaker.StateChangedEvent) {
			logger.Info().Msg("Subtitle source circuit breaker closed")
		}).
		Build()

	return failsafehttp.NewRoundTripper(next, breaker)
}

// isSourceFailure counts transport errors and 5xx answers. Cancellations are the
// caller's doing and do not count.
func isSourceFailure(resp *http.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled)
	}
	return resp != nil && resp.StatusCode >= http.StatusInternalServerError
}
