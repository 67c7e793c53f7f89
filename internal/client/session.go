package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Belphemur/Addic7edSubtitles/internal/config"
	"github.com/Belphemur/Addic7edSubtitles/internal/metrics"

	"golang.org/x/sync/semaphore"
)

// DefaultLoginCooldown is the minimum delay between two login attempts
const DefaultLoginCooldown = 60 * time.Second

const loginPath = "/dologin.php"

// Login outcome label values
const (
	loginSkipped  = "skipped"
	loginSuccess  = "success"
	loginRejected = "rejected"
	loginError    = "error"
)

// Phrases the login page answers with when the credentials are refused
var loginFailurePhrases = []string{
	"user doesn't exist",
	"wrong password",
}

// CredentialSource yields the plaintext login credentials at the point of use.
// An empty username or password means no credentials are configured.
type CredentialSource interface {
	Credentials(ctx context.Context) (username, password string, err error)
}

type loginForm struct {
	Username string `url:"username"`
	Password string `url:"password"`
	Remember string `url:"remember"`
}

// Session keeps an optional, best effort login alive on the scraped site.
// The last login time is the only state shared between concurrent searches. The
// whole check, login and stamp sequence runs under gate, which waiters acquire with
// their own context so they can give up while another caller is logging in.
type Session struct {
	gate      *semaphore.Weighted
	mu        sync.Mutex
	lastLogin time.Time

	fetcher     Fetcher
	credentials CredentialSource
	cooldown    time.Duration
	now         func() time.Time
}

// NewSession creates a session logging in through fetcher. A non positive cooldown
// uses DefaultLoginCooldown.
func NewSession(fetcher Fetcher, credentials CredentialSource, cooldown time.Duration) *Session {
	if cooldown <= 0 {
		cooldown = DefaultLoginCooldown
	}
	return &Session{
		gate:        semaphore.NewWeighted(1),
		fetcher:     fetcher,
		credentials: credentials,
		cooldown:    cooldown,
		now:         time.Now,
	}
}

// Ensure logs in when the cooldown has elapsed. Failures are logged and never block
// the caller: the site is usable without a session.
func (s *Session) Ensure(ctx context.Context) {
	logger := config.GetLogger()
	if err := s.gate.Acquire(ctx, 1); err != nil {
		logger.Debug().Err(err).Msg("Gave up waiting for login")
		return
	}
	defer s.gate.Release(1)

	if last := s.LastLogin(); !last.IsZero() && s.now().Sub(last) < s.cooldown {
		return
	}
	if ctx.Err() != nil {
		return
	}

	username, password, err := s.credentials.Credentials(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read login credentials, continuing without session")
		metrics.LoginsTotal.WithLabelValues(loginSkipped).Inc()
		return
	}
	if username == "" || password == "" {
		logger.Debug().Msg("No login credentials configured, continuing without session")
		metrics.LoginsTotal.WithLabelValues(loginSkipped).Inc()
		return
	}

	resp, err := s.fetcher.PostForm(ctx, loginPath, loginForm{Username: username, Password: password, Remember: "true"})
	if ctx.Err() != nil {
		logger.Debug().Msg("Login cancelled")
		return
	}
	s.mu.Lock()
	s.lastLogin = s.now()
	s.mu.Unlock()

	if err != nil {
		logger.Warn().Err(err).Str("username", username).Msg("Login request failed")
		metrics.LoginsTotal.WithLabelValues(loginError).Inc()
		return
	}

	body := strings.ToLower(string(resp.Body))
	for _, phrase := range loginFailurePhrases {
		if strings.Contains(body, phrase) {
			logger.Warn().Str("username", username).Str("reason", phrase).Msg("Login rejected")
			metrics.LoginsTotal.WithLabelValues(loginRejected).Inc()
			return
		}
	}

	logger.Info().Str("username", username).Msg("Logged in")
	metrics.LoginsTotal.WithLabelValues(loginSuccess).Inc()
}

// LastLogin returns the time of the last login attempt, zero when none was made
func (s *Session) LastLogin() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLogin
}

type sessionFetcher struct {
	Fetcher
	session *Session
}

// WithSession returns a fetcher that refreshes session before every GET
func WithSession(f Fetcher, session *Session) Fetcher {
	return &sessionFetcher{Fetcher: f, session: session}
}

func (f *sessionFetcher) Get(ctx context.Context, path string, params any) (*Response, error) {
	f.session.Ensure(ctx)
	return f.Fetcher.Get(ctx, path, params)
}
