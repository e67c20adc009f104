package server

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"

	"github.com/clockedin/clockedin/internal/instrumentation"
	"github.com/clockedin/clockedin/internal/meetings"
)

// Config holds the configuration for the HTTP backend.
type Config struct {
	// OAuth is the Google OAuth2 client configuration.
	OAuth *oauth2.Config

	// JWTSecret signs and verifies the session tokens handed to the
	// dashboard.
	JWTSecret []byte

	// FrontendURL is the base URL of the dashboard the callback
	// redirects back to.
	FrontendURL string

	// AllowedOrigins are the origins permitted to make credentialed
	// cross-origin requests. Defaults to the frontend URL.
	AllowedOrigins []string

	// StatsYear is the calendar year to aggregate. Zero means the
	// current year at request time.
	StatsYear int

	// StatsTTL is the freshness window for cached summaries.
	StatsTTL time.Duration

	// SweepInterval is how often expired credentials are removed.
	SweepInterval time.Duration

	// Logger receives structured logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// EventLister fetches a principal's calendar events for one year.
// The calendar package provides the production implementation; tests
// substitute fakes.
type EventLister interface {
	ListYearEvents(ctx context.Context, year int, now time.Time) ([]meetings.EventRecord, error)
}

// ListerFactory builds an EventLister from a stored credential.
type ListerFactory func(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (EventLister, error)

// ServerContext owns the shared per-process state of the backend: the
// token store, the stats cache, and the factory producing calendar
// event sources. All state is in process memory; a restart signs
// everyone out.
type ServerContext struct {
	config        Config
	tokens        *TokenStore
	statsCache    *StatsCache
	listerFactory ListerFactory
	metrics       *instrumentation.Metrics
	logger        *slog.Logger
	shutdown      atomic.Bool
}

// NewServerContext creates the shared server state and starts the token
// store's background sweep.
func NewServerContext(config Config, factory ListerFactory) *ServerContext {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	statsCache := NewStatsCache(config.StatsTTL)
	tokens := NewTokenStore(config.SweepInterval, statsCache, logger)

	return &ServerContext{
		config:        config,
		tokens:        tokens,
		statsCache:    statsCache,
		listerFactory: factory,
		metrics:       &instrumentation.Metrics{},
		logger:        logger,
	}
}

// SetMetrics installs a metrics recorder. Without one, a no-op recorder
// is used.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	if m != nil {
		sc.metrics = m
		sc.tokens.SetMetrics(m)
	}
}

// Tokens returns the credential store.
func (sc *ServerContext) Tokens() *TokenStore {
	return sc.tokens
}

// StatsCache returns the per-principal summary cache.
func (sc *ServerContext) StatsCache() *StatsCache {
	return sc.statsCache
}

// Logger returns the context's logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// IsShutdown reports whether Shutdown has been called.
func (sc *ServerContext) IsShutdown() bool {
	return sc.shutdown.Load()
}

// Shutdown stops the background sweep and marks the context as
// shutting down. Safe to call more than once.
func (sc *ServerContext) Shutdown() {
	if sc.shutdown.Swap(true) {
		return
	}
	sc.tokens.Stop()
}

// statsYear resolves the configured aggregation year, falling back to
// the year of now.
func (sc *ServerContext) statsYear(now time.Time) int {
	if sc.config.StatsYear != 0 {
		return sc.config.StatsYear
	}
	return now.Year()
}
