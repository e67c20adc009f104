package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/clockedin/clockedin/internal/instrumentation"
)

// DefaultSweepInterval is how often expired credentials are removed.
const DefaultSweepInterval = time.Hour

// CacheInvalidator receives a cascade invalidation whenever a credential
// is removed from the store.
type CacheInvalidator interface {
	Invalidate(principalID string)
}

// credential pairs a Google OAuth token with the time it was stored.
type credential struct {
	token    *oauth2.Token
	issuedAt time.Time
}

// TokenStore keeps per-principal OAuth credentials in process memory.
// A background sweep removes credentials whose provider-reported expiry
// has passed and invalidates the stats cache for each removed principal,
// keeping the cache invariant: every cached summary belongs to a live
// credential.
type TokenStore struct {
	mu          sync.RWMutex
	credentials map[string]credential
	invalidator CacheInvalidator
	sweepTicker *time.Ticker
	sweepDone   chan bool
	logger      *slog.Logger
	metrics     *instrumentation.Metrics
	now         func() time.Time
}

// NewTokenStore creates a token store and starts its background sweep.
// The invalidator may be nil when no cache cascade is wanted.
func NewTokenStore(sweepInterval time.Duration, invalidator CacheInvalidator, logger *slog.Logger) *TokenStore {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &TokenStore{
		credentials: make(map[string]credential),
		invalidator: invalidator,
		sweepTicker: time.NewTicker(sweepInterval),
		sweepDone:   make(chan bool),
		logger:      logger,
		metrics:     &instrumentation.Metrics{},
		now:         time.Now,
	}

	go s.sweepLoop()

	return s
}

// SetMetrics installs a metrics recorder for sweep observations.
func (s *TokenStore) SetMetrics(m *instrumentation.Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// Put stores the credential for the principal, replacing any previous one.
func (s *TokenStore) Put(principalID string, token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[principalID] = credential{
		token:    token,
		issuedAt: s.now(),
	}
}

// Get returns the principal's credential if one is stored.
func (s *TokenStore) Get(principalID string) (*oauth2.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.credentials[principalID]
	if !ok {
		return nil, false
	}
	return cred.token, true
}

// Remove deletes the principal's credential and cascades a cache
// invalidation.
func (s *TokenStore) Remove(principalID string) {
	s.mu.Lock()
	_, existed := s.credentials[principalID]
	delete(s.credentials, principalID)
	s.mu.Unlock()
	if !existed {
		return
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(principalID)
	}
	s.metrics.DecrementActivePrincipals(context.Background())
}

// Len returns the number of stored credentials.
func (s *TokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.credentials)
}

// sweepLoop runs until Stop is called. The sweep itself touches only
// in-memory maps, so it can never block on I/O.
func (s *TokenStore) sweepLoop() {
	for {
		select {
		case <-s.sweepTicker.C:
			if removed := s.sweepExpired(); removed > 0 {
				s.metrics.RecordTokenSweep(context.Background(), removed)
				s.logger.Info("removed expired credentials", "count", removed)
			}
		case <-s.sweepDone:
			return
		}
	}
}

// sweepExpired removes every credential whose expiry is in the past and
// invalidates its cache entry. Each principal is handled independently,
// so one removal can never block the others. Tokens without a reported
// expiry are left alone. Returns the number of credentials removed.
func (s *TokenStore) sweepExpired() int {
	now := s.now()

	s.mu.Lock()
	var expired []string
	for id, cred := range s.credentials {
		if cred.token == nil {
			expired = append(expired, id)
			continue
		}
		if !cred.token.Expiry.IsZero() && cred.token.Expiry.Before(now) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(s.credentials, id)
	}
	s.mu.Unlock()

	if s.invalidator != nil {
		for _, id := range expired {
			s.invalidator.Invalidate(id)
		}
	}
	for range expired {
		s.metrics.DecrementActivePrincipals(context.Background())
	}

	return len(expired)
}

// Stop halts the background sweep goroutine.
func (s *TokenStore) Stop() {
	if s.sweepTicker != nil {
		s.sweepTicker.Stop()
	}
	if s.sweepDone != nil {
		close(s.sweepDone)
	}
}
