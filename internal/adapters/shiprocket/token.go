package shiprocket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"delivery-serviceability-service/internal/platform/obs"
	"delivery-serviceability-service/internal/ports"
)

// Lifetime the upstream grants a bearer token on login.
const tokenTTL = 9 * 24 * time.Hour

// LoginFunc performs the upstream login exchange and returns a token.
type LoginFunc func(ctx context.Context) (string, error)

// TokenSession caches the upstream bearer token for its lifetime and
// re-issues it lazily on expiry or after Invalidate. The (token, expiry)
// pair is guarded by one mutex so concurrent readers never observe a torn
// update; holding the lock across the login exchange also collapses
// concurrent refreshes into a single upstream call.
type TokenSession struct {
	login   LoginFunc
	clock   clockwork.Clock
	metrics *obs.Metrics

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewTokenSession(login LoginFunc, clock clockwork.Clock, metrics *obs.Metrics) *TokenSession {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TokenSession{login: login, clock: clock, metrics: metrics}
}

// Acquire returns the cached token while its expiry is strictly in the
// future; otherwise it performs a fresh login exchange. Login failures are
// not retried here.
func (s *TokenSession) Acquire(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.expiry.After(s.clock.Now()) {
		return s.token, nil
	}

	token, err := s.login(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ports.ErrAuthentication, err)
	}
	if token == "" {
		return "", fmt.Errorf("%w: login returned no token", ports.ErrAuthentication)
	}

	s.metrics.CountTokenRefresh()
	s.token = token
	s.expiry = s.clock.Now().Add(tokenTTL)

	return token, nil
}

// Invalidate drops the cached token immediately. Used after the upstream
// signals the credential is no longer accepted.
func (s *TokenSession) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.expiry = time.Time{}
}
