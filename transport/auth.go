package transport

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// refreshLeeway is how long before expiry a token is refreshed, so
// in-flight requests never carry an about-to-expire token.
const refreshLeeway = 60 * time.Second

// RefreshFunc obtains a replacement access token when the current one
// nears expiry.
type RefreshFunc func(ctx context.Context) (string, error)

// TokenSource hands out the current access token and refreshes it
// proactively. The token is inspected without signature verification;
// the backend remains the authority on validity.
type TokenSource struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	refresh   RefreshFunc
	logger    *zap.Logger
}

// NewTokenSource wraps an initial token. refresh may be nil, in which
// case the token is used as-is until it expires.
func NewTokenSource(token string, refresh RefreshFunc, logger *zap.Logger) *TokenSource {
	s := &TokenSource{refresh: refresh, logger: logger}
	s.set(token)
	return s
}

// Token returns a usable access token, refreshing first when the
// current one is within the expiry leeway.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refresh != nil && !s.expiresAt.IsZero() && time.Until(s.expiresAt) < refreshLeeway {
		fresh, err := s.refresh(ctx)
		if err != nil {
			s.logger.Warn("token refresh failed", zap.Error(err))
			return s.token, nil // let the backend decide if the old one still works
		}
		s.set(fresh)
		s.logger.Debug("access token refreshed", zap.Time("expires_at", s.expiresAt))
	}
	return s.token, nil
}

// SetToken replaces the current token, e.g. after an external login.
func (s *TokenSource) SetToken(token string) {
	s.mu.Lock()
	s.set(token)
	s.mu.Unlock()
}

func (s *TokenSource) set(token string) {
	s.token = token
	s.expiresAt = time.Time{}
	if exp, ok := tokenExpiry(token); ok {
		s.expiresAt = exp
	}
}

// tokenExpiry extracts the exp claim from a JWT without verifying the
// signature. Opaque tokens report no expiry.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
