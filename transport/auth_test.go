package transport_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/HananelSabag/SpendWise-sub004/transport"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return s
}

func TestTokenSource_FreshTokenNotRefreshed(t *testing.T) {
	initial := signedToken(t, time.Now().Add(time.Hour))
	refreshed := false
	src := transport.NewTokenSource(initial, func(ctx context.Context) (string, error) {
		refreshed = true
		return "", nil
	}, zap.NewNop())

	got, err := src.Token(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != initial {
		t.Error("expected the initial token")
	}
	if refreshed {
		t.Error("fresh token must not trigger a refresh")
	}
}

func TestTokenSource_NearExpiryRefreshes(t *testing.T) {
	initial := signedToken(t, time.Now().Add(10*time.Second))
	fresh := signedToken(t, time.Now().Add(time.Hour))
	src := transport.NewTokenSource(initial, func(ctx context.Context) (string, error) {
		return fresh, nil
	}, zap.NewNop())

	got, err := src.Token(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != fresh {
		t.Error("expected the refreshed token")
	}

	// Subsequent calls keep the fresh token without refreshing again.
	got, _ = src.Token(context.Background())
	if got != fresh {
		t.Error("expected the cached fresh token")
	}
}

func TestTokenSource_OpaqueTokenPassesThrough(t *testing.T) {
	src := transport.NewTokenSource("opaque-api-key", func(ctx context.Context) (string, error) {
		t.Fatal("opaque tokens have no expiry and must not refresh")
		return "", nil
	}, zap.NewNop())

	got, err := src.Token(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "opaque-api-key" {
		t.Errorf("unexpected token %q", got)
	}
}
