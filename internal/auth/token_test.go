package auth_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/feedback/internal/auth"
	"github.com/garnizeh/feedback/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestTokenService_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: issuedAt}
	svc := auth.NewTokenService("secret", 24*time.Hour, auth.WithClock(clock.Now))

	token, expires, err := svc.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !expires.Equal(issuedAt.Add(24 * time.Hour)) {
		t.Fatalf("unexpected expiry %v", expires)
	}

	clock.t = issuedAt.Add(23*time.Hour + 59*time.Minute)
	id, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("token should be valid at T+23h59m: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected user id 42, got %d", id)
	}

	clock.t = issuedAt.Add(24*time.Hour + time.Minute)
	if _, err := svc.Validate(token); !errors.Is(err, models.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired at T+24h01m, got %v", err)
	}
}

func TestTokenService_DefaultTTL(t *testing.T) {
	issuedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := auth.NewTokenService("secret", 0, auth.WithClock(func() time.Time { return issuedAt }))
	_, expires, err := svc.Issue(1)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if expires.Sub(issuedAt) != auth.DefaultTokenTTL {
		t.Fatalf("expected default ttl, got %v", expires.Sub(issuedAt))
	}
}

func TestTokenService_ValidateFailures(t *testing.T) {
	svc := auth.NewTokenService("secret", time.Hour)
	other := auth.NewTokenService("other-secret", time.Hour)

	foreign, _, err := other.Issue(7)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "7",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "Missing", token: "", want: models.ErrTokenMissing},
		{name: "Garbage", token: "not-a-token", want: models.ErrTokenMalformed},
		{name: "BadSegments", token: "bad.token.here", want: models.ErrTokenMalformed},
		{name: "ForeignSignature", token: foreign, want: models.ErrTokenInvalid},
		{name: "WrongAlgorithm", token: wrongAlg, want: models.ErrTokenInvalid},
		{name: "NoSubject", token: noSubject, want: models.ErrTokenMalformed},
		{name: "NoExpiry", token: noExpiry, want: models.ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v got %v", tt.want, err)
			}
			if !errors.Is(err, models.ErrAuth) {
				t.Fatalf("%v should match ErrAuth", err)
			}
		})
	}
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		header string
		token  string
		want   error
	}{
		{header: "", want: models.ErrTokenMissing},
		{header: "   ", want: models.ErrTokenMissing},
		{header: "Bearer", want: models.ErrTokenMalformed},
		{header: "Bearer ", want: models.ErrTokenMalformed},
		{header: "Basic abc", want: models.ErrTokenMalformed},
		{header: "Bearer a b", want: models.ErrTokenMalformed},
		{header: "Bearer abc.def.ghi", token: "abc.def.ghi"},
		{header: "bearer abc", token: "abc"},
	}

	for _, tt := range tests {
		t.Run(strings.ReplaceAll(tt.header, " ", "_"), func(t *testing.T) {
			got, err := auth.ParseBearer(tt.header)
			if tt.want != nil {
				if !errors.Is(err, tt.want) {
					t.Fatalf("want %v got %v", tt.want, err)
				}
				return
			}
			if err != nil || got != tt.token {
				t.Fatalf("want token %q got %q (err=%v)", tt.token, got, err)
			}
		})
	}
}
