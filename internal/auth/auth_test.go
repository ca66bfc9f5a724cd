package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testConfig = Config{Secret: "test-secret", Issuer: "drgym.identity"}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestParseValidToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signToken(t, testConfig.Secret, jwt.MapClaims{
		"sub": "alice",
		"iss": testConfig.Issuer,
		"exp": exp.Unix(),
	})

	claims, err := Parse(raw, testConfig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("expected subject alice got %s", claims.Subject)
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Fatalf("expected expiry %v got %v", exp, claims.ExpiresAt)
	}
}

func TestParseMissingToken(t *testing.T) {
	if _, err := Parse("   ", testConfig); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken got %v", err)
	}
}

func TestParseWrongSecret(t *testing.T) {
	raw := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "alice",
		"iss": testConfig.Issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := Parse(raw, testConfig); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken got %v", err)
	}
}

func TestParseWrongIssuer(t *testing.T) {
	raw := signToken(t, testConfig.Secret, jwt.MapClaims{
		"sub": "alice",
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := Parse(raw, testConfig); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken got %v", err)
	}
}

func TestParseExpiredToken(t *testing.T) {
	raw := signToken(t, testConfig.Secret, jwt.MapClaims{
		"sub": "alice",
		"iss": testConfig.Issuer,
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	if _, err := Parse(raw, testConfig); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken got %v", err)
	}
}

func TestParseMissingSubject(t *testing.T) {
	raw := signToken(t, testConfig.Secret, jwt.MapClaims{
		"iss": testConfig.Issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := Parse(raw, testConfig); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken got %v", err)
	}
}

func TestParseGarbage(t *testing.T) {
	if _, err := Parse("not-a-jwt", testConfig); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken got %v", err)
	}
}

func TestClaimsExpired(t *testing.T) {
	now := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

	var nilClaims *Claims
	if !nilClaims.Expired(now) {
		t.Fatal("nil claims must report expired")
	}

	live := &Claims{Subject: "alice", ExpiresAt: now.Add(time.Minute)}
	if live.Expired(now) {
		t.Fatal("claims expiring in the future must not report expired")
	}

	stale := &Claims{Subject: "alice", ExpiresAt: now.Add(-time.Minute)}
	if !stale.Expired(now) {
		t.Fatal("claims expiring in the past must report expired")
	}
}
