// Package auth verifies bearer credentials and gates resource access.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config holds signer verification parameters loaded once at startup.
type Config struct {
	Secret string
	Issuer string
}

// Claims represents the identity asserted by a verified credential.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// ErrMissingToken is returned when no credential is presented.
var ErrMissingToken = errors.New("missing bearer token")

// ErrInvalidToken wraps every decoding or signature failure. Callers get no
// further sub-classification.
var ErrInvalidToken = errors.New("invalid bearer token")

// ErrExpiredToken is returned when the credential's expiry is in the past.
var ErrExpiredToken = errors.New("expired bearer token")

// Parse validates a JWT and returns normalized claims. It is a pure function
// of the token, the config and the current time; malformed input never panics.
func Parse(token string, cfg Config) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return nil, ErrInvalidToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}

	return &Claims{
		Subject:   subject,
		ExpiresAt: exp.Time,
	}, nil
}

// Expired reports whether the claim set has passed its expiry.
func (c *Claims) Expired(now time.Time) bool {
	if c == nil {
		return true
	}
	return !c.ExpiresAt.After(now)
}
