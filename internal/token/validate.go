package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpired is returned for a structurally valid JWT whose exp claim has
// passed. Callers treat an expired token the same as an absent one.
var ErrExpired = errors.New("token: expired")

// Inspect parses tokenString as a JWT without verifying the signature (the
// client holds no key material) and rejects tokens that are expired or not yet
// valid. It returns the subject claim, the backend's user id.
func Inspect(tokenString string) (subject string, err error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return "", fmt.Errorf("token: parse: %w", err)
	}

	now := time.Now()
	if claims.ExpiresAt != nil && now.After(claims.ExpiresAt.Time) {
		return "", ErrExpired
	}
	if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
		return "", fmt.Errorf("token: not valid before %s", claims.NotBefore.Time)
	}

	return claims.Subject, nil
}
