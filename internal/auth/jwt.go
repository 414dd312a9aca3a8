// Package auth provides session tokens, password hashing, GitHub OAuth, and
// the middleware that ties them to requests.
//
// Two login paths exist: username/password (register + login) and GitHub
// OAuth. Both end the same way — a signed JWT in an HttpOnly cookie carrying
// the internal user ID as its subject.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService signs and validates the JWT access tokens used for sessions.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService creates a TokenService. The secret should be at least 32
// bytes of random data in production (openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), lifetime: 30 * time.Minute}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Generate creates a signed HS256 token whose subject is the user ID.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.generateWithLifetime(userID, s.lifetime)
}

// generateWithLifetime exists so tests can mint already-expired tokens.
func (s *TokenService) generateWithLifetime(userID string, lifetime time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			Issuer:    "online-compiler",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token, returning the user ID it was issued
// for. Expired, malformed, or wrongly-signed tokens all fail here.
func (s *TokenService) Validate(tokenString string) (string, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		// Reject tokens signed with anything but our HMAC method — an
		// attacker could otherwise present an alg:none token.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("auth: parsing token: %w", err)
	}
	if !token.Valid || c.Subject == "" {
		return "", errors.New("auth: invalid token")
	}
	return c.Subject, nil
}
