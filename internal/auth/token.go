// Package auth issues and validates the bearer tokens carried by API
// requests, and wraps password hashing.
package auth

import (
	"time"

	"shop-service/internal/errs"
	"shop-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload for an authenticated user.
type Claims struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Generate issues a token for the given actor.
func (tm *TokenManager) Generate(actor models.Actor) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: actor.Username,
		Email:    actor.Email,
		Roles:    actor.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Verify validates a token's signature and expiry and returns the actor it
// carries.
func (tm *TokenManager) Verify(tokenString string) (models.Actor, error) {
	return tm.parse(tokenString, true)
}

// VerifyAllowExpired validates the signature only. Used by token renewal,
// where an expired-but-authentic token may be exchanged for a fresh one.
func (tm *TokenManager) VerifyAllowExpired(tokenString string) (models.Actor, error) {
	return tm.parse(tokenString, false)
}

func (tm *TokenManager) parse(tokenString string, requireFresh bool) (models.Actor, error) {
	var claims Claims

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if !requireFresh {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, opts...)
	if err != nil {
		return models.Actor{}, errs.Unauthorized("Token validation error: %s", err.Error())
	}

	return models.Actor{
		ID:       claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
		Roles:    claims.Roles,
	}, nil
}

// Expired reports whether the token is past its expiry. The signature is
// checked first; a forged token is never merely "expired".
func (tm *TokenManager) Expired(tokenString string) (bool, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return false, errs.Unauthorized("Token validation error: %s", err.Error())
	}
	if claims.ExpiresAt == nil {
		return false, nil
	}
	return time.Now().After(claims.ExpiresAt.Time), nil
}
