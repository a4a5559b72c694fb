// Package token issues and verifies the JWT access/refresh pairs used by
// the API. Access tokens are short-lived and stateless; refresh tokens are
// allow-listed in Valkey with automatic TTL expiry so logout can revoke
// them before they expire.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// AccessTTL is the lifetime of an access token.
	AccessTTL = 15 * time.Minute

	// RefreshTTL is the lifetime of a refresh token and its Valkey record.
	RefreshTTL = 7 * 24 * time.Hour

	// keyPrefix namespaces refresh-token keys in Valkey.
	keyPrefix = "refresh:"
)

// ErrInvalidToken covers parse failures, bad signatures, expiry, and
// revoked refresh tokens.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by both token kinds. Refresh tokens only
// populate the user id and the registered claims.
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email,omitempty"`
	Role   string    `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Pair is one issued access/refresh token pair.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Manager signs, verifies, and revokes token pairs.
type Manager struct {
	secret []byte
	valkey *redis.Client
}

// NewManager creates a token manager signing with secret and allow-listing
// refresh tokens in the given Valkey client.
func NewManager(secret string, valkey *redis.Client) *Manager {
	return &Manager{secret: []byte(secret), valkey: valkey}
}

// Issue signs a fresh pair for the user and records the refresh token's id
// in Valkey with the refresh TTL.
func (m *Manager) Issue(ctx context.Context, userID uuid.UUID, email, role string) (*Pair, error) {
	now := time.Now()

	accessClaims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshID := uuid.NewString()
	refreshClaims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        refreshID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTTL)),
		},
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := m.valkey.Set(ctx, keyPrefix+refreshID, userID.String(), RefreshTTL).Err(); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// parse verifies the signature and expiry and returns the claims.
func (m *Manager) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyAccess validates an access token and returns its claims.
func (m *Manager) VerifyAccess(tokenString string) (*Claims, error) {
	return m.parse(tokenString)
}

// VerifyRefresh validates a refresh token against both the signature and
// the Valkey allow-list. A token that was revoked (or never recorded) is
// invalid even when its signature still verifies.
func (m *Manager) VerifyRefresh(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	if err := m.valkey.Get(ctx, keyPrefix+claims.ID).Err(); err == redis.Nil {
		return nil, ErrInvalidToken
	} else if err != nil {
		return nil, fmt.Errorf("check refresh token: %w", err)
	}
	return claims, nil
}

// Revoke removes a refresh token from the allow-list. Revoking an unknown
// token is a no-op, so logout is idempotent.
func (m *Manager) Revoke(ctx context.Context, tokenString string) error {
	claims, err := m.parse(tokenString)
	if err != nil {
		return ErrInvalidToken
	}
	if claims.ID == "" {
		return ErrInvalidToken
	}
	if err := m.valkey.Del(ctx, keyPrefix+claims.ID).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// Rotate revokes the presented refresh token and issues a fresh pair for
// the same user. The caller supplies the current email/role so rotated
// access tokens track profile changes.
func (m *Manager) Rotate(ctx context.Context, refreshToken, email, role string) (*Pair, error) {
	claims, err := m.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if err := m.valkey.Del(ctx, keyPrefix+claims.ID).Err(); err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	return m.Issue(ctx, claims.UserID, email, role)
}
