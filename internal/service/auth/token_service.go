package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Token type labels embedded in claims to prevent cross-context misuse.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// BearerTokenType is the token type label returned to clients alongside
// issued tokens.
const BearerTokenType = "Bearer"

// TokenService defines operations for issuing and validating the JWT
// access/refresh token pair. Tokens identify users by their public
// identifier, never by internal numeric id.
type TokenService interface {
	// GenerateToken creates a signed JWT access token for the user.
	GenerateToken(ctx context.Context, userPublicID uuid.UUID) (string, error)

	// ValidateToken validates an access token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid, ErrWrongTokenType or
	// ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed JWT refresh token for the user.
	// Refresh tokens have a longer lifetime and are exchanged for new pairs.
	// When remember is true the token gets the extended remember lifetime
	// and carries the flag in its claims so rotation preserves it.
	GenerateRefreshToken(ctx context.Context, userPublicID uuid.UUID, remember bool) (string, error)

	// ValidateRefreshToken validates a refresh token string and extracts the
	// claims.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated content of a token.
type Claims struct {
	// UserPublicID is the public identifier of the user the token was issued for.
	UserPublicID uuid.UUID `json:"uid,omitempty"`

	// TokenType indicates the purpose of the token ("access" or "refresh").
	TokenType string `json:"type,omitempty"`

	// Remember marks a refresh token issued with the extended remember
	// lifetime. Rotation reads it to issue the replacement with the same
	// lifetime.
	Remember bool `json:"rmb,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// TokenID returns the token's unique ID (jti) as a UUID, or uuid.Nil when
// the claim is absent or malformed.
func (c *Claims) TokenID() uuid.UUID {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return uuid.Nil
	}
	return id
}
