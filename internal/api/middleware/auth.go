package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/modulith/modulith/internal/api/shared"
	"github.com/modulith/modulith/internal/service/auth"
	"github.com/modulith/modulith/internal/store"
)

// AuthMiddleware provides JWT authentication for routes. Validated claims
// are checked against the revocation denylist, so logged-out tokens stop
// working immediately.
type AuthMiddleware struct {
	tokens     auth.TokenService
	tokenStore store.TokenStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokens auth.TokenService, tokenStore store.TokenStore) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:     tokens,
		tokenStore: tokenStore,
	}
}

// Authenticate validates JWT tokens from the Authorization header and adds
// the claims to the request context for authorized requests. Requests
// without a valid, unrevoked access token are rejected.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, errMsg, status := m.claimsFromRequest(r)
		if claims == nil {
			shared.RespondWithError(w, r, status, errMsg)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// Allow passes the request through regardless of authentication, attaching
// claims to the context when a valid token is present. Used by endpoints
// like logout that are no-ops for unauthenticated callers.
func (m *AuthMiddleware) Allow(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _, _ := m.claimsFromRequest(r)
		if claims != nil {
			r = r.WithContext(withClaims(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

// claimsFromRequest extracts and validates the bearer token. Returns nil
// claims plus an error message and status when authentication fails.
func (m *AuthMiddleware) claimsFromRequest(r *http.Request) (*auth.Claims, string, int) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, "Authorization header required", http.StatusUnauthorized
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != auth.BearerTokenType {
		return nil, "Invalid authorization format", http.StatusUnauthorized
	}

	claims, err := m.tokens.ValidateToken(r.Context(), parts[1])
	if err != nil {
		switch err {
		case auth.ErrExpiredToken:
			return nil, "Token expired", http.StatusUnauthorized
		case auth.ErrInvalidToken, auth.ErrWrongTokenType, auth.ErrTokenNotYetValid:
			return nil, "Invalid token", http.StatusUnauthorized
		default:
			slog.Error("failed to validate token", "error", err)
			return nil, "Authentication error", http.StatusInternalServerError
		}
	}

	if tokenID := claims.TokenID(); tokenID != uuid.Nil {
		revoked, err := m.tokenStore.IsRevoked(r.Context(), tokenID)
		if err != nil {
			slog.Error("failed to check token revocation", "error", err)
			return nil, "Authentication error", http.StatusInternalServerError
		}
		if revoked {
			return nil, "Token revoked", http.StatusUnauthorized
		}
	}

	return claims, "", 0
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, shared.ClaimsContextKey, claims)
}

// GetClaims extracts the authenticated token claims from the request context.
// Returns nil when the request is unauthenticated.
func GetClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(shared.ClaimsContextKey).(*auth.Claims)
	return claims
}
