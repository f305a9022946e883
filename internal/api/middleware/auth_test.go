package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modulith/modulith/internal/service/auth"
	"github.com/modulith/modulith/internal/store"
)

type stubTokenService struct {
	claims *auth.Claims
	err    error
}

var _ auth.TokenService = (*stubTokenService)(nil)

func (s *stubTokenService) GenerateToken(context.Context, uuid.UUID) (string, error) {
	return "", nil
}

func (s *stubTokenService) ValidateToken(context.Context, string) (*auth.Claims, error) {
	return s.claims, s.err
}

func (s *stubTokenService) GenerateRefreshToken(context.Context, uuid.UUID, bool) (string, error) {
	return "", nil
}

func (s *stubTokenService) ValidateRefreshToken(context.Context, string) (*auth.Claims, error) {
	return s.claims, s.err
}

type stubTokenStore struct {
	revoked bool
	err     error
}

var _ store.TokenStore = (*stubTokenStore)(nil)

func (s *stubTokenStore) Revoke(context.Context, uuid.UUID, int64, time.Time) error { return nil }

func (s *stubTokenStore) IsRevoked(context.Context, uuid.UUID) (bool, error) {
	return s.revoked, s.err
}

func (s *stubTokenStore) DeleteExpired(context.Context, time.Time) (int64, error) { return 0, nil }

func (s *stubTokenStore) WithTx(*sql.Tx) store.TokenStore { return s }

func validClaims() *auth.Claims {
	userID := uuid.New()
	return &auth.Claims{
		UserPublicID: userID,
		TokenType:    auth.TokenTypeAccess,
		Subject:      userID.String(),
		IssuedAt:     time.Now().Add(-time.Minute),
		ExpiresAt:    time.Now().Add(time.Hour),
		ID:           uuid.New().String(),
	}
}

// capturingHandler records whether it ran and the claims it saw.
type capturingHandler struct {
	called bool
	claims *auth.Claims
}

func (h *capturingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.claims = GetClaims(r)
	w.WriteHeader(http.StatusOK)
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	t.Parallel()

	claims := validClaims()
	m := NewAuthMiddleware(&stubTokenService{claims: claims}, &stubTokenStore{})

	next := &capturingHandler{}
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	m.Authenticate(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, next.called)
	assert.Same(t, claims, next.claims)
}

func TestAuthenticateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		header     string
		tokens     *stubTokenService
		tokenStore *stubTokenStore
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing header",
			header:     "",
			tokens:     &stubTokenService{claims: validClaims()},
			tokenStore: &stubTokenStore{},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Authorization header required",
		},
		{
			name:       "not a bearer token",
			header:     "Basic dXNlcjpwYXNz",
			tokens:     &stubTokenService{claims: validClaims()},
			tokenStore: &stubTokenStore{},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid authorization format",
		},
		{
			name:       "expired token",
			header:     "Bearer expired-token",
			tokens:     &stubTokenService{err: auth.ErrExpiredToken},
			tokenStore: &stubTokenStore{},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Token expired",
		},
		{
			name:       "invalid token",
			header:     "Bearer garbage",
			tokens:     &stubTokenService{err: auth.ErrInvalidToken},
			tokenStore: &stubTokenStore{},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid token",
		},
		{
			name:       "refresh token on an access route",
			header:     "Bearer refresh-token",
			tokens:     &stubTokenService{err: auth.ErrWrongTokenType},
			tokenStore: &stubTokenStore{},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid token",
		},
		{
			name:       "revoked token",
			header:     "Bearer revoked-token",
			tokens:     &stubTokenService{claims: validClaims()},
			tokenStore: &stubTokenStore{revoked: true},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Token revoked",
		},
		{
			name:       "revocation check failure",
			header:     "Bearer some-token",
			tokens:     &stubTokenService{claims: validClaims()},
			tokenStore: &stubTokenStore{err: assert.AnError},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Authentication error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := NewAuthMiddleware(tc.tokens, tc.tokenStore)
			next := &capturingHandler{}

			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			m.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.False(t, next.called, "rejected requests must not reach the handler")
			assert.Contains(t, rec.Body.String(), tc.wantError)
		})
	}
}

func TestAllowPassesThroughWithoutToken(t *testing.T) {
	t.Parallel()

	m := NewAuthMiddleware(&stubTokenService{err: auth.ErrInvalidToken}, &stubTokenStore{})
	next := &capturingHandler{}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()

	m.Allow(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, next.called)
	assert.Nil(t, next.claims)
}

func TestAllowAttachesClaimsWhenPresent(t *testing.T) {
	t.Parallel()

	claims := validClaims()
	m := NewAuthMiddleware(&stubTokenService{claims: claims}, &stubTokenStore{})
	next := &capturingHandler{}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	m.Allow(next).ServeHTTP(rec, req)

	require.True(t, next.called)
	assert.Same(t, claims, next.claims)
}

func TestGetClaimsWithoutMiddleware(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetClaims(req))
}
