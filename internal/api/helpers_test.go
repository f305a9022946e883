package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/modulith/modulith/internal/audit"
	"github.com/modulith/modulith/internal/domain"
	"github.com/modulith/modulith/internal/pipeline"
	"github.com/modulith/modulith/internal/service"
	"github.com/modulith/modulith/internal/service/auth"
	"github.com/modulith/modulith/internal/store"
)

// fakeRunner lets handler tests run the full pipeline without a database.
type fakeRunner struct{}

func (fakeRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

func newTestExecutor() *pipeline.Executor {
	return pipeline.NewExecutor(fakeRunner{}, nil, false)
}

// stubUserStore backs handler tests with a tiny in-memory user set.
type stubUserStore struct {
	byEmail    map[string]*domain.User
	byPublicID map[uuid.UUID]*domain.User
	createErr  error
	created    []*domain.User
}

var _ store.UserStore = (*stubUserStore)(nil)

func newStubUserStore(users ...*domain.User) *stubUserStore {
	s := &stubUserStore{
		byEmail:    make(map[string]*domain.User),
		byPublicID: make(map[uuid.UUID]*domain.User),
	}
	for _, u := range users {
		s.byEmail[u.Email] = u
		s.byPublicID[u.PublicID] = u
	}
	return s
}

func (s *stubUserStore) Create(_ context.Context, user *domain.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	user.ID = int64(len(s.created) + 1)
	s.created = append(s.created, user)
	s.byEmail[user.Email] = user
	s.byPublicID[user.PublicID] = user
	return nil
}

func (s *stubUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *stubUserStore) GetByPublicID(_ context.Context, publicID uuid.UUID) (*domain.User, error) {
	if u, ok := s.byPublicID[publicID]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

func (s *stubUserStore) List(_ context.Context, _ store.ListUsersParams) ([]domain.User, int64, error) {
	out := make([]domain.User, 0, len(s.byPublicID))
	for _, u := range s.byPublicID {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (s *stubUserStore) Update(_ context.Context, _ *domain.User) error { return nil }

func (s *stubUserStore) FindIDByPublicID(_ context.Context, publicID uuid.UUID) (int64, error) {
	if u, ok := s.byPublicID[publicID]; ok {
		return u.ID, nil
	}
	return 0, store.ErrUserNotFound
}

func (s *stubUserStore) FindPublicIDByID(_ context.Context, id int64) (uuid.UUID, error) {
	for _, u := range s.byPublicID {
		if u.ID == id {
			return u.PublicID, nil
		}
	}
	return uuid.Nil, store.ErrUserNotFound
}

func (s *stubUserStore) WithTx(_ *sql.Tx) store.UserStore { return s }

// stubTokenStore records revocations in memory.
type stubTokenStore struct {
	revoked map[uuid.UUID]bool
}

var _ store.TokenStore = (*stubTokenStore)(nil)

func newStubTokenStore() *stubTokenStore {
	return &stubTokenStore{revoked: make(map[uuid.UUID]bool)}
}

func (s *stubTokenStore) Revoke(_ context.Context, tokenID uuid.UUID, _ int64, _ time.Time) error {
	s.revoked[tokenID] = true
	return nil
}

func (s *stubTokenStore) IsRevoked(_ context.Context, tokenID uuid.UUID) (bool, error) {
	return s.revoked[tokenID], nil
}

func (s *stubTokenStore) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (s *stubTokenStore) WithTx(_ *sql.Tx) store.TokenStore { return s }

// stubTokenService issues fixed token strings and validates by map lookup.
type stubTokenService struct {
	claimsFor map[string]*auth.Claims
}

var _ auth.TokenService = (*stubTokenService)(nil)

func newStubTokenService() *stubTokenService {
	return &stubTokenService{claimsFor: make(map[string]*auth.Claims)}
}

func (s *stubTokenService) GenerateToken(_ context.Context, _ uuid.UUID) (string, error) {
	return "stub-access-token", nil
}

func (s *stubTokenService) ValidateToken(_ context.Context, tokenString string) (*auth.Claims, error) {
	if c, ok := s.claimsFor[tokenString]; ok && c.TokenType == auth.TokenTypeAccess {
		return c, nil
	}
	return nil, auth.ErrInvalidToken
}

func (s *stubTokenService) GenerateRefreshToken(_ context.Context, _ uuid.UUID, _ bool) (string, error) {
	return "stub-refresh-token", nil
}

func (s *stubTokenService) ValidateRefreshToken(_ context.Context, tokenString string) (*auth.Claims, error) {
	if c, ok := s.claimsFor[tokenString]; ok && c.TokenType == auth.TokenTypeRefresh {
		return c, nil
	}
	return nil, auth.ErrInvalidToken
}

// stubVerifier accepts one password and hashes with a marker prefix.
type stubVerifier struct {
	valid string
}

func (v *stubVerifier) Compare(_, password string) error {
	if password == v.valid {
		return nil
	}
	return errors.New("hashedPassword is not the hash of the given password")
}

func (v *stubVerifier) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

// testUser builds an active stamped user.
func testUser(name, email string) *domain.User {
	u := &domain.User{
		ID:             1,
		Name:           name,
		Email:          email,
		HashedPassword: "hashed:password123",
	}
	u.PublicID = uuid.New()
	u.IsActive = true
	u.CreatedAt = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	u.UpdatedAt = u.CreatedAt
	return u
}

// testAuthHandler wires an AuthHandler over in-memory stubs.
func testAuthHandler(users *stubUserStore, tokens *stubTokenService, tokenStore *stubTokenStore) *AuthHandler {
	executor := newTestExecutor()
	verifier := &stubVerifier{valid: "password123"}

	return NewAuthHandler(
		executor,
		service.NewLoginService(users, tokens, verifier, nil),
		service.NewRegisterUserService(users, verifier, audit.New(), nil),
		service.NewLogoutService(users, tokenStore, nil),
		service.NewRefreshTokenService(users, tokenStore, tokens, nil),
		nil,
	)
}

// decodeBody unmarshals a recorded JSON response body.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
