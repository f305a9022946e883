package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/modulith/modulith/internal/domain"
	"github.com/modulith/modulith/internal/pipeline"
	"github.com/modulith/modulith/internal/service/auth"
	"github.com/modulith/modulith/internal/store"
)

// fakeRunner implements store.TxRunner without a database. Services under
// test receive a nil transaction; the mock stores ignore it.
type fakeRunner struct{}

func (fakeRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

func newTestExecutor() *pipeline.Executor {
	return pipeline.NewExecutor(fakeRunner{}, nil, false)
}

// mockUserStore is a function-field mock of store.UserStore.
type mockUserStore struct {
	CreateFunc           func(ctx context.Context, user *domain.User) error
	GetByIDFunc          func(ctx context.Context, id int64) (*domain.User, error)
	GetByPublicIDFunc    func(ctx context.Context, publicID uuid.UUID) (*domain.User, error)
	GetByEmailFunc       func(ctx context.Context, email string) (*domain.User, error)
	ListFunc             func(ctx context.Context, params store.ListUsersParams) ([]domain.User, int64, error)
	UpdateFunc           func(ctx context.Context, user *domain.User) error
	FindIDByPublicIDFunc func(ctx context.Context, publicID uuid.UUID) (int64, error)
	FindPublicIDByIDFunc func(ctx context.Context, id int64) (uuid.UUID, error)
}

var _ store.UserStore = (*mockUserStore)(nil)

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.User, error) {
	if m.GetByPublicIDFunc != nil {
		return m.GetByPublicIDFunc(ctx, publicID)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) List(ctx context.Context, params store.ListUsersParams) ([]domain.User, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, params)
	}
	return nil, 0, nil
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserStore) FindIDByPublicID(ctx context.Context, publicID uuid.UUID) (int64, error) {
	if m.FindIDByPublicIDFunc != nil {
		return m.FindIDByPublicIDFunc(ctx, publicID)
	}
	return 0, store.ErrUserNotFound
}

func (m *mockUserStore) FindPublicIDByID(ctx context.Context, id int64) (uuid.UUID, error) {
	if m.FindPublicIDByIDFunc != nil {
		return m.FindPublicIDByIDFunc(ctx, id)
	}
	return uuid.Nil, store.ErrUserNotFound
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// mockTokenStore is a function-field mock of store.TokenStore.
type mockTokenStore struct {
	RevokeFunc        func(ctx context.Context, tokenID uuid.UUID, userID int64, expiresAt time.Time) error
	IsRevokedFunc     func(ctx context.Context, tokenID uuid.UUID) (bool, error)
	DeleteExpiredFunc func(ctx context.Context, now time.Time) (int64, error)
}

var _ store.TokenStore = (*mockTokenStore)(nil)

func (m *mockTokenStore) Revoke(ctx context.Context, tokenID uuid.UUID, userID int64, expiresAt time.Time) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, tokenID, userID, expiresAt)
	}
	return nil
}

func (m *mockTokenStore) IsRevoked(ctx context.Context, tokenID uuid.UUID) (bool, error) {
	if m.IsRevokedFunc != nil {
		return m.IsRevokedFunc(ctx, tokenID)
	}
	return false, nil
}

func (m *mockTokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx, now)
	}
	return 0, nil
}

func (m *mockTokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return m
}

// mockTokenService is a function-field mock of auth.TokenService.
type mockTokenService struct {
	GenerateTokenFunc        func(ctx context.Context, userPublicID uuid.UUID) (string, error)
	ValidateTokenFunc        func(ctx context.Context, tokenString string) (*auth.Claims, error)
	GenerateRefreshTokenFunc func(ctx context.Context, userPublicID uuid.UUID, remember bool) (string, error)
	ValidateRefreshTokenFunc func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

var _ auth.TokenService = (*mockTokenService)(nil)

func (m *mockTokenService) GenerateToken(ctx context.Context, userPublicID uuid.UUID) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(ctx, userPublicID)
	}
	return "mock-access-token", nil
}

func (m *mockTokenService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, tokenString)
	}
	return nil, auth.ErrInvalidToken
}

func (m *mockTokenService) GenerateRefreshToken(ctx context.Context, userPublicID uuid.UUID, remember bool) (string, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(ctx, userPublicID, remember)
	}
	return "mock-refresh-token", nil
}

func (m *mockTokenService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(ctx, tokenString)
	}
	return nil, auth.ErrInvalidToken
}

// mockPasswordVerifier matches passwords by equality against Valid.
type mockPasswordVerifier struct {
	Valid string
}

var _ auth.PasswordVerifier = (*mockPasswordVerifier)(nil)

func (m *mockPasswordVerifier) Compare(hashedPassword, password string) error {
	if password == m.Valid {
		return nil
	}
	return errors.New("hashedPassword is not the hash of the given password")
}

// activeUser builds a stamped active user for tests.
func activeUser(id int64, name, email string) *domain.User {
	user := &domain.User{
		ID:             id,
		Name:           name,
		Email:          email,
		HashedPassword: "$2a$10$fakehash",
	}
	user.PublicID = uuid.New()
	user.IsActive = true
	user.Version = 0
	user.CreatedAt = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	user.UpdatedAt = user.CreatedAt
	return user
}

func boolPtr(b bool) *bool { return &b }
