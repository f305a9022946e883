package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modulith/modulith/internal/domain"
	"github.com/modulith/modulith/internal/service/auth"
)

func validLoginInput() *LoginInput {
	return &LoginInput{
		Email:    "test@example.com",
		Password: "password123",
		Remember: boolPtr(false),
	}
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	user := activeUser(1, "Test User", "test@example.com")
	users := &mockUserStore{
		GetByEmailFunc: func(_ context.Context, email string) (*domain.User, error) {
			assert.Equal(t, "test@example.com", email)
			return user, nil
		},
	}
	svc := NewLoginService(users, &mockTokenService{}, &mockPasswordVerifier{Valid: "password123"}, nil)

	res := newTestExecutor().Execute(context.Background(), svc, validLoginInput())

	require.True(t, res.OK(), "unexpected failure: %v", res.Err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "User logged in successfully.", res.Message)

	payload, ok := res.Data.(*AuthPayload)
	require.True(t, ok)
	assert.Equal(t, user.PublicID.String(), payload.User.PublicID)
	assert.Equal(t, "mock-access-token", payload.AccessToken)
	assert.Equal(t, "mock-refresh-token", payload.RefreshToken)
	assert.Equal(t, auth.BearerTokenType, payload.TokenType)
}

func TestLoginRememberSelectsRefreshLifetime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		remember     bool
		wantRemember bool
	}{
		{name: "remember off", remember: false, wantRemember: false},
		{name: "remember on", remember: true, wantRemember: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			user := activeUser(1, "Test User", "test@example.com")
			users := &mockUserStore{
				GetByEmailFunc: func(_ context.Context, _ string) (*domain.User, error) {
					return user, nil
				},
			}

			var gotRemember bool
			tokens := &mockTokenService{
				GenerateRefreshTokenFunc: func(_ context.Context, _ uuid.UUID, remember bool) (string, error) {
					gotRemember = remember
					return "mock-refresh-token", nil
				},
			}

			svc := NewLoginService(users, tokens, &mockPasswordVerifier{Valid: "password123"}, nil)

			in := validLoginInput()
			in.Remember = boolPtr(tc.remember)
			res := newTestExecutor().Execute(context.Background(), svc, in)

			require.True(t, res.OK(), "unexpected failure: %v", res.Err)
			assert.Equal(t, tc.wantRemember, gotRemember)
		})
	}
}

func TestLoginValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*LoginInput)
		wantField string
	}{
		{
			name:      "missing email",
			mutate:    func(in *LoginInput) { in.Email = "" },
			wantField: "email",
		},
		{
			name:      "malformed email",
			mutate:    func(in *LoginInput) { in.Email = "not-an-email" },
			wantField: "email",
		},
		{
			name:      "missing password",
			mutate:    func(in *LoginInput) { in.Password = "" },
			wantField: "password",
		},
		{
			name:      "missing remember flag",
			mutate:    func(in *LoginInput) { in.Remember = nil },
			wantField: "remember",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			called := false
			users := &mockUserStore{
				GetByEmailFunc: func(context.Context, string) (*domain.User, error) {
					called = true
					return nil, nil
				},
			}
			svc := NewLoginService(users, &mockTokenService{}, &mockPasswordVerifier{}, nil)

			in := validLoginInput()
			tc.mutate(in)
			res := newTestExecutor().Execute(context.Background(), svc, in)

			assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
			assert.Equal(t, "The given data was invalid.", res.Message)
			assert.Contains(t, res.Errors, tc.wantField)
			assert.False(t, called, "validation failures must not reach the store")
		})
	}
}

func TestLoginAuthenticationFailures(t *testing.T) {
	t.Parallel()

	unknown := &mockUserStore{}

	inactive := activeUser(2, "Inactive User", "test@example.com")
	inactive.IsActive = false

	active := activeUser(3, "Test User", "test@example.com")

	tests := []struct {
		name     string
		users    *mockUserStore
		password string
	}{
		{
			name:     "unknown email",
			users:    unknown,
			password: "password123",
		},
		{
			name: "inactive account",
			users: &mockUserStore{
				GetByEmailFunc: func(context.Context, string) (*domain.User, error) {
					return inactive, nil
				},
			},
			password: "password123",
		},
		{
			name: "wrong password",
			users: &mockUserStore{
				GetByEmailFunc: func(context.Context, string) (*domain.User, error) {
					return active, nil
				},
			},
			password: "wrong-password",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := NewLoginService(tc.users, &mockTokenService{}, &mockPasswordVerifier{Valid: "password123"}, nil)

			in := validLoginInput()
			in.Password = tc.password
			res := newTestExecutor().Execute(context.Background(), svc, in)

			// Every credential failure looks the same to the caller.
			assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
			assert.Equal(t, "Invalid credentials", res.Message)
			assert.Nil(t, res.Data)
		})
	}
}

func TestLoginStoreFailureIsInternal(t *testing.T) {
	t.Parallel()

	users := &mockUserStore{
		GetByEmailFunc: func(context.Context, string) (*domain.User, error) {
			return nil, assert.AnError
		},
	}
	svc := NewLoginService(users, &mockTokenService{}, &mockPasswordVerifier{}, nil)

	res := newTestExecutor().Execute(context.Background(), svc, validLoginInput())

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "Internal server error.", res.Message)
	assert.ErrorIs(t, res.Err, assert.AnError)
}
