package service

import (
	"fmt"

	"github.com/modulith/modulith/internal/domain"
	"github.com/modulith/modulith/internal/paginate"
	"github.com/modulith/modulith/internal/service/auth"
)

// LoginInput carries the credentials for a login attempt. Remember selects
// the extended refresh token lifetime for the session.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember *bool  `json:"remember" validate:"required"`
}

// RegisterUserInput carries the fields for a new registration. Actor is the
// id of the authenticated caller when registration happens on someone's
// behalf; nil for self-registration.
type RegisterUserInput struct {
	Name                 string `json:"name"                  validate:"required,max=255"`
	Email                string `json:"email"                 validate:"required,email,max=255"`
	Password             string `json:"password"              validate:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`

	Actor *int64 `json:"-"`
}

// LogoutInput identifies the session to invalidate. Claims is nil when the
// caller is not authenticated, in which case logout is a no-op.
type LogoutInput struct {
	Claims *auth.Claims `json:"-"`
}

// RefreshTokenInput carries the refresh token to exchange for a new pair.
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// GetUserInput controls user retrieval: an optional single-record lookup by
// public identifier, sort facet, and optional pagination. BaseURL is the
// current request URL without query parameters, used for pagination links.
type GetUserInput struct {
	UserPublicID   string `json:"user_uuid,omitempty"`
	SortBy         string `json:"sort_by,omitempty"`
	SortDir        string `json:"sort_type,omitempty"`
	WithPagination bool   `json:"with_pagination,omitempty"`
	PerPage        int    `json:"per_page,omitempty"`
	Page           int    `json:"page,omitempty"`
	BaseURL        string `json:"-"`
}

// AuthPayload pairs a user's public profile with the issued token pair.
// The result of login and refresh; registration returns the profile alone.
type AuthPayload struct {
	User         domain.Profile `json:"user"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	TokenType    string         `json:"token_type"`
}

// UserListPayload is the result of a user list query.
type UserListPayload struct {
	Users      []domain.Profile     `json:"users"`
	Pagination *paginate.Descriptor `json:"pagination,omitempty"`
}

// inputAs narrows a pipeline input to the service's expected type.
func inputAs[T any](input any) (T, error) {
	in, ok := input.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("unexpected input type %T", input)
	}
	return in, nil
}
