package domain

import (
	"strings"
	"time"
)

// User represents a registered user of the application.
// The numeric ID is internal; external callers only ever see the PublicID.
type User struct {
	ID             int64  `json:"-"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"-"` // Plaintext, used transiently during registration/updates
	HashedPassword string `json:"-"` // Never exposed in JSON
	AuditFields
}

// NewUser creates a new User with the given name, email and plaintext
// password. Audit fields (public identifier, version, timestamps, actors)
// are left zero; the audit component stamps them before persistence.
// Returns an error if validation fails.
//
// NOTE: the caller is responsible for hashing the password before storage.
func NewUser(name, email, password string) (*User, error) {
	user := &User{
		Name:     name,
		Email:    email,
		Password: password,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.Name == "" {
		return ErrEmptyName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		if len(u.Password) < 8 {
			return ErrPasswordTooShort
		}
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from storage carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// Deleted reports whether the user has been soft-deleted.
func (u *User) Deleted() bool {
	return u.DeletedAt != nil
}

// Profile is the public-facing representation of a User: no numeric id,
// no password material.
type Profile struct {
	PublicID  string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile returns the user's public profile.
func (u *User) Profile() Profile {
	return Profile{
		PublicID:  u.PublicID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Version:   u.Version,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// validEmailFormat performs a basic structural check on an email address:
// a non-empty local part, an @, and a domain containing an interior dot.
func validEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
