// Package directory defines the narrow interface onto the external user
// document store. The authentication core consumes it only to reconcile
// session records with canonical data; document persistence itself is an
// external collaborator.
package directory

import (
	"context"
	"errors"

	authcore "github.com/lumenlms/authcore"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned by Create when the email is already taken.
var ErrDuplicateEmail = errors.New("email already exists")

// User is the canonical account document. PasswordHash is empty for
// social-auth accounts, which can never log in with a password.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsVerified   bool
	Courses      []string
	Avatar       authcore.Avatar
}

// Principal projects the document onto the authentication core's view.
func (u *User) Principal() *authcore.Principal {
	return &authcore.Principal{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		Courses:    u.Courses,
		Avatar:     u.Avatar,
	}
}

// Directory is the principal directory consumed by the HTTP entry points.
type Directory interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
}
