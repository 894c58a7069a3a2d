package accounts

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned by UserRepo.Create when the store's
	// uniqueness constraint on email rejects the insert. The constraint is a
	// mandatory store guarantee: two concurrent sign-ups for the same email
	// can both pass the service-level lookup, so the store must be the final
	// arbiter.
	ErrEmailTaken = errors.New("email already in use")
)

type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
}

type CredentialRepo interface {
	GetByUserID(ctx context.Context, userID string) (*Credential, error)
	Create(ctx context.Context, credential *Credential) (*Credential, error)
}
