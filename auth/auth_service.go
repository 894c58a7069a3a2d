package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inkstream/auth-server/accounts"
)

// Service is the credential authenticator for the platform. It receives a
// sign-in or sign-up submission and produces either a user identity record
// or a classified failure. It owns no listener and no storage engine; the
// durable store is an injected collaborator and every call is an independent,
// request-scoped operation.
type Service struct {
	store   Store
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// Option defines a function type to modify the Service instance.
type Option func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes a new Service with its required store collaborator.
func NewService(store Store, options ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("[auth.NewService] store is required")
	}

	service := &Service{
		store:   store,
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// Authenticate runs the sign-up or sign-in flow for the submitted
// credentials and returns the authenticated user. Failures are *Error values
// matchable with errors.Is; anything else is a storage fault. Session
// issuance is a downstream concern of the caller.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (*accounts.User, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrMissingCredentials
	}

	switch creds.Mode {
	case ModeSignUp:
		return s.signUp(ctx, creds)
	case ModeSignIn:
		return s.signIn(ctx, creds)
	default:
		return nil, ErrUnknownMode
	}
}

func (s *Service) signUp(ctx context.Context, creds Credentials) (*accounts.User, error) {
	// Name is checked before any store lookup.
	if creds.Name == "" {
		return nil, ErrNameRequired
	}

	if _, err := s.store.Repos().Users.GetByEmail(ctx, creds.Email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, accounts.ErrNotFound) {
		return nil, fmt.Errorf("[Service.signUp] users.GetByEmail: %w", err)
	}

	// Hashing is the expensive part of the flow; don't start it for a
	// request that has already been abandoned.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hash, err := accounts.HashPassword(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("[Service.signUp] HashPassword: %w", err)
	}

	var user *accounts.User
	err = s.store.InTx(ctx, func(r Repos) error {
		created, err := r.Users.Create(ctx, &accounts.User{
			Email:     creds.Email,
			Name:      creds.Name,
			CreatedAt: s.nowTime(),
		})
		if err != nil {
			return err
		}
		if _, err := r.Credentials.Create(ctx, &accounts.Credential{
			UserID:       created.ID,
			PasswordHash: hash,
			CreatedAt:    s.nowTime(),
		}); err != nil {
			return err
		}
		user = created
		return nil
	})
	if err != nil {
		// The store's uniqueness constraint wins races the lookup above
		// cannot see.
		if errors.Is(err, accounts.ErrEmailTaken) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("[Service.signUp] create user and credential: %w", err)
	}

	return user, nil
}

func (s *Service) signIn(ctx context.Context, creds Credentials) (*accounts.User, error) {
	repos := s.store.Repos()

	user, err := repos.Users.GetByEmail(ctx, creds.Email)
	if errors.Is(err, accounts.ErrNotFound) {
		return nil, ErrNoUser
	}
	if err != nil {
		return nil, fmt.Errorf("[Service.signIn] users.GetByEmail: %w", err)
	}

	credential, err := repos.Credentials.GetByUserID(ctx, user.ID)
	if errors.Is(err, accounts.ErrNotFound) {
		// The account was created through an external identity provider and
		// has no local password.
		return nil, ErrNoLocalCredential
	}
	if err != nil {
		return nil, fmt.Errorf("[Service.signIn] credentials.GetByUserID: %w", err)
	}
	if credential.PasswordHash == "" {
		return nil, ErrNoLocalCredential
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !accounts.CheckPasswordHash(creds.Password, credential.PasswordHash) {
		return nil, ErrIncorrectPassword
	}

	return user, nil
}

// LinkExternalIdentity resolves a provider-verified identity to a local user,
// creating the user on first sign-in. No credential row is written: provider
// accounts authenticate through the provider, never by password.
func (s *Service) LinkExternalIdentity(ctx context.Context, email, name, image string) (*accounts.User, error) {
	if email == "" {
		return nil, &Error{Kind: KindProvider, Code: CodeOAuthCreateAccount, Message: "provider identity has no email"}
	}

	users := s.store.Repos().Users

	user, err := users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, accounts.ErrNotFound) {
		return nil, fmt.Errorf("[Service.LinkExternalIdentity] users.GetByEmail: %w", err)
	}

	user, err = users.Create(ctx, &accounts.User{
		Email:     email,
		Name:      name,
		Image:     image,
		CreatedAt: s.nowTime(),
	})
	if err != nil {
		// Concurrent first sign-ins with the same provider account: the
		// loser of the insert race links to the winner's row.
		if errors.Is(err, accounts.ErrEmailTaken) {
			return users.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("[Service.LinkExternalIdentity] users.Create: %w", err)
	}

	return user, nil
}
