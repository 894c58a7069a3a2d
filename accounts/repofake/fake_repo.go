package repofake

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/inkstream/auth-server/accounts"
)

var _ accounts.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[string]*accounts.User
	emailIds map[string]string // email to user id
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[string]*accounts.User),
		emailIds: make(map[string]string),
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, user *accounts.User) (*accounts.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.emailIds[user.Email]; ok {
		return nil, accounts.ErrEmailTaken
	}

	created := *user
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	ur.users[created.ID] = &created
	ur.emailIds[created.Email] = created.ID
	return &created, nil
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*accounts.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[email]
	if !ok {
		return nil, accounts.ErrNotFound
	}
	return ur.users[id], nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id string) (*accounts.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, accounts.ErrNotFound
	}
	return user, nil
}

var _ accounts.CredentialRepo = (*FakeCredentialRepo)(nil)

type FakeCredentialRepo struct {
	credentials map[string]*accounts.Credential // keyed by user id
	lock        sync.RWMutex
}

func NewFakeCredentialRepo() *FakeCredentialRepo {
	return &FakeCredentialRepo{
		credentials: make(map[string]*accounts.Credential),
	}
}

func (cr *FakeCredentialRepo) Create(_ context.Context, credential *accounts.Credential) (*accounts.Credential, error) {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	created := *credential
	cr.credentials[created.UserID] = &created
	return &created, nil
}

func (cr *FakeCredentialRepo) GetByUserID(_ context.Context, userID string) (*accounts.Credential, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	credential, ok := cr.credentials[userID]
	if !ok {
		return nil, accounts.ErrNotFound
	}
	return credential, nil
}
