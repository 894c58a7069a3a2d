package storefake

import (
	"context"

	"github.com/inkstream/auth-server/accounts/repofake"
	"github.com/inkstream/auth-server/auth"
)

var _ auth.Store = (*FakeStore)(nil)

// FakeStore backs the service with in-memory repositories. InTx applies fn
// directly: the fake repos reject duplicate emails the same way the real
// store's unique index does, which is the only transactional behaviour the
// flows observe.
type FakeStore struct {
	repos auth.Repos
}

func New() *FakeStore {
	return &FakeStore{
		repos: auth.Repos{
			Users:       repofake.NewFakeUserRepo(),
			Credentials: repofake.NewFakeCredentialRepo(),
		},
	}
}

func (s *FakeStore) Repos() auth.Repos {
	return s.repos
}

func (s *FakeStore) InTx(_ context.Context, fn func(auth.Repos) error) error {
	return fn(s.repos)
}
