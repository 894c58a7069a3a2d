package auth

import (
	"context"

	"github.com/inkstream/auth-server/accounts"
)

// Repos holds the data-access collaborators for the Service.
type Repos struct {
	Users       accounts.UserRepo
	Credentials accounts.CredentialRepo
}

// Store is the durable-store port. Repos returns repositories bound to the
// store's plain connection; InTx runs fn with repositories bound to a single
// transaction, committing iff fn returns nil. Sign-up uses InTx so the user
// row and its credential row land atomically: a crash between the two must
// not leave an orphaned user.
type Store interface {
	Repos() Repos
	InTx(ctx context.Context, fn func(Repos) error) error
}
