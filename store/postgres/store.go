// Package postgres implements the durable store behind the authenticator:
// user and credential repositories over database/sql with the pgx driver,
// with goose-managed schema migrations.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkstream/auth-server/auth"
	"github.com/inkstream/auth-server/internal/dbx"
	"github.com/inkstream/auth-server/store/postgres/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

var _ auth.Store = (*Store)(nil)

type Store struct {
	db *sql.DB
}

// New opens the database, runs pending migrations, and returns the store.
func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	store := &Store{db: db}
	if err := store.runMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return store, nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, ".")
}

func (s *Store) Repos() auth.Repos {
	return reposOver(s.db)
}

// InTx runs fn with repositories bound to one transaction. Sign-up relies on
// this so the user row and its credential row commit or roll back together.
func (s *Store) InTx(ctx context.Context, fn func(auth.Repos) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(reposOver(tx))
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}

func reposOver(db dbx.DBTX) auth.Repos {
	return auth.Repos{
		Users:       NewUserRepo(db),
		Credentials: NewCredentialRepo(db),
	}
}
