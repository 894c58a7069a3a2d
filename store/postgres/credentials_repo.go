package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/inkstream/auth-server/accounts"
	"github.com/inkstream/auth-server/internal/dbx"
)

var _ accounts.CredentialRepo = (*CredentialRepo)(nil)

type CredentialRepo struct {
	db dbx.DBTX
}

func NewCredentialRepo(db dbx.DBTX) *CredentialRepo {
	return &CredentialRepo{db: db}
}

func (r *CredentialRepo) Create(ctx context.Context, credential *accounts.Credential) (*accounts.Credential, error) {
	created := *credential

	query := `INSERT INTO user_credentials (user_id, password_hash, created_at)
	          VALUES ($1, $2, $3)
	          RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		created.UserID, created.PasswordHash, created.CreatedAt).Scan(&created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &created, nil
}

func (r *CredentialRepo) GetByUserID(ctx context.Context, userID string) (*accounts.Credential, error) {
	query := `SELECT user_id, password_hash, created_at FROM user_credentials
	          WHERE user_id = $1`

	credential := &accounts.Credential{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&credential.UserID, &credential.PasswordHash, &credential.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accounts.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return credential, nil
}
