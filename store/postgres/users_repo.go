package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/inkstream/auth-server/accounts"
	"github.com/inkstream/auth-server/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

var _ accounts.UserRepo = (*UserRepo)(nil)

type UserRepo struct {
	db dbx.DBTX
}

func NewUserRepo(db dbx.DBTX) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *accounts.User) (*accounts.User, error) {
	created := *user
	if created.ID == "" {
		created.ID = uuid.New().String()
	}

	query := `INSERT INTO users (id, email, name, image, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		created.ID, created.Email, created.Name, created.Image, created.CreatedAt).Scan(&created.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, accounts.ErrEmailTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &created, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*accounts.User, error) {
	query := `SELECT id, email, name, image, created_at FROM users
	          WHERE email = $1`

	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*accounts.User, error) {
	query := `SELECT id, email, name, image, created_at FROM users
	          WHERE id = $1`

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepo) scanUser(row *sql.Row) (*accounts.User, error) {
	user := &accounts.User{}
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Image, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accounts.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
