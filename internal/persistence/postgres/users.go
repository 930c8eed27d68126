package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ecoquest/internal/account"
)

const uniqueViolation = "23505"

// UserStore implements account.UserStore on the users table.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore constructs a UserStore.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// Create inserts a user, mapping a duplicate username to account.ErrUserExists.
func (s *UserStore) Create(ctx context.Context, user account.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES ($1,$2,$3)`,
		user.Username, user.PasswordHash, user.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return account.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Get loads a user by username.
func (s *UserStore) Get(ctx context.Context, username string) (account.User, error) {
	var user account.User
	err := s.pool.QueryRow(ctx,
		`SELECT username, password_hash, created_at FROM users WHERE username=$1`, username,
	).Scan(&user.Username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return account.User{}, account.ErrUserNotFound
	}
	if err != nil {
		return account.User{}, err
	}
	return user, nil
}
