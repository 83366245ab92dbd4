package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SharathChampzz/Community-Streak/internal/types/user"
)

type pgUserStore struct {
	db *pgxpool.Pool
}

func (s *pgUserStore) Create(ctx context.Context, u *user.User) error {
	query := `
	INSERT INTO users (id, username, email, password_hash, flags, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.Exec(ctx, query, u.ID, u.Username, u.Email, u.PasswordHash, u.Flags, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (s *pgUserStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `
	SELECT id, username, email, password_hash, flags, created_at, updated_at
	FROM users
	WHERE id = $1
	`

	return s.scanOne(s.db.QueryRow(ctx, query, id))
}

func (s *pgUserStore) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	query := `
	SELECT id, username, email, password_hash, flags, created_at, updated_at
	FROM users
	WHERE username = $1 OR email = $1
	`

	return s.scanOne(s.db.QueryRow(ctx, query, login))
}

func (s *pgUserStore) List(ctx context.Context) ([]user.User, error) {
	query := `
	SELECT id, username, email, password_hash, flags, created_at, updated_at
	FROM users
	ORDER BY created_at ASC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Flags, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (s *pgUserStore) scanOne(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Flags, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}
