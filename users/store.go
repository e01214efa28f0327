// Package users, as part of the users module.
// This file, `store.go`, defines the Store contract and its PostgreSQL implementation,
// analogous to a `UsersRepository` in Nest.js. The UNIQUE index on users.email is what
// finally decides whether an email is taken.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/todolist-go/apperror"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// Store is the user data access contract. Lookups report a miss as an
// apperror NotFound so callers can decide what a missing user means to them.
type Store interface {
	CreateUser(ctx context.Context, email, hashedPassword string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
}

// PostgresStore implements Store over a pgx connection pool.
// The pool is owned by the caller; the store never closes it.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateUser inserts a new user. The UNIQUE constraint on users.email is the
// source of truth for duplicates: two concurrent registrations that both
// passed an existence check still cannot both insert.
func (s *PostgresStore) CreateUser(ctx context.Context, email, hashedPassword string) (*User, error) {
	query := `INSERT INTO users (email, hashed_password)
              VALUES ($1, $2)
              RETURNING id, email, hashed_password, created_at`

	var user User
	err := s.db.QueryRow(ctx, query, email, hashedPassword).Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("Email already registered", err)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by exact email match.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, email, hashed_password, created_at FROM users WHERE email = $1`
	return s.getOne(ctx, query, email, fmt.Sprintf("user with email '%s' not found", email))
}

// GetUserByID retrieves a user by primary key.
func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT id, email, hashed_password, created_at FROM users WHERE id = $1`
	return s.getOne(ctx, query, id, fmt.Sprintf("user with ID %d not found", id))
}

func (s *PostgresStore) getOne(ctx context.Context, query string, arg any, notFound string) (*User, error) {
	var user User
	err := s.db.QueryRow(ctx, query, arg).Scan(&user.ID, &user.Email, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(notFound, nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return &user, nil
}
