// Package todos, as part of the todos module.
// This file, `store.go`, is the data access layer: the Store contract and its
// PostgreSQL implementation. Every query that touches an existing row carries
// both `id` and `user_id` in its WHERE clause.
// In Nest.js terms this is the Repository (e.g. a TypeORM `Repository<Todo>`).
package todos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/todolist-go/apperror"
)

// notFoundMessage is reported for both missing todos and todos owned by
// another user.
const notFoundMessage = "Todo not found"

// pgCheckViolation is the PostgreSQL error code for CHECK constraint failures.
const pgCheckViolation = "23514"

// Store is the todo data access contract. Every method that reaches an
// existing row is scoped by the owner's id as well as the todo id.
type Store interface {
	Create(ctx context.Context, userID int64, t NewTodo) (*Todo, error)
	List(ctx context.Context, userID int64) ([]Todo, error)
	Get(ctx context.Context, todoID, userID int64) (*Todo, error)
	Update(ctx context.Context, existing *Todo, patch Patch) (*Todo, error)
	Delete(ctx context.Context, existing *Todo) error
}

// PostgresStore implements Store over a pgx connection pool.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const todoColumns = `id, user_id, title, description, priority, completed, created_at, updated_at`

func scanTodo(row pgx.Row) (*Todo, error) {
	var t Todo
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func wrapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation {
		return apperror.NewValidationError("field 'title' failed on 'required'", err)
	}
	return apperror.NewDatabaseError(op, err)
}

// Create inserts a todo owned by userID.
func (s *PostgresStore) Create(ctx context.Context, userID int64, t NewTodo) (*Todo, error) {
	query := `INSERT INTO todos (user_id, title, description, priority, completed)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING ` + todoColumns

	todo, err := scanTodo(s.db.QueryRow(ctx, query, userID, t.Title, t.Description, t.Priority, t.Completed))
	if err != nil {
		return nil, wrapWriteError("failed to create todo", err)
	}
	return todo, nil
}

// List returns the owner's todos in insertion order.
func (s *PostgresStore) List(ctx context.Context, userID int64) ([]Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1 ORDER BY id`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list todos", err)
	}
	todos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Todo, error) {
		t, err := scanTodo(row)
		if err != nil {
			return Todo{}, err
		}
		return *t, nil
	})
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to read todos", err)
	}
	return todos, nil
}

// Get fetches one todo by id and owner.
func (s *PostgresStore) Get(ctx context.Context, todoID, userID int64) (*Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`

	todo, err := scanTodo(s.db.QueryRow(ctx, query, todoID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(notFoundMessage, nil)
		}
		return nil, apperror.NewDatabaseError("failed to get todo", err)
	}
	return todo, nil
}

// Update writes the present fields of patch and refreshes updated_at.
// The SET clause is built from the patch: each present field appends
// "column = $N" and its value to args, so values always travel as parameters
// and never as SQL text.
// updated_at moves forward by at least a microsecond even when two updates
// land within the same clock tick.
func (s *PostgresStore) Update(ctx context.Context, existing *Todo, patch Patch) (*Todo, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title.Set {
		set("title", patch.Title.Value)
	}
	if patch.Description.Set {
		set("description", patch.Description.Ptr())
	}
	if patch.Priority.Set {
		set("priority", patch.Priority.Value)
	}
	if patch.Completed.Set {
		set("completed", patch.Completed.Value)
	}
	sets = append(sets, "updated_at = GREATEST(clock_timestamp(), updated_at + interval '1 microsecond')")

	args = append(args, existing.ID, existing.UserID)
	query := fmt.Sprintf(`UPDATE todos SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), todoColumns)

	todo, err := scanTodo(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(notFoundMessage, nil)
		}
		return nil, wrapWriteError("failed to update todo", err)
	}
	return todo, nil
}

// Delete removes the todo. Deleting a row that is already gone reports NotFound.
func (s *PostgresStore) Delete(ctx context.Context, existing *Todo) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, existing.ID, existing.UserID)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete todo", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError(notFoundMessage, nil)
	}
	return nil
}
