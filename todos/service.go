// Package todos, as part of the todos module.
// This file, `service.go`, contains the business logic for todo operations.
// It acts as the "Service" layer, analogous to a `TodosService` in Nest.js:
// handlers call it, it calls the Store.
package todos

import (
	"context"
	"log/slog"
)

// Service implements the todo use cases on top of a Store. Updates and
// deletes look the todo up through the owner-scoped Get first, so a todo
// that is missing or belongs to someone else surfaces as NotFound before
// any write is attempted.
type Service struct {
	store Store
}

// NewService creates a new Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create adds a todo for userID.
func (s *Service) Create(ctx context.Context, userID int64, req CreateTodoRequest) (*Todo, error) {
	todo, err := s.store.Create(ctx, userID, req.NewTodo())
	if err != nil {
		return nil, err
	}
	slog.Debug("todo created", "user_id", userID, "todo_id", todo.ID)
	return todo, nil
}

// List returns every todo of userID.
func (s *Service) List(ctx context.Context, userID int64) ([]Todo, error) {
	return s.store.List(ctx, userID)
}

// Get returns one todo of userID.
func (s *Service) Get(ctx context.Context, userID, todoID int64) (*Todo, error) {
	return s.store.Get(ctx, todoID, userID)
}

// Update applies a partial update to one of userID's todos.
func (s *Service) Update(ctx context.Context, userID, todoID int64, req UpdateTodoRequest) (*Todo, error) {
	existing, err := s.store.Get(ctx, todoID, userID)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, existing, req.Patch())
}

// Delete removes one of userID's todos.
func (s *Service) Delete(ctx context.Context, userID, todoID int64) error {
	existing, err := s.store.Get(ctx, todoID, userID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, existing); err != nil {
		return err
	}
	slog.Debug("todo deleted", "user_id", userID, "todo_id", todoID)
	return nil
}
