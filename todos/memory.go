// Package todos, as part of the todos module.
// This file, `memory.go`, is an in-process Store used by STORAGE_DRIVER=memory and by
// tests. It is like a notebook kept in RAM instead of the filing cabinet (Postgres):
// same rules, nothing survives a restart.
package todos

import (
	"context"
	"sync"
	"time"

	"github.com/user/todolist-go/apperror"
)

// MemoryStore is an in-process Store with the same ownership rules as
// PostgresStore. Ids are sequential from 1 and shared across owners.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]Todo
	now    func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		nextID: 1,
		rows:   make(map[int64]Todo),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts a todo owned by userID.
func (s *MemoryStore) Create(_ context.Context, userID int64, t NewTodo) (*Todo, error) {
	if t.Title == "" {
		return nil, apperror.NewValidationError("field 'title' failed on 'required'", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	todo := Todo{
		ID:          s.nextID,
		UserID:      userID,
		Title:       t.Title,
		Description: copyString(t.Description),
		Priority:    t.Priority,
		Completed:   t.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextID++
	s.rows[todo.ID] = todo
	return cloneTodo(todo), nil
}

// List returns the owner's todos in insertion order.
func (s *MemoryStore) List(_ context.Context, userID int64) ([]Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Todo, 0)
	// Ids are dense, so walking them keeps insertion order without sorting.
	for id := int64(1); id < s.nextID; id++ {
		if t, ok := s.rows[id]; ok && t.UserID == userID {
			out = append(out, *cloneTodo(t))
		}
	}
	return out, nil
}

// Get fetches one todo by id and owner.
func (s *MemoryStore) Get(_ context.Context, todoID, userID int64) (*Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.rows[todoID]
	if !ok || t.UserID != userID {
		return nil, apperror.NewNotFoundError(notFoundMessage, nil)
	}
	return cloneTodo(t), nil
}

// Update applies patch to the stored row and refreshes updated_at.
func (s *MemoryStore) Update(_ context.Context, existing *Todo, patch Patch) (*Todo, error) {
	if patch.Title.Set && patch.Title.Value == "" {
		return nil, apperror.NewValidationError("field 'title' failed on 'required'", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.rows[existing.ID]
	if !ok || current.UserID != existing.UserID {
		return nil, apperror.NewNotFoundError(notFoundMessage, nil)
	}

	updated := patch.apply(current)
	updated.UpdatedAt = s.now()
	if !updated.UpdatedAt.After(current.UpdatedAt) {
		updated.UpdatedAt = current.UpdatedAt.Add(time.Microsecond)
	}
	s.rows[updated.ID] = updated
	return cloneTodo(updated), nil
}

// Delete removes the todo. Deleting a row that is already gone reports NotFound.
func (s *MemoryStore) Delete(_ context.Context, existing *Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.rows[existing.ID]
	if !ok || current.UserID != existing.UserID {
		return apperror.NewNotFoundError(notFoundMessage, nil)
	}
	delete(s.rows, existing.ID)
	return nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTodo(t Todo) *Todo {
	t.Description = copyString(t.Description)
	return &t
}
