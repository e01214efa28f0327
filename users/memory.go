// Package users, as part of the users module.
// This file, `memory.go`, keeps accounts in process memory behind a read/write mutex.
// Reads take the shared lock, writes take the exclusive one, so many logins can
// look up users at the same time while a registration waits its turn.
package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/user/todolist-go/apperror"
)

// MemoryStore is an in-process Store used by STORAGE_DRIVER=memory and by tests.
// It mirrors the Postgres semantics: sequential ids starting at 1 and a
// unique email index.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]User
	byEmail map[string]int64
	now     func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:  1,
		byID:    make(map[int64]User),
		byEmail: make(map[string]int64),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateUser inserts a user, failing with Conflict on a duplicate email.
func (s *MemoryStore) CreateUser(_ context.Context, email, hashedPassword string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[email]; taken {
		return nil, apperror.NewConflictError("Email already registered", nil)
	}

	user := User{
		ID:             s.nextID,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      s.now(),
	}
	s.nextID++
	s.byID[user.ID] = user
	s.byEmail[email] = user.ID
	return &user, nil
}

// GetUserByEmail retrieves a user by exact email match.
func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("user with email '%s' not found", email), nil)
	}
	user := s.byID[id]
	return &user, nil
}

// GetUserByID retrieves a user by id.
func (s *MemoryStore) GetUserByID(_ context.Context, id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", id), nil)
	}
	return &user, nil
}

// DeleteUser removes an account. Accounts are never deleted through the API;
// this exists for administrative cleanup and for exercising stale-token handling.
func (s *MemoryStore) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", id), nil)
	}
	delete(s.byID, id)
	delete(s.byEmail, user.Email)
	return nil
}
