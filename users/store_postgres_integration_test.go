package users

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/todolist-go/apperror"
	"github.com/user/todolist-go/db/dbtest"
)

func uniqueEmail() string {
	return uuid.NewString() + "@it.example"
}

func TestPostgresStore_CreateAndLookup(t *testing.T) {
	s := NewPostgresStore(dbtest.OpenPool(t))
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	email := uniqueEmail()
	u, err := s.CreateUser(ctx, email, "hash")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, email, u.Email)

	byEmail, err := s.GetUserByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", byID.HashedPassword)
}

func TestPostgresStore_Misses(t *testing.T) {
	s := NewPostgresStore(dbtest.OpenPool(t))
	ctx := context.Background()

	_, err := s.GetUserByEmail(ctx, uniqueEmail())
	assert.True(t, apperror.IsNotFound(err))

	_, err = s.GetUserByID(ctx, -1)
	assert.True(t, apperror.IsNotFound(err))
}

// Concurrent registrations with the same email: exactly one wins, the rest
// get Conflict from the unique constraint.
func TestPostgresStore_ConcurrentDuplicateEmail(t *testing.T) {
	s := NewPostgresStore(dbtest.OpenPool(t))
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	email := uniqueEmail()
	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateUser(ctx, email, "hash")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case apperror.IsConflictError(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, conflicts)
}
