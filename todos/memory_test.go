package todos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/todolist-go/apperror"
)

// frozenClock never advances, which is the worst case for updated_at ordering.
func frozenClock() func() time.Time {
	t := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time { return t }
}

func ptr[T any](v T) *T { return &v }

func TestMemoryStore_CreateAndList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first, err := s.Create(ctx, 1, NewTodo{Title: "buy milk", Priority: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(1), first.UserID)
	assert.False(t, first.Completed)
	assert.Nil(t, first.Description)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	_, err = s.Create(ctx, 2, NewTodo{Title: "not mine", Priority: 1})
	require.NoError(t, err)
	second, err := s.Create(ctx, 1, NewTodo{Title: "walk dog", Priority: 2})
	require.NoError(t, err)

	list, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	empty, err := s.List(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMemoryStore_OwnershipIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	todo, err := s.Create(ctx, 1, NewTodo{Title: "private", Priority: 1})
	require.NoError(t, err)

	_, err = s.Get(ctx, todo.ID, 2)
	assert.True(t, apperror.IsNotFound(err))

	_, missingErr := s.Get(ctx, 12345, 2)
	assert.Equal(t, missingErr.Error(), err.Error(), "foreign and missing todos must look the same")

	foreign := *todo
	foreign.UserID = 2
	_, err = s.Update(ctx, &foreign, Patch{Title: Some("stolen")})
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(s.Delete(ctx, &foreign)))

	still, err := s.Get(ctx, todo.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "private", still.Title)
}

func TestMemoryStore_PartialUpdate(t *testing.T) {
	s := NewMemoryStore(WithClock(frozenClock()))
	ctx := context.Background()

	todo, err := s.Create(ctx, 1, NewTodo{Title: "buy milk", Description: ptr("two litres"), Priority: 3})
	require.NoError(t, err)

	updated, err := s.Update(ctx, todo, Patch{Completed: Some(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "buy milk", updated.Title)
	assert.Equal(t, 3, updated.Priority)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "two litres", *updated.Description)
	assert.Equal(t, todo.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(todo.UpdatedAt))

	again, err := s.Update(ctx, updated, Patch{Description: Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, again.Description)
	assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))

	noop, err := s.Update(ctx, again, Patch{})
	require.NoError(t, err)
	assert.True(t, noop.UpdatedAt.After(again.UpdatedAt))
}

func TestMemoryStore_RejectsEmptyTitle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Create(ctx, 1, NewTodo{})
	assert.True(t, apperror.IsValidationError(err))

	todo, err := s.Create(ctx, 1, NewTodo{Title: "x", Priority: 1})
	require.NoError(t, err)
	_, err = s.Update(ctx, todo, Patch{Title: Some("")})
	assert.True(t, apperror.IsValidationError(err))
}

func TestMemoryStore_DeleteTwice(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	todo, err := s.Create(ctx, 1, NewTodo{Title: "x", Priority: 1})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, todo))
	assert.True(t, apperror.IsNotFound(s.Delete(ctx, todo)))

	_, err = s.Get(ctx, todo.ID, 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	todo, err := s.Create(ctx, 1, NewTodo{Title: "x", Description: ptr("d"), Priority: 1})
	require.NoError(t, err)
	*todo.Description = "mutated"
	todo.Title = "mutated"

	stored, err := s.Get(ctx, todo.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "x", stored.Title)
	assert.Equal(t, "d", *stored.Description)
}
