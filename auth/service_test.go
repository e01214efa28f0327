package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/todolist-go/apperror"
	"github.com/user/todolist-go/users"
)

func newTestService(t *testing.T) (*Service, *users.MemoryStore, *TokenService) {
	t.Helper()
	store := users.NewMemoryStore()
	tokens := newTestTokenService(t, testSecret)
	return NewService(store, newTestHasher(t), tokens), store, tokens
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)

	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.HashedPassword)
	assert.Contains(t, stored.HashedPassword, "$argon2id$")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Email: "a@x.com", Password: "pw2"})
	require.Error(t, err)
	assert.True(t, apperror.IsConflictError(err))

	// Only one row exists: a fresh registration gets id 2.
	next, err := store.CreateUser(ctx, "b@x.com", "h")
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.ID)
}

func TestLogin(t *testing.T) {
	svc, _, tokens := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, int64((24 * time.Hour).Seconds()), resp.ExpiresIn)

	claims, ok := tokens.Validate(resp.AccessToken)
	require.True(t, ok)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	for _, req := range []LoginRequest{
		{Email: "a@x.com", Password: "wrong"},
		{Email: "nobody@x.com", Password: "pw1"},
	} {
		_, err := svc.Login(ctx, req)
		ae, ok := apperror.FromError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.AuthError, ae.Type)
		assert.Equal(t, "Invalid credentials", ae.Message)
	}
}
