package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/todolist-go/apperror"
	"github.com/user/todolist-go/users"
)

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"standard":     {"Bearer abc", "abc", true},
		"lower scheme": {"bearer abc", "abc", true},
		"extra spaces": {"  Bearer   abc  ", "abc", true},
		"missing":      {"", "", false},
		"no token":     {"Bearer ", "", false},
		"wrong scheme": {"Basic abc", "", false},
		"scheme only":  {"Bearer", "", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			token, ok := BearerToken(tc.header)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	tokens := newTestTokenService(t, testSecret, WithClock(clock.Now))
	store := users.NewMemoryStore()
	resolver := NewResolver(tokens, store)

	user, err := store.CreateUser(ctx, "a@x.com", "hash")
	require.NoError(t, err)
	token, _, err := tokens.Issue(user.ID, time.Hour)
	require.NoError(t, err)

	t.Run("valid token resolves live user", func(t *testing.T) {
		got, err := resolver.Resolve(ctx, "Bearer "+token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "")
		assert.True(t, apperror.IsAuthError(err))
	})

	t.Run("expired token", func(t *testing.T) {
		expiredClock := newFakeClock()
		expiredClock.Advance(2 * time.Hour)
		expiredResolver := NewResolver(newTestTokenService(t, testSecret, WithClock(expiredClock.Now)), store)
		_, err := expiredResolver.Resolve(ctx, "Bearer "+token)
		assert.True(t, apperror.IsAuthError(err))
	})

	t.Run("deleted user", func(t *testing.T) {
		ghost, err := store.CreateUser(ctx, "ghost@x.com", "hash")
		require.NoError(t, err)
		ghostToken, _, err := tokens.Issue(ghost.ID, time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.DeleteUser(ctx, ghost.ID))

		_, err = resolver.Resolve(ctx, "Bearer "+ghostToken)
		assert.True(t, apperror.IsAuthError(err))
	})

	t.Run("every failure has the same message", func(t *testing.T) {
		for _, header := range []string{"", "Bearer nope", "Basic " + token} {
			_, err := resolver.Resolve(ctx, header)
			ae, ok := apperror.FromError(err)
			require.True(t, ok)
			assert.Equal(t, UnauthenticatedMessage, ae.Message)
		}
	})
}

func TestMiddleware(t *testing.T) {
	ctx := context.Background()
	tokens := newTestTokenService(t, testSecret)
	store := users.NewMemoryStore()
	user, err := store.CreateUser(ctx, "a@x.com", "hash")
	require.NoError(t, err)
	token, _, err := tokens.Issue(user.ID, time.Hour)
	require.NoError(t, err)

	var seen *users.User
	h := Middleware(NewResolver(tokens, store))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.ID)

	seen = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"error":"Invalid or expired token"}`, rec.Body.String())
	assert.Nil(t, seen)
}
