package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/user/todolist-go/config"
	"github.com/user/todolist-go/password"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// fakeClock is a settable time source.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestTokenService(t *testing.T, secret string, opts ...TokenOption) *TokenService {
	t.Helper()
	s, err := NewTokenService(config.AuthConfig{
		JWTSecret:           secret,
		AccessTokenDuration: 24 * time.Hour,
	}, opts...)
	require.NoError(t, err)
	return s
}

func newTestHasher(t *testing.T) *password.Hasher {
	t.Helper()
	h, err := password.NewHasher(password.Params{MemoryKiB: 8 * 1024, Iterations: 1, Parallelism: 1})
	require.NoError(t, err)
	return h
}
