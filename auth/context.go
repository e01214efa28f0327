package auth

import (
	"context"

	"github.com/user/todolist-go/users"
)

// `contextKey` is a custom type for context keys. Using a custom type prevents collisions
// with context keys defined in other packages.
type contextKey string

const (
	// userContextKey stores the *users.User resolved by Middleware.
	userContextKey contextKey = "auth_user"
)

// NewContextWithUser returns a child context carrying the acting user.
func NewContextWithUser(ctx context.Context, user *users.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the acting user placed there by Middleware.
// The second return value is false on routes that are not protected.
func UserFromContext(ctx context.Context) (*users.User, bool) {
	user, ok := ctx.Value(userContextKey).(*users.User)
	return user, ok && user != nil
}
