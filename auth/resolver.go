// Package auth, as part of the authentication module.
// This file, `resolver.go`, turns the raw `Authorization` header of a request into the
// user who is making it. It is the piece the middleware leans on: the middleware only
// decides what to do with the answer.
// In Nest.js terms this is the logic you would put inside a Passport `JwtStrategy.validate()`.
package auth

import (
	"context"
	"strings"

	"github.com/user/todolist-go/apperror"
	"github.com/user/todolist-go/users"
)

// UnauthenticatedMessage is the only text a client ever sees for a failed
// identity check, whichever check failed.
const UnauthenticatedMessage = "Invalid or expired token"

// Resolver turns an Authorization header into a live user.
type Resolver struct {
	tokens *TokenService
	users  users.Store
}

// NewResolver creates a Resolver.
func NewResolver(tokens *TokenService, store users.Store) *Resolver {
	return &Resolver{tokens: tokens, users: store}
}

// Resolve validates the bearer token and then confirms the user still
// exists. A valid token whose subject has been deleted is rejected.
//
// The steps, in order:
//  1. cut "Bearer <token>" out of the header,
//  2. check signature and expiry with the TokenService,
//  3. load the user named in the claims from the store.
//
// Failing any step yields the same AuthError, so a client cannot tell
// which check tripped.
func (r *Resolver) Resolve(ctx context.Context, authorizationHeader string) (*users.User, error) {
	token, ok := BearerToken(authorizationHeader)
	if !ok {
		return nil, apperror.NewAuthError(UnauthenticatedMessage, nil)
	}

	claims, ok := r.tokens.Validate(token)
	if !ok {
		return nil, apperror.NewAuthError(UnauthenticatedMessage, nil)
	}

	user, err := r.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewAuthError(UnauthenticatedMessage, err)
		}
		return nil, err
	}
	return user, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
