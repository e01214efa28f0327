// Package auth, as part of the authentication module.
// This file, `middleware.go`, defines HTTP middleware related to authentication.
// Middleware are functions that process HTTP requests before they reach the main handler.
// In Nest.js, guards (`CanActivate`) serve a similar purpose.
package auth

import (
	"net/http"
)

// Middleware resolves the acting user for every request in the group it is
// mounted on. Requests that fail resolution never reach the handler.
// The returned middleware conforms to the standard `func(next http.Handler) http.Handler` pattern,
// so it plugs straight into `chi.Router.Use`.
func Middleware(resolver *Resolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				WriteError(w, r, err)
				return
			}

			// Make the user available to subsequent handlers in the chain.
			ctx := NewContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
