// Package users encapsulates user persistence: the User entity and the stores
// that create and look up accounts. In Nest.js this would be a "UsersModule"
// exporting a users repository. Registration and login live in `auth`,
// which depends on this package through the Store interface.
package users

import "time"

// User represents a registered account.
// The `json:"-"` tag on HashedPassword keeps the hash out of every API response.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}
