package model

import "time"

// User represents an application user record as stored in the `users`
// table.  The json tags are omitted because the struct carries the password
// hash; handlers expose users through their own response types.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username (unique)
	Email        string    // users.email (unique, lower-cased)
	PasswordHash string    // users.password_hash (bcrypt)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
