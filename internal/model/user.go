package model

import "time"

// User is a staff account as stored in the `users` table. Users exist only
// to gate admin routes; they take no part in voting itself.
//
// Fields:
//
//	ID           – primary key identifier.
//	Name         – display name.
//	Email        – unique login email.
//	PasswordHash – bcrypt hashed password.
//	IsAdmin      – grants access to /api/admin routes.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	IsAdmin      bool      // users.is_admin
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
