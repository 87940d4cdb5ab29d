// Package models defines the admin account domain types.
package models

import "time"

// Admin is an election administrator account. Passwords are stored as
// bcrypt hashes only.
type Admin struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
