package domain

import "time"

// User is the domain model for portal accounts.
//
// Email is the unique lookup key (case-sensitive as stored); Username is a
// display name and may repeat across accounts. PasswordHash is always a
// bcrypt digest, never the plaintext.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
