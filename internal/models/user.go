package models

import "time"

// User represents a registered owner of finance data
type User struct {
	ID           int64     `json:"user_id" db:"id"`
	FullName     string    `json:"full_name" db:"full_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Not serialized
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
