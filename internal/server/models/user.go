// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a credential record. PasswordHash never leaves the server; use
// Public for anything that is written to a response.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Picture      string
	IsAdmin      bool
	CreatedAt    time.Time
}

// PublicUser is the projection of a User that may be sent to clients.
type PublicUser struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (u *User) Public() PublicUser {
	return PublicUser{Username: u.Email, IsAdmin: u.IsAdmin}
}
