// Package domain holds the foodgram entities shared by the store, services and API.
package domain

import (
	"strings"
	"time"
)

// User is a registered account. Email is the login identifier.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName is "First Last", trimmed when either part is blank.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// CanModify reports whether u may edit or delete content owned by ownerID.
func (u *User) CanModify(ownerID int64) bool {
	return u.IsStaff || u.ID == ownerID
}

// NormalizeEmail lowercases the domain part, leaving the local part intact.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
