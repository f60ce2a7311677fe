// Package model defines domain entities for the application.
package model

import (
	"strings"
	"time"
)

// User is a persisted user record.
// ID, CreatedAt and UpdatedAt are assigned by the store at creation.
// Records are never mutated after they are created.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUser builds an unsaved record from the given fields.
func NewUser(name, email string) *User {
	return &User{Name: name, Email: email}
}

// MissingFields returns the names of required fields that are blank,
// in declaration order.
func (u *User) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(u.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(u.Email) == "" {
		missing = append(missing, "email")
	}
	return missing
}

// Stamp sets the creation timestamps. UpdatedAt always equals CreatedAt.
func (u *User) Stamp(at time.Time) {
	u.CreatedAt = at.UTC()
	u.UpdatedAt = u.CreatedAt
}

// Newer reports whether u sorts before other in a newest-first listing.
// Equal timestamps fall back to ID descending.
func (u *User) Newer(other *User) bool {
	if !u.CreatedAt.Equal(other.CreatedAt) {
		return u.CreatedAt.After(other.CreatedAt)
	}
	return u.ID > other.ID
}
