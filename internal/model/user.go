package model

import (
	"strings"
	"time"
)

type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string    `gorm:"size:254;not null" json:"email"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `json:"date_joined"`
	UpdatedAt time.Time `json:"-"`
}

// FullName falls back to the username when no display names are set.
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func (u User) String() string { return u.Username }

// Identity is the requester of an operation. The zero value is anonymous.
type Identity struct {
	UserID   uint64
	Username string
}

func (i Identity) Authenticated() bool { return i.UserID != 0 }

// Owns reports whether the identity authored p.
func (i Identity) Owns(p *Post) bool {
	return i.Authenticated() && p != nil && p.AuthorID == i.UserID
}
