// Package schema defines the records shared by the drowsewatch store, API and CLI.
package schema

import "time"

// Status is the account state shown in the user table.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Role is the permission tier of a user account.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleUser      Role = "User"
	RoleModerator Role = "Moderator"
	RoleGuest     Role = "Guest"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleModerator, RoleGuest:
		return true
	}
	return false
}

// User is an account in the active collection.
// The JSON layout is the persisted layout of the "users" key.
type User struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Name       string `json:"name"` // handle
	Status     Status `json:"status"`
	Role       Role   `json:"role"`
	JoinedDate Date   `json:"joinedDate"`
	LastActive string `json:"lastActive"`
}

// ArchivedUser is a user moved out of the active collection.
// The embedded user is flattened in JSON, with archivedAt alongside it.
type ArchivedUser struct {
	User
	ArchivedAt time.Time `json:"archivedAt"`
}

// Restore returns the user record without the archive stamp.
func (a ArchivedUser) Restore() User {
	return a.User
}
