package domain

import "time"

// UserRole enumerates access levels for accounts.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleStaff UserRole = "STAFF"
	RoleAdmin UserRole = "ADMIN"
)

// User is the domain model for complaint filers and staff.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name for display and email salutations.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsStaff reports whether the user may act on complaints of others.
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff || u.Role == RoleAdmin
}
