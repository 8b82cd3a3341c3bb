package domain

import "time"

// Role is the access level of an account.
type Role string

const (
	RoleStandard      Role = "standard"
	RoleAdministrator Role = "administrator"
)

// User is an account record. PasswordHash never leaves the service layer.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	PhoneNumber  string
	Role         Role
	DateJoined   time.Time
}

// IsStaff reports whether the account carries the administrator role.
func (u *User) IsStaff() bool {
	return u != nil && u.Role == RoleAdministrator
}

// Actor returns the caller identity for this account.
func (u *User) Actor() *Actor {
	return &Actor{ID: u.ID, Role: u.Role}
}

// Actor is the authenticated caller of an operation. A nil *Actor is an
// anonymous caller.
type Actor struct {
	ID   int64
	Role Role
}

// IsAdministrator is nil-safe.
func (a *Actor) IsAdministrator() bool {
	return a != nil && a.Role == RoleAdministrator
}
