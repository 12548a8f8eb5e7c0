package domain

import "time"

// UserRole enumerates portal roles.
type UserRole string

const (
	UserRoleStudent  UserRole = "student"
	UserRoleEmployer UserRole = "employer"
	UserRoleAdmin    UserRole = "admin"
)

// ValidRole reports whether the role is one of the portal roles.
func ValidRole(role UserRole) bool {
	switch role {
	case UserRoleStudent, UserRoleEmployer, UserRoleAdmin:
		return true
	}
	return false
}

// UserStatus represents lifecycle states for a portal account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for portal accounts that talk to the assistant.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
