package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role indicates the user's authorization level within the system.
type Role string

// Supported roles.
const (
	RoleCollaborator Role = "Collaborator"
	RoleManager      Role = "Manager"
)

// ParseRole resolves a role name case-insensitively.
func ParseRole(raw string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "collaborator":
		return RoleCollaborator, true
	case "manager":
		return RoleManager, true
	default:
		return "", false
	}
}

// User represents an account in the system.
type User struct {
	// ID is the unique identifier of the user.
	ID uuid.UUID `json:"id" db:"id"`

	// FullName is the user's display name.
	FullName string `json:"fullName" db:"full_name"`

	// Email is the user's unique email address, matched exactly.
	Email string `json:"email" db:"email"`

	// Role is fixed at registration; no endpoint changes it afterwards.
	Role Role `json:"role" db:"role"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// IsActive marks whether the account may log in. Managers toggle it;
	// accounts are never hard-deleted.
	IsActive bool `json:"isActive" db:"is_active"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
