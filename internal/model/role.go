package model

import "github.com/google/uuid"

// Role tags.
const (
	RoleAdmin  = "admin"
	RoleVendor = "vendor"
)

// RoleAssignment links a user to a role tag.
type RoleAssignment struct {
	UserID uuid.UUID `json:"user_id"`
	RoleID string    `json:"role_id"`
}

// AdminProfile is the role profile of an administrator.
type AdminProfile struct {
	ID uuid.UUID `json:"id"`
}
