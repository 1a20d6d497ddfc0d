package model

import "github.com/google/uuid"

// Record store tables.
const (
	TableUsers     = "users"
	TableAdmins    = "admins"
	TableVendors   = "vendors"
	TableUserRoles = "user_roles"
)

// UserRecord mirrors the public profile of an Account in the record store.
// Its id is the Account id.
type UserRecord struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}
