package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Metadata is the free-form bag the identity provider keeps next to an account.
type Metadata struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// PrimaryRole returns the first role tag, the only one the system acts on.
func (m Metadata) PrimaryRole() string {
	if len(m.Roles) == 0 {
		return ""
	}
	return m.Roles[0]
}

// HasRole reports whether role appears anywhere in the role list.
func (m Metadata) HasRole(role string) bool {
	return slices.Contains(m.Roles, role)
}

// Account is an identity owned by the identity provider. The local provider
// persists it in the accounts table; remote providers only return it.
type Account struct {
	ID               uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Email            string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash     string         `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Metadata         Metadata       `json:"user_metadata" gorm:"serializer:json;type:text"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Confirmed reports whether the email address has been verified.
func (a *Account) Confirmed() bool {
	return a.EmailConfirmedAt != nil
}
