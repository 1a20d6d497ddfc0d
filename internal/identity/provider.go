// Package identity is the client side of the identity provider: password
// sign-in, token introspection and privileged account creation.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"legumes/internal/model"
)

// Provider owns accounts, credentials and bearer tokens.
type Provider interface {
	// SignIn exchanges email and password for a session.
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// Introspect resolves a bearer token to the account it was issued for.
	Introspect(ctx context.Context, token string) (*model.Account, error)
	// AdminCreate creates an account with privileged credentials.
	AdminCreate(ctx context.Context, email, password string, confirmed bool, meta model.Metadata) (*model.Account, error)
	// AdminDelete removes an account. Only used to undo a failed provisioning.
	AdminDelete(ctx context.Context, id uuid.UUID) error
}

// Session is issued on successful sign-in.
type Session struct {
	AccessToken  string         `json:"access_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int            `json:"expires_in"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	User         *model.Account `json:"user"`
}

// Error codes reported by the provider.
const (
	CodeEmailNotConfirmed  = "email_not_confirmed"
	CodeInvalidCredentials = "invalid_credentials"
	CodeEmailExists        = "email_exists"
	CodeBadJWT             = "bad_jwt"
	CodeUserNotFound       = "user_not_found"
	CodeWeakPassword       = "weak_password"
	CodeValidationFailed   = "validation_failed"
)

var (
	ErrEmailNotConfirmed  = &Error{Code: CodeEmailNotConfirmed, Message: "Email not confirmed"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "Invalid login credentials"}
	ErrEmailExists        = &Error{Code: CodeEmailExists, Message: "A user with this email address has already been registered"}
	ErrInvalidToken       = &Error{Code: CodeBadJWT, Message: "invalid JWT"}
	ErrUserNotFound       = &Error{Code: CodeUserNotFound, Message: "User not found"}

	// ErrMalformedAccountID is returned when the provider reports an account id
	// that is not a UUID.
	ErrMalformedAccountID = errors.New("identity: malformed account id")
)

// Error is a failure reported by the identity provider.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("identity: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("identity: %s: %s", e.Code, e.Message)
}

// Is matches provider errors by code so sentinels compare against upstream responses.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}
