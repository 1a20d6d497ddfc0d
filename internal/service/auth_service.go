package service

import (
	"context"
	"errors"

	"legumes/internal/identity"
	"legumes/internal/logging"
)

var (
	// ErrInvalidCredentials covers every sign-in failure except an unconfirmed email.
	ErrInvalidCredentials = errors.New("invalid login credentials")
	// ErrEmailNotConfirmed is returned when the account exists but its email is unverified.
	ErrEmailNotConfirmed = errors.New("email not confirmed")
)

// AuthService handles password sign-in.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*identity.Session, error)
}

type authService struct {
	provider identity.Provider
	log      logging.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(provider identity.Provider, log logging.Logger) AuthService {
	return &authService{provider: provider, log: log}
}

// Login forwards the credentials to the identity provider. Only an
// unconfirmed email is told apart from other failures.
func (s *authService) Login(ctx context.Context, email, password string) (*identity.Session, error) {
	session, err := s.provider.SignIn(ctx, email, password)
	if err == nil {
		return session, nil
	}
	if errors.Is(err, identity.ErrEmailNotConfirmed) {
		return nil, ErrEmailNotConfirmed
	}
	if !errors.Is(err, identity.ErrInvalidCredentials) {
		s.log.Warn(ctx, "sign in failed", "error", err)
	}
	return nil, ErrInvalidCredentials
}
