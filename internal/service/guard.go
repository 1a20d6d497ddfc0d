package service

import (
	"context"

	apperrors "legumes/internal/errors"
	"legumes/internal/identity"
	"legumes/internal/model"
)

// ForbiddenCreateMessage is returned to authenticated callers without the admin role.
const ForbiddenCreateMessage = "Only admins can create users with the role"

// Guard resolves bearer tokens to accounts through the identity provider.
type Guard struct {
	provider identity.Provider
}

// NewGuard creates a guard over provider.
func NewGuard(provider identity.Provider) *Guard {
	return &Guard{provider: provider}
}

// Authenticate returns the account the token was issued for.
func (g *Guard) Authenticate(ctx context.Context, token string) (*model.Account, error) {
	if token == "" {
		return nil, apperrors.New(apperrors.KindUnauthorized, "Unauthorized", nil)
	}
	account, err := g.provider.Introspect(ctx, token)
	if err != nil {
		return nil, apperrors.New(apperrors.KindUnauthorized, "Unauthorized", err)
	}
	if account == nil {
		return nil, apperrors.New(apperrors.KindUnauthorized, "Unauthorized", nil)
	}
	return account, nil
}

// Authorize authenticates the token and requires the admin role.
func (g *Guard) Authorize(ctx context.Context, token string) (*model.Account, error) {
	account, err := g.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if !account.Metadata.HasRole(model.RoleAdmin) {
		return nil, apperrors.New(apperrors.KindForbidden, ForbiddenCreateMessage, nil)
	}
	return account, nil
}
