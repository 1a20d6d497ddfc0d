package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"legumes/internal/identity"
	"legumes/internal/logging"
	"legumes/internal/model"
)

// MockProvider is a mock implementation of identity.Provider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Session), args.Error(1)
}

func (m *MockProvider) Introspect(ctx context.Context, token string) (*model.Account, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockProvider) AdminCreate(ctx context.Context, email, password string, confirmed bool, meta model.Metadata) (*model.Account, error) {
	args := m.Called(ctx, email, password, confirmed, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockProvider) AdminDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestAuthService_Login(t *testing.T) {
	session := &identity.Session{AccessToken: "at", TokenType: "bearer"}

	tests := []struct {
		name          string
		providerErr   error
		expectedError error
	}{
		{name: "successful login"},
		{name: "email not confirmed", providerErr: identity.ErrEmailNotConfirmed, expectedError: ErrEmailNotConfirmed},
		{name: "wrong password", providerErr: identity.ErrInvalidCredentials, expectedError: ErrInvalidCredentials},
		{name: "provider down", providerErr: errors.New("dial tcp: refused"), expectedError: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(MockProvider)
			if tt.providerErr != nil {
				provider.On("SignIn", mock.Anything, "a@b.com", "pw").Return(nil, tt.providerErr)
			} else {
				provider.On("SignIn", mock.Anything, "a@b.com", "pw").Return(session, nil)
			}

			got, err := NewAuthService(provider, logging.Discard()).Login(context.Background(), "a@b.com", "pw")

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, session, got)
			}
			provider.AssertExpectations(t)
		})
	}
}
