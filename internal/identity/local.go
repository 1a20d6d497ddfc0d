package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"legumes/internal/auth"
	"legumes/internal/model"
	"legumes/internal/repository"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

// LocalProvider keeps accounts in the application database and issues its own
// HS256 access tokens. It stands in for the hosted provider in development.
type LocalProvider struct {
	accounts repository.AccountRepository
	jwt      *auth.JWTService
	now      func() time.Time
}

var _ Provider = (*LocalProvider)(nil)

// NewLocalProvider creates a provider backed by accounts.
func NewLocalProvider(accounts repository.AccountRepository, jwtService *auth.JWTService) *LocalProvider {
	return &LocalProvider{accounts: accounts, jwt: jwtService, now: time.Now}
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	account, err := p.accounts.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, withStatus(ErrInvalidCredentials, http.StatusBadRequest)
		}
		return nil, fmt.Errorf("identity: find account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, withStatus(ErrInvalidCredentials, http.StatusBadRequest)
	}
	if !account.Confirmed() {
		return nil, withStatus(ErrEmailNotConfirmed, http.StatusBadRequest)
	}

	token, err := p.jwt.GenerateAccessToken(account.ID, account.Email, account.Metadata.Roles)
	if err != nil {
		return nil, fmt.Errorf("identity: sign token: %w", err)
	}
	return &Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(p.jwt.TTL().Seconds()),
		User:        account,
	}, nil
}

func (p *LocalProvider) Introspect(ctx context.Context, token string) (*model.Account, error) {
	claims, err := p.jwt.ValidateToken(token)
	if err != nil {
		return nil, withStatus(ErrInvalidToken, http.StatusUnauthorized)
	}
	id, err := claims.AccountID()
	if err != nil {
		return nil, withStatus(ErrInvalidToken, http.StatusUnauthorized)
	}
	account, err := p.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, withStatus(ErrUserNotFound, http.StatusNotFound)
		}
		return nil, fmt.Errorf("identity: find account: %w", err)
	}
	return account, nil
}

func (p *LocalProvider) AdminCreate(ctx context.Context, email, password string, confirmed bool, meta model.Metadata) (*model.Account, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, &Error{Status: http.StatusUnprocessableEntity, Code: CodeValidationFailed, Message: "Unable to validate email address: invalid format"}
	}
	if len(password) < minPasswordLength {
		return nil, &Error{
			Status:  http.StatusUnprocessableEntity,
			Code:    CodeWeakPassword,
			Message: fmt.Sprintf("Password should be at least %d characters.", minPasswordLength),
		}
	}

	if _, err := p.accounts.FindByEmail(ctx, email); err == nil {
		return nil, withStatus(ErrEmailExists, http.StatusUnprocessableEntity)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("identity: find account: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("identity: hash password: %w", err)
	}

	account := &model.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashed),
		Metadata:     meta,
	}
	if confirmed {
		now := p.now()
		account.EmailConfirmedAt = &now
	}

	if err := p.accounts.Create(ctx, account); err != nil {
		// Lost a race with a concurrent create for the same email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, withStatus(ErrEmailExists, http.StatusUnprocessableEntity)
		}
		return nil, fmt.Errorf("identity: create account: %w", err)
	}
	return account, nil
}

func (p *LocalProvider) AdminDelete(ctx context.Context, id uuid.UUID) error {
	if err := p.accounts.Delete(ctx, id); err != nil {
		return fmt.Errorf("identity: delete account: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func withStatus(e *Error, status int) *Error {
	return &Error{Status: status, Code: e.Code, Message: e.Message}
}
