package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"legumes/internal/model"
)

// AccountRepository persists identities for the local identity provider.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new account.
func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// FindByID finds an account by ID.
func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByEmail finds an account by email.
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// Delete removes an account permanently so its email can be reused.
func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&model.Account{}).Error
}
