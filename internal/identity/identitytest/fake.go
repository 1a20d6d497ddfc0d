// Package identitytest provides an in-memory identity.Provider for tests.
package identitytest

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"legumes/internal/identity"
	"legumes/internal/model"
)

// Fake is a thread-safe in-memory provider. Tokens are issued with IssueToken.
type Fake struct {
	mu        sync.Mutex
	accounts  map[uuid.UUID]*fakeAccount
	tokens    map[string]uuid.UUID
	createErr error
	nilIDs    bool
	deleted   []uuid.UUID
}

type fakeAccount struct {
	account  model.Account
	password string
}

var _ identity.Provider = (*Fake)(nil)

// New returns an empty fake provider.
func New() *Fake {
	return &Fake{
		accounts: map[uuid.UUID]*fakeAccount{},
		tokens:   map[string]uuid.UUID{},
	}
}

// Seed stores a confirmed account and returns a bearer token for it.
func (f *Fake) Seed(email, password string, meta model.Metadata) (model.Account, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	acc := model.Account{ID: uuid.New(), Email: email, Metadata: meta, EmailConfirmedAt: &now}
	f.accounts[acc.ID] = &fakeAccount{account: acc, password: password}
	token := "token-" + acc.ID.String()
	f.tokens[token] = acc.ID
	return acc, token
}

// FailCreate makes AdminCreate return err.
func (f *Fake) FailCreate(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createErr = err
}

// ReturnNilIDs makes AdminCreate report accounts without an id.
func (f *Fake) ReturnNilIDs() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nilIDs = true
}

// Has reports whether an account with email exists.
func (f *Fake) Has(email string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findByEmail(email) != nil
}

// Count returns the number of stored accounts.
func (f *Fake) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.accounts)
}

// Deleted lists the ids removed through AdminDelete.
func (f *Fake) Deleted() []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.deleted...)
}

func (f *Fake) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc := f.findByEmail(email)
	if acc == nil || acc.password != password {
		return nil, identity.ErrInvalidCredentials
	}
	if !acc.account.Confirmed() {
		return nil, identity.ErrEmailNotConfirmed
	}
	token := "token-" + acc.account.ID.String()
	f.tokens[token] = acc.account.ID
	user := acc.account
	return &identity.Session{AccessToken: token, TokenType: "bearer", ExpiresIn: 3600, User: &user}, nil
}

func (f *Fake) Introspect(ctx context.Context, token string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.tokens[token]
	if !ok {
		return nil, identity.ErrInvalidToken
	}
	acc, ok := f.accounts[id]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	user := acc.account
	return &user, nil
}

func (f *Fake) AdminCreate(ctx context.Context, email, password string, confirmed bool, meta model.Metadata) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.findByEmail(email) != nil {
		return nil, &identity.Error{Status: http.StatusUnprocessableEntity, Code: identity.CodeEmailExists, Message: identity.ErrEmailExists.Message}
	}
	acc := model.Account{ID: uuid.New(), Email: email, Metadata: meta}
	if confirmed {
		now := time.Now()
		acc.EmailConfirmedAt = &now
	}
	f.accounts[acc.ID] = &fakeAccount{account: acc, password: password}
	out := acc
	if f.nilIDs {
		out.ID = uuid.Nil
	}
	return &out, nil
}

func (f *Fake) AdminDelete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[id]; !ok {
		return identity.ErrUserNotFound
	}
	delete(f.accounts, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *Fake) findByEmail(email string) *fakeAccount {
	for _, acc := range f.accounts {
		if strings.EqualFold(acc.account.Email, email) {
			return acc
		}
	}
	return nil
}
