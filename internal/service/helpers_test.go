package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"legumes/internal/identity/identitytest"
	"legumes/internal/logging"
	"legumes/internal/model"
	"legumes/internal/repository"
	"legumes/internal/store/storetest"
)

// memCache is an in-memory Cache.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deleted = append(c.deleted, key)
	return nil
}

type fixture struct {
	provider    *identitytest.Fake
	store       *storetest.Memory
	cache       *memCache
	guard       *Guard
	vendors     VendorService
	adminToken  string
	vendorToken string
	vendor      model.Account
}

func newStore() *storetest.Memory {
	return storetest.NewMemory().
		PrimaryKey(model.TableUsers, "id").
		PrimaryKey(model.TableAdmins, "id").
		PrimaryKey(model.TableVendors, "id").
		PrimaryKey(model.TableUserRoles, "user_id", "role_id")
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		provider: identitytest.New(),
		store:    newStore(),
		cache:    newMemCache(),
	}
	_, f.adminToken = f.provider.Seed("admin@legumes.test", "secret1", model.Metadata{Name: "Root", Roles: []string{model.RoleAdmin}})
	f.vendor, f.vendorToken = f.provider.Seed("shop@legumes.test", "secret1", model.Metadata{Name: "Shop", Roles: []string{model.RoleVendor}})
	f.guard = NewGuard(f.provider)
	f.vendors = NewVendorService(repository.NewVendorRepository(f.store), f.cache, logging.Discard())
	return f
}

func (f *fixture) provisioning(opts ProvisioningOptions) ProvisioningService {
	return f.provisioningOver(f.store, opts)
}

func (f *fixture) provisioningOver(client *storetest.Memory, opts ProvisioningOptions) ProvisioningService {
	return NewProvisioningService(
		f.guard,
		f.provider,
		repository.NewUserRepository(client),
		repository.NewRoleRepository(client),
		repository.NewVendorRepository(client),
		f.cache,
		opts,
		logging.Discard(),
	)
}

func vendorInput(email string) CreateUserInput {
	return CreateUserInput{
		Email:    email,
		Password: "secret1",
		Name:     "Ana",
		Roles:    []string{model.RoleVendor},
		ShopName: "Le Panier",
		Phone:    "0600000000",
		Location: "Paris",
		PhotoURL: "http://x/y.png",
	}
}

// createAs authorizes token and provisions as the resolved admin.
func createAs(svc ProvisioningService, token string, in CreateUserInput) (*ProvisionedUser, error) {
	admin, err := svc.Authorize(context.Background(), token)
	if err != nil {
		return nil, err
	}
	return svc.CreateUser(context.Background(), admin, in)
}
