package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "legumes/internal/errors"
	"legumes/internal/identity"
	"legumes/internal/logging"
	"legumes/internal/model"
	"legumes/internal/repository"
	"legumes/internal/store/storetest"
)

func TestCreateUser_VendorWritesOneRowPerTable(t *testing.T) {
	f := newFixture(t)
	svc := f.provisioning(ProvisioningOptions{})

	user, err := createAs(svc, f.adminToken, vendorInput("a@b.com"))

	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, model.RoleVendor, user.Role)
	assert.True(t, f.provider.Has("a@b.com"))

	id := user.ID.String()
	for _, table := range []string{model.TableUsers, model.TableVendors} {
		rows := f.store.Rows(table)
		require.Len(t, rows, 1, table)
		assert.Equal(t, id, rows[0]["id"], table)
	}
	assert.Empty(t, f.store.Rows(model.TableAdmins))

	assignments := f.store.Rows(model.TableUserRoles)
	require.Len(t, assignments, 1)
	assert.Equal(t, id, assignments[0]["user_id"])
	assert.Equal(t, model.RoleVendor, assignments[0]["role_id"])

	assert.Contains(t, f.cache.deleted, vendorListCacheKey)
}

func TestCreateUser_AdminWritesAdminProfile(t *testing.T) {
	f := newFixture(t)
	svc := f.provisioning(ProvisioningOptions{})

	in := vendorInput("boss@b.com")
	in.Roles = []string{model.RoleAdmin}
	user, err := createAs(svc, f.adminToken, in)

	require.NoError(t, err)
	admins := f.store.Rows(model.TableAdmins)
	require.Len(t, admins, 1)
	assert.Equal(t, user.ID.String(), admins[0]["id"])
	assert.Empty(t, f.store.Rows(model.TableVendors))
	assert.NotContains(t, f.cache.deleted, vendorListCacheKey)
}

func TestCreateUser_GuardRejectsBeforeAnyWrite(t *testing.T) {
	tests := []struct {
		name     string
		token    func(f *fixture) string
		wantErr  error
		wantText string
	}{
		{
			name:     "missing token",
			token:    func(f *fixture) string { return "" },
			wantErr:  apperrors.ErrUnauthorized,
			wantText: "Unauthorized",
		},
		{
			name:     "unknown token",
			token:    func(f *fixture) string { return "forged" },
			wantErr:  apperrors.ErrUnauthorized,
			wantText: "Unauthorized",
		},
		{
			name:     "non-admin caller",
			token:    func(f *fixture) string { return f.vendorToken },
			wantErr:  apperrors.ErrForbidden,
			wantText: ForbiddenCreateMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			before := f.provider.Count()

			user, err := createAs(f.provisioning(ProvisioningOptions{}), tt.token(f), vendorInput("a@b.com"))

			assert.Nil(t, user)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantText, apperrors.MapErrorToHTTP(err).Message)
			assert.Equal(t, before, f.provider.Count())
			assert.False(t, f.provider.Has("a@b.com"))
			assert.Empty(t, f.store.Calls())
		})
	}
}

func TestCreateUser_ValidationFailsBeforeAnyWrite(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateUserInput)
	}{
		{"missing email", func(in *CreateUserInput) { in.Email = "" }},
		{"malformed email", func(in *CreateUserInput) { in.Email = "not-an-email" }},
		{"missing password", func(in *CreateUserInput) { in.Password = "" }},
		{"missing name", func(in *CreateUserInput) { in.Name = "" }},
		{"no roles", func(in *CreateUserInput) { in.Roles = nil }},
		{"empty role", func(in *CreateUserInput) { in.Roles = []string{""} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := vendorInput("a@b.com")
			tt.mutate(&in)

			_, err := createAs(f.provisioning(ProvisioningOptions{}), f.adminToken, in)

			assert.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))
			assert.Empty(t, f.store.Calls())
			assert.Equal(t, 2, f.provider.Count())
		})
	}
}

func TestCreateUser_DuplicateEmailFailsAtIdentityStep(t *testing.T) {
	f := newFixture(t)
	f.provider.Seed("a@b.com", "whatever", model.Metadata{Name: "Existing"})

	_, err := createAs(f.provisioning(ProvisioningOptions{}), f.adminToken, vendorInput("a@b.com"))

	require.Error(t, err)
	assert.Equal(t, apperrors.KindIdentityCreationFailed, apperrors.KindOf(err))
	assert.Equal(t, identity.ErrEmailExists.Message, apperrors.MapErrorToHTTP(err).Message)
	assert.ErrorIs(t, err, identity.ErrEmailExists)
	assert.Empty(t, f.store.Calls())
}

func TestCreateUser_SameRequestTwice(t *testing.T) {
	f := newFixture(t)
	svc := f.provisioning(ProvisioningOptions{})

	_, err := createAs(svc, f.adminToken, vendorInput("a@b.com"))
	require.NoError(t, err)

	_, err = createAs(svc, f.adminToken, vendorInput("a@b.com"))
	assert.Equal(t, apperrors.KindIdentityCreationFailed, apperrors.KindOf(err))
	assert.Len(t, f.store.Rows(model.TableUsers), 1)
	assert.Len(t, f.store.Rows(model.TableVendors), 1)
	assert.Len(t, f.store.Rows(model.TableUserRoles), 1)
}

func TestProvision_IdentityWithoutID(t *testing.T) {
	f := newFixture(t)
	f.provider.ReturnNilIDs()

	_, err := f.provisioning(ProvisioningOptions{}).Provision(context.Background(), vendorInput("a@b.com"))

	assert.Equal(t, apperrors.KindInvariantViolation, apperrors.KindOf(err))
	assert.ErrorIs(t, err, apperrors.ErrIdentityCreatedWithoutID)
	assert.Equal(t, 500, apperrors.MapErrorToHTTP(err).StatusCode)
	assert.Empty(t, f.store.Calls())
}

func TestProvision_UserRecordFailureKeepsAccount(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("connection reset")
	f.store.Fail(storetest.OpInsert, model.TableUsers, boom)

	_, err := f.provisioning(ProvisioningOptions{}).Provision(context.Background(), vendorInput("a@b.com"))

	assert.Equal(t, apperrors.KindProfileInsertFailed, apperrors.KindOf(err))
	assert.ErrorIs(t, err, boom)
	assert.True(t, f.provider.Has("a@b.com"))
	assert.Equal(t, []string{"insert:users"}, f.store.Calls())
}

func TestProvision_FailureKinds(t *testing.T) {
	tests := []struct {
		name  string
		table string
		want  apperrors.Kind
	}{
		{"user record", model.TableUsers, apperrors.KindProfileInsertFailed},
		{"role profile", model.TableVendors, apperrors.KindRoleProfileInsertFailed},
		{"role assignment", model.TableUserRoles, apperrors.KindRoleAssignmentFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.Fail(storetest.OpInsert, tt.table, errors.New("boom"))

			_, err := f.provisioning(ProvisioningOptions{}).Provision(context.Background(), vendorInput("a@b.com"))

			assert.Equal(t, tt.want, apperrors.KindOf(err))
			assert.Equal(t, 500, apperrors.MapErrorToHTTP(err).StatusCode)
		})
	}
}

func TestProvision_UnknownRoleStillAssigned(t *testing.T) {
	f := newFixture(t)
	in := vendorInput("a@b.com")
	in.Roles = []string{"courier", model.RoleVendor}

	user, err := f.provisioning(ProvisioningOptions{}).Provision(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "courier", user.Role)
	assert.Len(t, f.store.Rows(model.TableUsers), 1)
	assert.Empty(t, f.store.Rows(model.TableVendors))
	assert.Empty(t, f.store.Rows(model.TableAdmins))
	assignments := f.store.Rows(model.TableUserRoles)
	require.Len(t, assignments, 1)
	assert.Equal(t, "courier", assignments[0]["role_id"])
}

func TestProvision_Compensation(t *testing.T) {
	tests := []struct {
		name       string
		compensate bool
	}{
		{"disabled keeps orphans", false},
		{"enabled removes partial writes", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.Fail(storetest.OpInsert, model.TableUserRoles, errors.New("boom"))

			_, err := f.provisioning(ProvisioningOptions{Compensate: tt.compensate}).
				Provision(context.Background(), vendorInput("a@b.com"))

			assert.Equal(t, apperrors.KindRoleAssignmentFailed, apperrors.KindOf(err))
			if tt.compensate {
				assert.Empty(t, f.store.Rows(model.TableUsers))
				assert.Empty(t, f.store.Rows(model.TableVendors))
				assert.False(t, f.provider.Has("a@b.com"))
				assert.Len(t, f.provider.Deleted(), 1)
				assert.Equal(t, []string{
					"insert:users", "insert:vendors", "insert:user_roles",
					"delete:vendors", "delete:users",
				}, f.store.Calls())
			} else {
				assert.Len(t, f.store.Rows(model.TableUsers), 1)
				assert.Len(t, f.store.Rows(model.TableVendors), 1)
				assert.True(t, f.provider.Has("a@b.com"))
				assert.Empty(t, f.provider.Deleted())
			}
		})
	}
}

func TestProvision_CompensationFailureKeepsOriginalError(t *testing.T) {
	f := newFixture(t)
	f.store.Fail(storetest.OpInsert, model.TableVendors, errors.New("boom"))
	f.store.Fail(storetest.OpDelete, model.TableUsers, errors.New("delete failed"))

	_, err := f.provisioning(ProvisioningOptions{Compensate: true}).Provision(context.Background(), vendorInput("a@b.com"))

	assert.Equal(t, apperrors.KindRoleProfileInsertFailed, apperrors.KindOf(err))
	assert.False(t, f.provider.Has("a@b.com"))
}

func TestProvision_StepTimeout(t *testing.T) {
	f := newFixture(t)
	f.store.Hang(storetest.OpInsert, model.TableUsers)

	start := time.Now()
	_, err := f.provisioning(ProvisioningOptions{StepTimeout: 20 * time.Millisecond}).
		Provision(context.Background(), vendorInput("a@b.com"))

	assert.Equal(t, apperrors.KindProfileInsertFailed, apperrors.KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestProvision_CancelledRequest(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.provisioning(ProvisioningOptions{}).Provision(ctx, vendorInput("a@b.com"))

	assert.Equal(t, apperrors.KindIdentityCreationFailed, apperrors.KindOf(err))
	assert.Empty(t, f.store.Calls())
}

func TestProvision_VendorRoundTripThroughDirectory(t *testing.T) {
	f := newFixture(t)

	user, err := createAs(f.provisioning(ProvisioningOptions{}), f.adminToken, vendorInput("a@b.com"))
	require.NoError(t, err)

	vendors, err := f.vendors.List(context.Background())
	require.NoError(t, err)
	require.Len(t, vendors, 1)

	v := vendors[0]
	assert.Equal(t, user.ID, v.ID)
	assert.Equal(t, "Le Panier", v.ShopName)
	assert.Equal(t, "0600000000", v.Phone)
	assert.Equal(t, "Paris", v.Location)
	assert.Equal(t, "http://x/y.png", v.PhotoURL)
	require.NotNil(t, v.User)
	assert.Equal(t, "Ana", v.User.Name)
	assert.Equal(t, "a@b.com", v.User.Email)
	assert.NotEqual(t, uuid.Nil, v.ID)
}

func TestCreateUser_WithoutAdminIsUnauthorized(t *testing.T) {
	f := newFixture(t)

	user, err := f.provisioning(ProvisioningOptions{}).CreateUser(context.Background(), nil, vendorInput("a@b.com"))

	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.False(t, f.provider.Has("a@b.com"))
	assert.Empty(t, f.store.Calls())
}

func TestProvision_ValidatesInput(t *testing.T) {
	f := newFixture(t)
	in := vendorInput("root@legumes.test")
	in.Name = ""

	_, err := f.provisioning(ProvisioningOptions{}).Provision(context.Background(), in)

	assert.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))
	assert.Equal(t, 2, f.provider.Count())
	assert.Empty(t, f.store.Calls())
}

func TestProvision_UserRecordMirrorsProviderEmail(t *testing.T) {
	f := newFixture(t)
	provider := new(MockProvider)
	id := uuid.New()
	provider.On("AdminCreate", mock.Anything, "Ana@B.com", "secret1", true, mock.Anything).
		Return(&model.Account{ID: id, Email: "ana@b.com"}, nil)
	svc := NewProvisioningService(
		NewGuard(provider),
		provider,
		repository.NewUserRepository(f.store),
		repository.NewRoleRepository(f.store),
		repository.NewVendorRepository(f.store),
		f.cache,
		ProvisioningOptions{},
		logging.Discard(),
	)

	user, err := svc.Provision(context.Background(), vendorInput("Ana@B.com"))

	require.NoError(t, err)
	assert.Equal(t, "ana@b.com", user.Email)
	users := f.store.Rows(model.TableUsers)
	require.Len(t, users, 1)
	assert.Equal(t, "ana@b.com", users[0]["email"])
	provider.AssertExpectations(t)
}
