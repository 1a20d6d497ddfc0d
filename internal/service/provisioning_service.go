package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "legumes/internal/errors"
	"legumes/internal/identity"
	"legumes/internal/logging"
	"legumes/internal/model"
	"legumes/internal/repository"
)

// CreateUserInput is the body of a user creation request.
type CreateUserInput struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	Roles    []string `json:"roles" validate:"required,min=1,dive,required"`
	ShopName string   `json:"shop_name,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Location string   `json:"location,omitempty"`
	PhotoURL string   `json:"photo_url,omitempty"`
}

// ProvisionedUser summarises a created user.
type ProvisionedUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
}

// ProvisioningOptions tunes the workflow.
type ProvisioningOptions struct {
	// StepTimeout bounds each remote call; zero means only the caller's context applies.
	StepTimeout time.Duration
	// Compensate undoes earlier writes when a record store step fails.
	Compensate bool
}

// ProvisioningService creates accounts together with their records and role.
type ProvisioningService interface {
	// Authorize resolves token to an admin account. Callers run it before
	// reading the request body.
	Authorize(ctx context.Context, token string) (*model.Account, error)
	// CreateUser provisions on behalf of an admin returned by Authorize.
	CreateUser(ctx context.Context, admin *model.Account, in CreateUserInput) (*ProvisionedUser, error)
	// Provision validates the input and runs the workflow without an
	// authorization check.
	Provision(ctx context.Context, in CreateUserInput) (*ProvisionedUser, error)
}

type provisioningService struct {
	guard    *Guard
	provider identity.Provider
	users    repository.UserRepository
	roles    repository.RoleRepository
	vendors  repository.VendorRepository
	cache    Cache
	validate *validator.Validate
	opts     ProvisioningOptions
	log      logging.Logger
}

// NewProvisioningService wires the workflow.
func NewProvisioningService(
	guard *Guard,
	provider identity.Provider,
	users repository.UserRepository,
	roles repository.RoleRepository,
	vendors repository.VendorRepository,
	cache Cache,
	opts ProvisioningOptions,
	log logging.Logger,
) ProvisioningService {
	return &provisioningService{
		guard:    guard,
		provider: provider,
		users:    users,
		roles:    roles,
		vendors:  vendors,
		cache:    cache,
		validate: validator.New(),
		opts:     opts,
		log:      log,
	}
}

func (s *provisioningService) Authorize(ctx context.Context, token string) (*model.Account, error) {
	return s.guard.Authorize(ctx, token)
}

func (s *provisioningService) CreateUser(ctx context.Context, admin *model.Account, in CreateUserInput) (*ProvisionedUser, error) {
	if admin == nil {
		return nil, apperrors.New(apperrors.KindUnauthorized, "Unauthorized", nil)
	}
	s.log.Debug(ctx, "provisioning user", "admin_id", admin.ID, "email", in.Email)
	return s.Provision(ctx, in)
}

func (s *provisioningService) Provision(ctx context.Context, in CreateUserInput) (*ProvisionedUser, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperrors.New(apperrors.KindValidationFailed, "Invalid request", err)
	}

	role := model.Metadata{Roles: in.Roles}.PrimaryRole()
	var undo []func(context.Context) error

	var account *model.Account
	err := s.step(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.provider.AdminCreate(ctx, in.Email, in.Password, true, model.Metadata{Name: in.Name, Roles: in.Roles})
		return err
	})
	if err != nil {
		return nil, apperrors.New(apperrors.KindIdentityCreationFailed, providerMessage(err), err)
	}
	if account == nil || account.ID == uuid.Nil {
		return nil, apperrors.New(apperrors.KindInvariantViolation, "Identity provider returned no account id", apperrors.ErrIdentityCreatedWithoutID)
	}
	id := account.ID
	// The provider may normalise the address; the user record mirrors the account.
	email := account.Email
	if email == "" {
		email = in.Email
	}
	undo = append(undo, func(ctx context.Context) error { return s.provider.AdminDelete(ctx, id) })

	err = s.step(ctx, func(ctx context.Context) error {
		return s.users.Create(ctx, &model.UserRecord{ID: id, Email: email, Name: in.Name})
	})
	if err != nil {
		return nil, s.fail(ctx, undo, apperrors.New(apperrors.KindProfileInsertFailed, "Failed to create user record", err))
	}
	undo = append(undo, func(ctx context.Context) error { return s.users.Delete(ctx, id) })

	switch role {
	case model.RoleAdmin:
		err = s.step(ctx, func(ctx context.Context) error {
			return s.roles.CreateAdmin(ctx, &model.AdminProfile{ID: id})
		})
		if err == nil {
			undo = append(undo, func(ctx context.Context) error { return s.roles.DeleteAdmin(ctx, id) })
		}
	case model.RoleVendor:
		err = s.step(ctx, func(ctx context.Context) error {
			return s.vendors.Create(ctx, &model.VendorProfile{
				ID:       id,
				ShopName: in.ShopName,
				Phone:    in.Phone,
				Location: in.Location,
				PhotoURL: in.PhotoURL,
			})
		})
		if err == nil {
			undo = append(undo, func(ctx context.Context) error { return s.vendors.Delete(ctx, id) })
		}
	default:
		s.log.Warn(ctx, "role has no profile table", "user_id", id, "role", role)
	}
	if err != nil {
		return nil, s.fail(ctx, undo, apperrors.New(apperrors.KindRoleProfileInsertFailed, "Failed to create role profile", err))
	}

	err = s.step(ctx, func(ctx context.Context) error {
		return s.roles.Assign(ctx, &model.RoleAssignment{UserID: id, RoleID: role})
	})
	if err != nil {
		return nil, s.fail(ctx, undo, apperrors.New(apperrors.KindRoleAssignmentFailed, "Failed to assign role", err))
	}

	if role == model.RoleVendor {
		_ = s.cache.Delete(ctx, vendorListCacheKey)
	}
	s.log.Info(ctx, "user provisioned", "user_id", id, "role", role)

	return &ProvisionedUser{ID: id, Email: email, Name: in.Name, Role: role}, nil
}

// step runs one remote call under the per-step timeout.
func (s *provisioningService) step(ctx context.Context, fn func(context.Context) error) error {
	if s.opts.StepTimeout <= 0 {
		return fn(ctx)
	}
	stepCtx, cancel := context.WithTimeout(ctx, s.opts.StepTimeout)
	defer cancel()
	return fn(stepCtx)
}

// fail logs the failed step and, when enabled, undoes earlier writes newest
// first. The original failure is always returned.
func (s *provisioningService) fail(ctx context.Context, undo []func(context.Context) error, failure *apperrors.Error) error {
	s.log.Error(ctx, "provisioning step failed", "kind", failure.Kind, "error", failure.Cause)
	if !s.opts.Compensate {
		return failure
	}
	// The request may already be cancelled; cleanup still has to reach the backends.
	cleanupCtx := context.WithoutCancel(ctx)
	for i := len(undo) - 1; i >= 0; i-- {
		if err := s.step(cleanupCtx, undo[i]); err != nil {
			s.log.Error(ctx, "compensation failed", "kind", failure.Kind, "error", err)
		}
	}
	return failure
}

// providerMessage extracts the message the identity provider reported.
func providerMessage(err error) string {
	var idErr *identity.Error
	if errors.As(err, &idErr) && idErr.Message != "" {
		return idErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Identity provider timed out"
	}
	return "Failed to create identity"
}
