package service

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "legumes/internal/errors"
	"legumes/internal/logging"
	"legumes/internal/model"
	"legumes/internal/repository"
)

// ForbiddenVendorMessage is returned when a caller modifies another vendor's profile.
const ForbiddenVendorMessage = "Only admins or the vendor itself can modify this vendor"

// VendorService exposes the vendor directory.
type VendorService interface {
	List(ctx context.Context) ([]model.VendorListing, error)
	Update(ctx context.Context, actor *model.Account, id uuid.UUID, patch model.VendorPatch) (*model.VendorProfile, error)
	Delete(ctx context.Context, actor *model.Account, id uuid.UUID) error
}

type vendorService struct {
	repo     repository.VendorRepository
	cache    Cache
	validate *validator.Validate
	log      logging.Logger
}

// NewVendorService builds a VendorService with repository and cache.
func NewVendorService(repo repository.VendorRepository, cache Cache, log logging.Logger) VendorService {
	return &vendorService{repo: repo, cache: cache, validate: validator.New(), log: log}
}

func (s *vendorService) List(ctx context.Context) ([]model.VendorListing, error) {
	if data, _ := s.cache.Get(ctx, vendorListCacheKey); data != nil {
		var cached []model.VendorListing
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	vendors, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.New(apperrors.KindInternal, "Failed to list vendors", err)
	}
	if vendors == nil {
		vendors = []model.VendorListing{}
	}

	if payload, err := json.Marshal(vendors); err == nil {
		_ = s.cache.Set(ctx, vendorListCacheKey, payload, vendorListCacheTTL)
	}
	return vendors, nil
}

func (s *vendorService) Update(ctx context.Context, actor *model.Account, id uuid.UUID, patch model.VendorPatch) (*model.VendorProfile, error) {
	if err := authorizeVendorActor(actor, id); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, apperrors.New(apperrors.KindValidationFailed, "Nothing to update", nil)
	}
	if err := s.validate.Struct(patch); err != nil {
		return nil, apperrors.New(apperrors.KindValidationFailed, "Invalid request", err)
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, apperrors.New(apperrors.KindInternal, "Failed to update vendor", err)
	}
	if len(updated) == 0 {
		return nil, apperrors.ErrVendorNotFound
	}
	_ = s.cache.Delete(ctx, vendorListCacheKey)
	s.log.Info(ctx, "vendor updated", "vendor_id", id, "actor_id", actor.ID)
	return &updated[0], nil
}

func (s *vendorService) Delete(ctx context.Context, actor *model.Account, id uuid.UUID) error {
	if err := authorizeVendorActor(actor, id); err != nil {
		return err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apperrors.New(apperrors.KindInternal, "Failed to delete vendor", err)
	}
	if existing == nil {
		return apperrors.ErrVendorNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.New(apperrors.KindInternal, "Failed to delete vendor", err)
	}
	_ = s.cache.Delete(ctx, vendorListCacheKey)
	s.log.Info(ctx, "vendor deleted", "vendor_id", id, "actor_id", actor.ID)
	return nil
}

// authorizeVendorActor lets admins touch any vendor and vendors only themselves.
func authorizeVendorActor(actor *model.Account, id uuid.UUID) error {
	if actor == nil {
		return apperrors.New(apperrors.KindUnauthorized, "Unauthorized", nil)
	}
	if actor.Metadata.HasRole(model.RoleAdmin) {
		return nil
	}
	if actor.Metadata.HasRole(model.RoleVendor) && actor.ID == id {
		return nil
	}
	return apperrors.New(apperrors.KindForbidden, ForbiddenVendorMessage, nil)
}
