package repository

import (
	"context"

	"github.com/google/uuid"

	"legumes/internal/model"
	"legumes/internal/store"
)

// listingProjection joins each vendor with the name and email of its user record.
var listingProjection = store.Projection{
	Embeds: []store.Embed{{
		Table:      model.TableUsers,
		Columns:    []string{"name", "email"},
		LocalKey:   "id",
		ForeignKey: "id",
	}},
}

// VendorRepository manages vendor profiles in the record store.
type VendorRepository interface {
	Create(ctx context.Context, vendor *model.VendorProfile) error
	List(ctx context.Context) ([]model.VendorListing, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.VendorListing, error)
	// Update returns the updated rows; none means no vendor has that id.
	Update(ctx context.Context, id uuid.UUID, patch model.VendorPatch) ([]model.VendorProfile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type vendorRepository struct {
	store store.Client
}

// NewVendorRepository builds a repository over the record store.
func NewVendorRepository(client store.Client) VendorRepository {
	return &vendorRepository{store: client}
}

func (r *vendorRepository) Create(ctx context.Context, vendor *model.VendorProfile) error {
	return insert(ctx, r.store, model.TableVendors, vendor)
}

func (r *vendorRepository) List(ctx context.Context) ([]model.VendorListing, error) {
	rows, err := r.store.Select(ctx, model.TableVendors, listingProjection, nil)
	if err != nil {
		return nil, err
	}
	var vendors []model.VendorListing
	if err := store.Decode(rows, &vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *vendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.VendorListing, error) {
	eq := store.EqualTo("id", id)
	rows, err := r.store.Select(ctx, model.TableVendors, listingProjection, &eq)
	if err != nil {
		return nil, err
	}
	var vendors []model.VendorListing
	if err := store.Decode(rows, &vendors); err != nil {
		return nil, err
	}
	if len(vendors) == 0 {
		return nil, nil
	}
	return &vendors[0], nil
}

func (r *vendorRepository) Update(ctx context.Context, id uuid.UUID, patch model.VendorPatch) ([]model.VendorProfile, error) {
	row, err := store.RowOf(patch)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Update(ctx, model.TableVendors, store.EqualTo("id", id), row)
	if err != nil {
		return nil, err
	}
	var vendors []model.VendorProfile
	if err := store.Decode(rows, &vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *vendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, model.TableVendors, store.EqualTo("id", id))
}
