package repository

import (
	"context"

	"github.com/google/uuid"

	"legumes/internal/model"
	"legumes/internal/store"
)

// RoleRepository writes role assignments and admin profiles.
type RoleRepository interface {
	CreateAdmin(ctx context.Context, admin *model.AdminProfile) error
	DeleteAdmin(ctx context.Context, id uuid.UUID) error
	Assign(ctx context.Context, assignment *model.RoleAssignment) error
}

type roleRepository struct {
	store store.Client
}

// NewRoleRepository builds a repository over the record store.
func NewRoleRepository(client store.Client) RoleRepository {
	return &roleRepository{store: client}
}

func (r *roleRepository) CreateAdmin(ctx context.Context, admin *model.AdminProfile) error {
	return insert(ctx, r.store, model.TableAdmins, admin)
}

func (r *roleRepository) DeleteAdmin(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, model.TableAdmins, store.EqualTo("id", id))
}

func (r *roleRepository) Assign(ctx context.Context, assignment *model.RoleAssignment) error {
	return insert(ctx, r.store, model.TableUserRoles, assignment)
}
