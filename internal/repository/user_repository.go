package repository

import (
	"context"

	"github.com/google/uuid"

	"legumes/internal/model"
	"legumes/internal/store"
)

// UserRepository writes user records to the record store.
type UserRepository interface {
	Create(ctx context.Context, user *model.UserRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	store store.Client
}

// NewUserRepository builds a repository over the record store.
func NewUserRepository(client store.Client) UserRepository {
	return &userRepository{store: client}
}

func (r *userRepository) Create(ctx context.Context, user *model.UserRecord) error {
	return insert(ctx, r.store, model.TableUsers, user)
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, model.TableUsers, store.EqualTo("id", id))
}

// insert stores one JSON-tagged value as a row.
func insert(ctx context.Context, client store.Client, table string, v any) error {
	row, err := store.RowOf(v)
	if err != nil {
		return err
	}
	_, err = client.Insert(ctx, table, row)
	return err
}
