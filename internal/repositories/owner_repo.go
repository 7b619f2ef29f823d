package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"tenantvolt/internal/docstore"
	"tenantvolt/internal/models"
)

const ownersCollection = "house_owners"

// ErrOwnerNotFound is returned when no owner document exists for a uid.
var ErrOwnerNotFound = docstore.ErrNotFound

type OwnerRepository interface {
	GetByUID(ctx context.Context, uid string) (*models.Owner, error)
	Save(ctx context.Context, uid string, owner *models.Owner) error
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]*models.Owner, error)
	StreamAll(ctx context.Context, each func(owner *models.Owner) error) error
}

type ownerRepo struct {
	col *docstore.Collection
}

func NewOwnerRepo(client *docstore.Client) OwnerRepository {
	return &ownerRepo{col: client.Collection(ownersCollection)}
}

func (r *ownerRepo) GetByUID(ctx context.Context, uid string) (*models.Owner, error) {
	owner := &models.Owner{}
	if err := r.col.Get(ctx, uid, owner); err != nil {
		return nil, err
	}
	owner.UID = uid
	return owner, nil
}

func (r *ownerRepo) Save(ctx context.Context, uid string, owner *models.Owner) error {
	// The uid is the document id, not a stored field.
	saved := *owner
	saved.UID = ""
	return r.col.Set(ctx, uid, &saved)
}

func (r *ownerRepo) ListByStatus(ctx context.Context, status models.OrderStatus) ([]*models.Owner, error) {
	var owners []*models.Owner
	err := r.col.QueryEqual(ctx, "order_status", string(status), func(id string, data []byte) error {
		owner := &models.Owner{}
		if err := json.Unmarshal(data, owner); err != nil {
			return fmt.Errorf("failed to decode owner %s: %w", id, err)
		}
		owner.UID = id
		owners = append(owners, owner)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return owners, nil
}

func (r *ownerRepo) StreamAll(ctx context.Context, each func(owner *models.Owner) error) error {
	return r.col.StreamAll(ctx, func(id string, data []byte) error {
		owner := &models.Owner{}
		if err := json.Unmarshal(data, owner); err != nil {
			return fmt.Errorf("failed to decode owner %s: %w", id, err)
		}
		owner.UID = id
		return each(owner)
	})
}
