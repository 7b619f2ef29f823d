package repositories

import (
	"context"

	"tenantvolt/internal/docstore"
	"tenantvolt/internal/models"
)

const profilesCollection = "profiles"

// ErrProfileNotFound signals an owner without a profile document; callers
// translate it into hasProfile=false rather than an error response.
var ErrProfileNotFound = docstore.ErrNotFound

type ProfileRepository interface {
	Get(ctx context.Context, uid string) (*models.Profile, error)
	Merge(ctx context.Context, uid string, fields map[string]interface{}) error
}

type profileRepo struct {
	col *docstore.Collection
}

func NewProfileRepo(client *docstore.Client) ProfileRepository {
	return &profileRepo{col: client.Collection(profilesCollection)}
}

func (r *profileRepo) Get(ctx context.Context, uid string) (*models.Profile, error) {
	profile := &models.Profile{}
	if err := r.col.Get(ctx, uid, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *profileRepo) Merge(ctx context.Context, uid string, fields map[string]interface{}) error {
	return r.col.Merge(ctx, uid, fields)
}
