package repositories

import (
	"context"

	"github.com/google/uuid"

	"tenantvolt/internal/docstore"
	"tenantvolt/internal/models"
)

const billsCollection = "bills"

type BillRepository interface {
	// Append writes a new bill document under a fresh id. Bills are
	// append-only; there is no update or delete path.
	Append(ctx context.Context, bill *models.Bill) error
}

type billRepo struct {
	col *docstore.Collection
}

func NewBillRepo(client *docstore.Client) BillRepository {
	return &billRepo{col: client.Collection(billsCollection)}
}

func (r *billRepo) Append(ctx context.Context, bill *models.Bill) error {
	// The generated uuid is the document id, not a stored field; the caller's
	// bill is left untouched.
	saved := *bill
	saved.ID = ""
	return r.col.Set(ctx, uuid.NewString(), &saved)
}
