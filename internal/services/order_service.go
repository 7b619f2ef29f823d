package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tenantvolt/internal/models"
	"tenantvolt/internal/repositories"
)

var (
	// ErrOwnerNotFound maps to 404 on the update-status endpoint.
	ErrOwnerNotFound = errors.New("house owner not found")
	// ErrInvalidStatus covers unknown status values and disallowed
	// transitions; both are rejected at the boundary with 400.
	ErrInvalidStatus = errors.New("invalid order status")
)

// OwnerInfo groups the owner contact fields inside an order view.
type OwnerInfo struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	MobileNumber string `json:"mobile_number"`
	Email        string `json:"email"`
	Address      string `json:"address"`
}

// TenantView is an embedded tenant plus its list position.
type TenantView struct {
	TenantIndex int    `json:"tenant_index"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	ProductID   string `json:"product_id"`
}

// OrderView is the UI-oriented shape of one owner's billing cycle: owner
// fields grouped, tenants indexed.
type OrderView struct {
	UID           string             `json:"uid"`
	Owner         OwnerInfo          `json:"owner"`
	OrderStatus   models.OrderStatus `json:"order_status"`
	OrderDateTime string             `json:"order_date_time"`
	CompletedAt   string             `json:"completed_at,omitempty"`
	Tenants       []TenantView       `json:"tenants"`
}

// TenantPatch rewrites fields of the tenant at TenantIndex. Nil fields are
// left unchanged. An out-of-range index is skipped, not rejected.
type TenantPatch struct {
	TenantIndex int     `json:"tenant_index"`
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Address     *string `json:"address,omitempty"`
	ProductID   *string `json:"product_id,omitempty"`
}

// OrderService implements the order-status workflow over owner documents.
type OrderService interface {
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]*OrderView, error)
	UpdateStatus(ctx context.Context, uid, newStatus string, patches []TenantPatch) (string, error)
}

type orderService struct {
	owners repositories.OwnerRepository
	now    func() time.Time
}

func NewOrderService(owners repositories.OwnerRepository) OrderService {
	return &orderService{owners: owners, now: time.Now}
}

func (s *orderService) ListByStatus(ctx context.Context, status models.OrderStatus) ([]*OrderView, error) {
	owners, err := s.owners.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	views := make([]*OrderView, 0, len(owners))
	for _, owner := range owners {
		views = append(views, buildOrderView(owner))
	}
	return views, nil
}

func buildOrderView(owner *models.Owner) *OrderView {
	view := &OrderView{
		UID: owner.UID,
		Owner: OwnerInfo{
			FirstName:    owner.FirstName,
			LastName:     owner.LastName,
			MobileNumber: owner.MobileNumber,
			Email:        owner.Email,
			Address:      owner.Address,
		},
		OrderStatus:   owner.OrderStatus,
		OrderDateTime: owner.OrderDateTime,
		CompletedAt:   owner.CompletedAt,
		Tenants:       make([]TenantView, 0, len(owner.Tenants)),
	}
	for i, t := range owner.Tenants {
		view.Tenants = append(view.Tenants, TenantView{
			TenantIndex: i,
			Name:        t.Name,
			Email:       t.Email,
			Address:     t.Address,
			ProductID:   t.ProductID,
		})
	}
	return view
}

// UpdateStatus applies a status transition and/or tenant patches to an owner
// document and returns the response message. newStatus may be empty when only
// tenants change.
func (s *orderService) UpdateStatus(ctx context.Context, uid, newStatus string, patches []TenantPatch) (string, error) {
	owner, err := s.owners.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repositories.ErrOwnerNotFound) {
			return "", ErrOwnerNotFound
		}
		return "", err
	}

	message := "Tenants updated"
	if newStatus != "" {
		status, err := models.ParseOrderStatus(newStatus)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		}
		if !owner.OrderStatus.CanTransitionTo(status) {
			return "", fmt.Errorf("%w: cannot change status from %s to %s", ErrInvalidStatus, owner.OrderStatus, status)
		}
		if status == models.OrderStatusCompleted && owner.OrderStatus != models.OrderStatusCompleted {
			owner.CompletedAt = s.now().UTC().Format(models.TimeLayout)
		}
		owner.OrderStatus = status
		message = fmt.Sprintf("Order status updated to %s", status)
	}

	for _, patch := range patches {
		// Out-of-range indexes are skipped and the call still succeeds.
		if patch.TenantIndex < 0 || patch.TenantIndex >= len(owner.Tenants) {
			continue
		}
		tenant := &owner.Tenants[patch.TenantIndex]
		if patch.Name != nil {
			tenant.Name = *patch.Name
		}
		if patch.Email != nil {
			tenant.Email = *patch.Email
		}
		if patch.Address != nil {
			tenant.Address = *patch.Address
		}
		if patch.ProductID != nil {
			tenant.ProductID = *patch.ProductID
		}
	}

	if err := s.owners.Save(ctx, uid, owner); err != nil {
		return "", err
	}
	return message, nil
}
