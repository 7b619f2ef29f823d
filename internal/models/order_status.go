package models

import "fmt"

// OrderStatus is the billing-cycle state stored on an owner document.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

// ParseOrderStatus rejects anything outside the closed status set.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusCompleted:
		return OrderStatus(s), nil
	default:
		return "", fmt.Errorf("order status must be one of: pending, completed")
	}
}

// CanTransitionTo reports whether the transition is allowed. The only real
// transition is pending -> completed; re-setting the current status is
// accepted so repeated update calls stay harmless.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	return s == OrderStatusPending && next == OrderStatusCompleted
}
