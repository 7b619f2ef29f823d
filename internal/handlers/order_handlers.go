package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"tenantvolt/internal/common"
	"tenantvolt/internal/models"
	"tenantvolt/internal/services"
)

// OrderHandlers serves billing-cycle listing and the status update endpoint.
type OrderHandlers struct {
	orders services.OrderService
}

func NewOrderHandlers(orders services.OrderService) *OrderHandlers {
	return &OrderHandlers{orders: orders}
}

// GetPendingOrders lists every owner whose billing cycle is still pending.
func (h *OrderHandlers) GetPendingOrders(c echo.Context) error {
	return h.listByStatus(c, models.OrderStatusPending)
}

// GetCompletedOrders lists every owner whose billing cycle has completed.
func (h *OrderHandlers) GetCompletedOrders(c echo.Context) error {
	return h.listByStatus(c, models.OrderStatusCompleted)
}

func (h *OrderHandlers) listByStatus(c echo.Context, status models.OrderStatus) error {
	views, err := h.orders.ListByStatus(c.Request().Context(), status)
	if err != nil {
		log.Printf("Error getting %s orders: %v", status, err)
		return common.RespondErrorMessage(c, http.StatusInternalServerError, "Server error", "failed to list orders")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(views),
		"orders":  views,
	})
}

// UpdateOrderStatusRequest carries a status transition and/or tenant patches
// for one owner. uid is required together with at least one of the other
// two fields.
type UpdateOrderStatusRequest struct {
	UID         string                 `json:"uid"`
	OrderStatus string                 `json:"order_status"`
	Tenants     []services.TenantPatch `json:"tenants"`
}

// UpdateOrderStatus applies the requested changes to the owner document.
func (h *OrderHandlers) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, http.StatusBadRequest, "Invalid JSON")
	}

	if req.UID == "" || (req.OrderStatus == "" && len(req.Tenants) == 0) {
		return common.RespondErrorMessage(c, http.StatusBadRequest, "Missing required fields",
			"uid and one of order_status or tenants are required")
	}

	message, err := h.orders.UpdateStatus(ctx, req.UID, req.OrderStatus, req.Tenants)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOwnerNotFound):
			return common.RespondErrorMessage(c, http.StatusNotFound, "Not found",
				fmt.Sprintf("No house owner found with UID: %s", req.UID))
		case errors.Is(err, services.ErrInvalidStatus):
			return common.RespondErrorMessage(c, http.StatusBadRequest, "Invalid order status", err.Error())
		default:
			log.Printf("Error updating order status for %s: %v", req.UID, err)
			return common.RespondErrorMessage(c, http.StatusInternalServerError, "Server error", "failed to update order")
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
	})
}
