package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"tenantvolt/internal/common"
	"tenantvolt/internal/services"
)

// BillHandlers serves the bill notification endpoint.
type BillHandlers struct {
	billing services.BillingService
}

func NewBillHandlers(billing services.BillingService) *BillHandlers {
	return &BillHandlers{billing: billing}
}

// SendNotificationRequest uses pointers so absent fields can be told apart
// from zero values; each missing field is reported by name.
type SendNotificationRequest struct {
	ProductID *string  `json:"product_id"`
	Month     *string  `json:"month"`
	Amount    *float64 `json:"amount"`
	KwValue   *float64 `json:"kw_value"`
}

// SendNotification finds the tenant billed through product_id, emails the
// bill and records it.
func (h *BillHandlers) SendNotification(c echo.Context) error {
	ctx := c.Request().Context()

	var req SendNotificationRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, http.StatusBadRequest, "Invalid JSON")
	}

	switch {
	case req.ProductID == nil:
		return common.RespondError(c, http.StatusBadRequest, "Missing required field: product_id")
	case req.Month == nil:
		return common.RespondError(c, http.StatusBadRequest, "Missing required field: month")
	case req.Amount == nil:
		return common.RespondError(c, http.StatusBadRequest, "Missing required field: amount")
	case req.KwValue == nil:
		return common.RespondError(c, http.StatusBadRequest, "Missing required field: kw_value")
	}

	result, err := h.billing.SendBillNotification(ctx, &services.BillNotificationRequest{
		ProductID: *req.ProductID,
		Month:     *req.Month,
		Amount:    *req.Amount,
		KwValue:   *req.KwValue,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidMonth):
			return common.RespondError(c, http.StatusBadRequest, "Invalid month format. Expected YYYY-MM")
		case errors.Is(err, services.ErrNoTenantMatch):
			return common.RespondError(c, http.StatusNotFound,
				fmt.Sprintf("No tenant found with product_id: %s", *req.ProductID))
		case errors.Is(err, services.ErrMailDelivery):
			log.Printf("Error sending bill notification: %v", err)
			return common.RespondError(c, http.StatusInternalServerError, "Failed to send email notification")
		default:
			log.Printf("Error sending bill notification: %v", err)
			return common.RespondErrorMessage(c, http.StatusInternalServerError, "Server error", "failed to send notification")
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": result.Message,
		"tenant":  result.Tenant,
		"bill":    result.Bill,
	})
}
