package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tenantvolt/internal/docstore"
)

// HealthHandlers serves liveness and readiness probes.
type HealthHandlers struct {
	store *docstore.Client
}

func NewHealthHandlers(store *docstore.Client) *HealthHandlers {
	return &HealthHandlers{store: store}
}

// Check is the basic liveness probe.
func (h *HealthHandlers) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Ready additionally pings the document store.
func (h *HealthHandlers) Ready(c echo.Context) error {
	if err := h.store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "document store unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
	})
}
