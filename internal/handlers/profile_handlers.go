package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tenantvolt/internal/common"
	"tenantvolt/internal/models"
	"tenantvolt/internal/repositories"
)

// ProfileHandlers serves the bearer-guarded profile document endpoints.
type ProfileHandlers struct {
	profiles repositories.ProfileRepository
}

func NewProfileHandlers(profiles repositories.ProfileRepository) *ProfileHandlers {
	return &ProfileHandlers{profiles: profiles}
}

// Get returns the caller's profile. A missing profile document is reported
// as hasProfile=false with empty fields, never as an error.
func (h *ProfileHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	uid, ok := common.GetUserUIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	email, _ := common.GetUserEmailFromContext(ctx)

	user := map[string]interface{}{
		"uid":        uid,
		"email":      email,
		"name":       "",
		"district":   "",
		"address":    "",
		"telephone":  "",
		"hasProfile": false,
	}

	profile, err := h.profiles.Get(ctx, uid)
	if err != nil {
		if !errors.Is(err, repositories.ErrProfileNotFound) {
			log.Printf("Profile get error for %s: %v", uid, err)
			return common.RespondError(c, http.StatusInternalServerError, "Server error")
		}
	} else {
		user["name"] = profile.Name
		user["district"] = profile.District
		user["address"] = profile.Address
		user["telephone"] = profile.Telephone
		user["hasProfile"] = true
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// UpdateProfileRequest carries the editable profile fields. Missing fields
// default to empty strings; there is no further validation.
type UpdateProfileRequest struct {
	Name      string `json:"name"`
	District  string `json:"district"`
	Address   string `json:"address"`
	Telephone string `json:"telephone"`
}

// Update merge-writes the supplied fields and stamps the update time.
func (h *ProfileHandlers) Update(c echo.Context) error {
	ctx := c.Request().Context()

	uid, ok := common.GetUserUIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, http.StatusBadRequest, "Invalid JSON")
	}

	fields := map[string]interface{}{
		"name":       req.Name,
		"district":   req.District,
		"address":    req.Address,
		"telephone":  req.Telephone,
		"updated_at": time.Now().UTC().Format(models.TimeLayout),
	}

	if err := h.profiles.Merge(ctx, uid, fields); err != nil {
		log.Printf("Profile update error for %s: %v", uid, err)
		return common.RespondError(c, http.StatusInternalServerError, "Server error")
	}

	profile, err := h.profiles.Get(ctx, uid)
	if err != nil {
		log.Printf("Profile reload error for %s: %v", uid, err)
		return common.RespondError(c, http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": profile,
	})
}
