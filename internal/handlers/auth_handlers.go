package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tenantvolt/internal/common"
	"tenantvolt/internal/identity"
	"tenantvolt/internal/models"
	"tenantvolt/internal/repositories"
)

// AuthHandlers handles credential sign-in and account registration. Both
// delegate verification and account storage to the identity provider.
type AuthHandlers struct {
	provider identity.Provider
	owners   repositories.OwnerRepository
}

func NewAuthHandlers(provider identity.Provider, owners repositories.OwnerRepository) *AuthHandlers {
	return &AuthHandlers{provider: provider, owners: owners}
}

// LoginRequest is the credential sign-in payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the identity provider and returns the issued
// token plus the owner document when one exists.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, http.StatusBadRequest, "Invalid JSON")
	}

	if req.Email == "" || req.Password == "" {
		return common.RespondError(c, http.StatusBadRequest, "Missing required fields")
	}

	session, err := h.provider.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		// Provider error strings are surfaced verbatim.
		var provErr *identity.ProviderError
		if errors.As(err, &provErr) {
			return common.RespondError(c, http.StatusUnauthorized, provErr.Code)
		}
		log.Printf("Login error: %v", err)
		return common.RespondError(c, http.StatusUnauthorized, "Authentication failed")
	}

	response := map[string]interface{}{
		"success": true,
		"token":   session.IDToken,
		"uid":     session.UID,
	}

	// The owner profile is optional at login; a freshly created account may
	// not have one yet.
	owner, err := h.owners.GetByUID(ctx, session.UID)
	if err == nil {
		response["user"] = owner
	} else if !errors.Is(err, repositories.ErrOwnerNotFound) {
		log.Printf("Login: failed to load owner %s: %v", session.UID, err)
	}

	return c.JSON(http.StatusOK, response)
}

// SignupRequest is the registration payload. Every field is required and the
// tenant list must not be empty.
type SignupRequest struct {
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	MobileNumber string          `json:"mobile_number"`
	Email        string          `json:"email"`
	Password     string          `json:"password"`
	Address      string          `json:"address"`
	Tenants      []models.Tenant `json:"tenants"`
}

// Signup registers the account with the identity provider and writes the
// owner document with a pending billing cycle.
func (h *AuthHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return common.RespondError(c, http.StatusBadRequest, "Invalid JSON")
	}

	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" ||
		req.MobileNumber == "" || req.Address == "" || len(req.Tenants) == 0 {
		return common.RespondError(c, http.StatusBadRequest, "Missing required fields")
	}

	uid, err := h.provider.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		var provErr *identity.ProviderError
		if errors.As(err, &provErr) {
			return common.RespondError(c, http.StatusBadRequest, provErr.Code)
		}
		log.Printf("Signup error: %v", err)
		return common.RespondError(c, http.StatusInternalServerError, "Server error")
	}

	owner := &models.Owner{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		MobileNumber:  req.MobileNumber,
		Email:         req.Email,
		Address:       req.Address,
		OrderStatus:   models.OrderStatusPending,
		OrderDateTime: time.Now().UTC().Format(models.TimeLayout),
		Tenants:       req.Tenants,
	}

	if err := h.owners.Save(ctx, uid, owner); err != nil {
		log.Printf("Signup: failed to save owner %s: %v", uid, err)
		return common.RespondError(c, http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
