package common

import (
	"context"

	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	// UserUIDKey carries the identity-provider uid of the authenticated caller.
	UserUIDKey contextKey = "user_uid"
	// UserEmailKey carries the email claim of the authenticated caller.
	UserEmailKey contextKey = "user_email"
)

// GetUserUIDFromContext extracts the caller's uid from the request context.
func GetUserUIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(UserUIDKey).(string)
	return uid, ok && uid != ""
}

// GetUserEmailFromContext extracts the caller's email from the request context.
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// RespondError writes the {success:false, error} envelope used across the API.
func RespondError(c echo.Context, status int, errMsg string) error {
	return c.JSON(status, map[string]interface{}{
		"success": false,
		"error":   errMsg,
	})
}

// RespondErrorMessage is RespondError with the secondary message field some
// endpoints carry alongside the error code.
func RespondErrorMessage(c echo.Context, status int, errMsg, message string) error {
	return c.JSON(status, map[string]interface{}{
		"success": false,
		"error":   errMsg,
		"message": message,
	})
}
