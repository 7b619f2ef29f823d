package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"tenantvolt/internal/common"
	"tenantvolt/internal/identity"
)

// RequireAuth guards a route group behind a bearer ID token. On success the
// caller's uid and email are injected into the request context.
func RequireAuth(verifier identity.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header required")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			claims, err := verifier.Verify(c.Request().Context(), tokenString)
			if err != nil {
				if errors.Is(err, identity.ErrUserDisabled) {
					return echo.NewHTTPError(http.StatusForbidden, "Account disabled")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			ctx := context.WithValue(c.Request().Context(), common.UserUIDKey, claims.UID)
			ctx = context.WithValue(ctx, common.UserEmailKey, claims.Email)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
