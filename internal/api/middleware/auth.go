package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

// IdentityKey is the echo.Context key holding the caller's domain.Identity.
const IdentityKey = "identity"

// Auth verifies the bearer credential and stores the identity in the context.
func Auth(authenticator ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return fmt.Errorf("%w: missing authorization header", domain.ErrUnauthenticated)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return fmt.Errorf("%w: invalid authorization header", domain.ErrUnauthenticated)
			}

			id, err := authenticator.Authenticate(strings.TrimSpace(parts[1]))
			if err != nil {
				return fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
			}

			c.Set(IdentityKey, id)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(IdentityKey).(domain.Identity)
	return id, ok && id.UserID != "" && id.Role != ""
}
