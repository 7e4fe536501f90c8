package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
)

// Authorize enforces the permission table entry for (res, act). It must run
// after Auth and before the handler touches the store.
func Authorize(authz *access.Authorizer, res access.Resource, act access.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := Check(c, authz, res, act); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// Check runs one authorization decision for the current request. Handlers
// whose resource depends on the payload call it directly.
func Check(c echo.Context, authz *access.Authorizer, res access.Resource, act access.Action) error {
	id, ok := IdentityFrom(c)
	if !ok {
		return fmt.Errorf("%w: missing identity", domain.ErrUnauthenticated)
	}

	d := authz.Authorize(c.Request().Context(), access.Request{
		Identity: id,
		Resource: res,
		Action:   act,
		IP:       c.RealIP(),
		Path:     c.Request().URL.Path,
	})
	if !d.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrForbidden, d.Reason)
	}
	return nil
}
