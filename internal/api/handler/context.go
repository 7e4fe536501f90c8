package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/ledgerly/finance-api/internal/api/middleware"
	"github.com/ledgerly/finance-api/internal/core/domain"
)

// identity extracts the caller injected by the Auth middleware. A missing
// identity means the route was registered without Auth.
func identity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, fmt.Errorf("%w: missing authentication claims", domain.ErrUnauthenticated)
	}
	return id, nil
}
