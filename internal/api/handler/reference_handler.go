package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerly/finance-api/internal/core/domain"
)

// Categories handles GET /api/categories.
//
// @Summary      Category reference list
// @Tags         reference
// @Produce      json
// @Success      200  {array}  domain.Category
// @Router       /api/categories [get]
func Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.Categories())
}

// Accounts handles GET /api/accounts.
//
// @Summary      Account reference list
// @Tags         reference
// @Produce      json
// @Success      200  {array}  domain.Account
// @Router       /api/accounts [get]
func Accounts(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.Accounts())
}
