package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerly/finance-api/internal/core/ports"
)

type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Snapshot handles GET /api/dashboard.
//
// @Summary      Dashboard snapshot
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.Snapshot
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Snapshot(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	snap, err := h.service.Snapshot(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}
