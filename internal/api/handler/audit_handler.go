package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerly/finance-api/internal/core/ports"
)

// auditPageSize is the number of records returned by GET /api/audit.
const auditPageSize = 100

type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// Recent handles GET /api/audit.
//
// @Summary      Recent authorization decisions
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.AuditRecord
// @Failure      403  {object}  map[string]string
// @Router       /api/audit [get]
func (h *AuditHandler) Recent(c echo.Context) error {
	records, err := h.service.Recent(c.Request().Context(), auditPageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}
