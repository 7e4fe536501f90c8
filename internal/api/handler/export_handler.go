package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerly/finance-api/internal/api/middleware"
	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

// ExportHandler serves POST /api/export. The resource being exported comes
// from the body, so authorization runs here instead of in the route chain.
type ExportHandler struct {
	service ports.ExportService
	authz   *access.Authorizer
}

func NewExportHandler(service ports.ExportService, authz *access.Authorizer) *ExportHandler {
	return &ExportHandler{service: service, authz: authz}
}

type exportRequest struct {
	Format           string    `json:"format"`
	Type             string    `json:"type" validate:"required,oneof=transactions budgets"`
	StartDate        *flexTime `json:"startDate"`
	EndDate          *flexTime `json:"endDate"`
	IncludeSensitive flexBool  `json:"includeSensitive"`
}

func (r exportRequest) input() ports.ExportInput {
	in := ports.ExportInput{
		Format:           ports.ExportFormat(r.Format),
		Type:             r.Type,
		IncludeSensitive: bool(r.IncludeSensitive),
	}
	if from := r.StartDate.value(); from != nil {
		in.From = *from
	}
	if to := r.EndDate.value(); to != nil {
		in.To = *to
	}
	return in
}

// ExportResources lists the resources POST /api/export can authorize against.
var ExportResources = []access.Resource{access.ResourceTransactions, access.ResourceBudgets}

// Export handles POST /api/export.
//
// @Summary      Export transactions or budgets
// @Tags         export
// @Accept       json
// @Produce      text/csv,application/pdf
// @Security     BearerAuth
// @Param        body  body      exportRequest  true  "Export options"
// @Success      200   {file}    file
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/export [post]
func (h *ExportHandler) Export(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req exportRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := middleware.Check(c, h.authz, access.Resource(req.Type), access.ActionExport); err != nil {
		return err
	}

	file, err := h.service.Export(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	return c.Blob(http.StatusOK, file.ContentType, file.Body)
}
