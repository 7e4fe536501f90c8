package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

// InvoiceHandler serves /api/invoices.
type InvoiceHandler struct {
	service ports.InvoiceService
}

func NewInvoiceHandler(service ports.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

type invoiceItemRequest struct {
	Description string    `json:"description"`
	Quantity    flexFloat `json:"quantity"`
	Rate        flexFloat `json:"rate"`
	TaxRate     flexFloat `json:"tax_rate"`
}

type invoiceRequest struct {
	ClientID      *string               `json:"client_id"`
	InvoiceNumber *string               `json:"invoice_number"`
	Status        *string               `json:"status"`
	IssueDate     *flexTime             `json:"issue_date"`
	DueDate       *flexTime             `json:"due_date"`
	Currency      *string               `json:"currency"`
	Notes         *string               `json:"notes"`
	Items         *[]invoiceItemRequest `json:"items"`
}

func (r invoiceRequest) input() ports.InvoiceInput {
	in := ports.InvoiceInput{
		ClientID:      text(r.ClientID),
		InvoiceNumber: text(r.InvoiceNumber),
		Status:        text(r.Status),
		IssueDate:     r.IssueDate.value(),
		DueDate:       r.DueDate.value(),
		Currency:      text(r.Currency),
		Notes:         r.Notes,
	}
	if r.Items != nil {
		items := make([]domain.InvoiceItem, len(*r.Items))
		for i, it := range *r.Items {
			items[i] = domain.InvoiceItem{
				Description: it.Description,
				Quantity:    float64(it.Quantity),
				Rate:        float64(it.Rate),
				TaxRate:     float64(it.TaxRate),
			}
		}
		in.Items = &items
	}
	return in
}

// List handles GET /api/invoices.
//
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Invoice
// @Failure      403  {object}  map[string]string
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	items, err := h.service.List(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/invoices/:id.
//
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice id"
// @Success      200  {object}  domain.Invoice
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) Get(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	inv, err := h.service.Get(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inv)
}

// Create handles POST /api/invoices.
//
// @Summary      Create an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      invoiceRequest  true  "Invoice"
// @Success      201   {object}  domain.Invoice
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req invoiceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	inv, err := h.service.Create(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, inv)
}

// Update handles PUT /api/invoices/:id.
//
// @Summary      Update an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Invoice id"
// @Param        body  body      invoiceRequest  true  "Fields to change"
// @Success      200   {object}  domain.Invoice
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req invoiceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	inv, err := h.service.Update(c.Request().Context(), id, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inv)
}

// Delete handles DELETE /api/invoices/:id.
//
// @Summary      Delete an invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice id"
// @Success      200  {object}  domain.Invoice
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	inv, err := h.service.Delete(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inv)
}
