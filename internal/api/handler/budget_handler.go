package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerly/finance-api/internal/core/ports"
)

// BudgetHandler serves /api/budgets.
type BudgetHandler struct {
	service ports.BudgetService
}

func NewBudgetHandler(service ports.BudgetService) *BudgetHandler {
	return &BudgetHandler{service: service}
}

type budgetRequest struct {
	CategoryID *string    `json:"category_id"`
	Target     *flexFloat `json:"target"`
	StartDate  *flexTime  `json:"start_date"`
	EndDate    *flexTime  `json:"end_date"`
	Notes      *string    `json:"notes"`
}

func (r budgetRequest) input() ports.BudgetInput {
	return ports.BudgetInput{
		CategoryID: text(r.CategoryID),
		Target:     r.Target.value(),
		StartDate:  r.StartDate.value(),
		EndDate:    r.EndDate.value(),
		Notes:      r.Notes,
	}
}

// List handles GET /api/budgets.
//
// @Summary      List budgets
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Budget
// @Failure      403  {object}  map[string]string
// @Router       /api/budgets [get]
func (h *BudgetHandler) List(c echo.Context) error {
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

// Create handles POST /api/budgets.
//
// @Summary      Create a budget
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      budgetRequest  true  "Budget"
// @Success      201   {object}  domain.Budget
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/budgets [post]
func (h *BudgetHandler) Create(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req budgetRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	b, err := h.service.Create(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, b)
}

// Update handles PUT /api/budgets/:id.
//
// @Summary      Update a budget
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Budget id"
// @Param        body  body      budgetRequest  true  "Fields to change"
// @Success      200   {object}  domain.Budget
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/budgets/{id} [put]
func (h *BudgetHandler) Update(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req budgetRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	b, err := h.service.Update(c.Request().Context(), id, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// Delete handles DELETE /api/budgets/:id.
//
// @Summary      Delete a budget
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Budget id"
// @Success      200  {object}  domain.Budget
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	b, err := h.service.Delete(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}
