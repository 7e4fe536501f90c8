package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerly/finance-api/internal/core/ports"
)

// ClientHandler serves /api/clients.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

type clientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	GSTIN   *string `json:"gstin"`
}

func (r clientRequest) input() ports.ClientInput {
	return ports.ClientInput{
		Name:    text(r.Name),
		Email:   text(r.Email),
		Phone:   text(r.Phone),
		Address: text(r.Address),
		GSTIN:   text(r.GSTIN),
	}
}

// List handles GET /api/clients.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Client
// @Failure      403  {object}  map[string]string
// @Router       /api/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
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

// Get handles GET /api/clients/:id.
//
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  domain.Client
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	cl, err := h.service.Get(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}

// Create handles POST /api/clients.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      clientRequest  true  "Client"
// @Success      201   {object}  domain.Client
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req clientRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := h.service.Create(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cl)
}

// Update handles PUT /api/clients/:id.
//
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Client id"
// @Param        body  body      clientRequest  true  "Fields to change"
// @Success      200   {object}  domain.Client
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req clientRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := h.service.Update(c.Request().Context(), id, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}

// Delete handles DELETE /api/clients/:id.
//
// @Summary      Delete a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  domain.Client
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	cl, err := h.service.Delete(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}
