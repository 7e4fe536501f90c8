package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

type registerResponse struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	Role  domain.Role `json:"role"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{ID: user.ID, Email: user.Email, Role: user.Role})
}

// Login authenticates a user and returns a signed token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, Role: user.Role})
}

// Me echoes the caller's identity claim.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Identity
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, id)
}
