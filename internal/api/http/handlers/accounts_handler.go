package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// AccountsHandler manages registration, login and profile lookup.
type AccountsHandler struct {
	authService *service.AuthService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authService *service.AuthService) *AccountsHandler {
	return &AccountsHandler{authService: authService}
}

// Register POST /auth/register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	account, token, exp, err := h.authService.Register(c.UserContext(), req.Handle, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AuthResponse{
		Account:   dto.NewAccountResponse(account),
		Token:     token,
		ExpiresAt: exp,
	}})
}

// Login POST /auth/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Identifier == "" || req.Password == "" {
		return apperrors.NewValidationError("identifier, password required", nil)
	}
	account, token, exp, err := h.authService.Login(c.UserContext(), req.Identifier, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Account:   dto.NewAccountResponse(account),
		Token:     token,
		ExpiresAt: exp,
	}})
}

// Me GET /auth/me.
func (h *AccountsHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return apperrors.NewUnauthorized("account required")
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(principal.Account)})
}
