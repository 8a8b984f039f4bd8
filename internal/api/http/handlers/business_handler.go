package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// BusinessHandler manages business profiles, employees and invitations.
type BusinessHandler struct {
	service *service.BusinessService
}

// NewBusinessHandler constructs handler.
func NewBusinessHandler(businessService *service.BusinessService) *BusinessHandler {
	return &BusinessHandler{service: businessService}
}

// CreateProfile POST /business/profile.
func (h *BusinessHandler) CreateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.BusinessProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	profile, err := h.service.CreateProfile(c.UserContext(), principal.Account, req.DisplayName, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBusinessProfileResponse(profile)})
}

// UpdateProfile PUT /business/profile.
func (h *BusinessHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.BusinessProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	profile, err := h.service.UpdateProfile(c.UserContext(), principal.Account, req.DisplayName, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBusinessProfileResponse(profile)})
}

// GetOwnProfile GET /business/profile.
func (h *BusinessHandler) GetOwnProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	profile, err := h.service.GetOwnProfile(c.UserContext(), principal.Account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBusinessProfileResponse(profile)})
}

// GetProfile GET /businesses/:id.
func (h *BusinessHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.service.GetProfile(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBusinessProfileResponse(profile)})
}

// InviteEmployee POST /business/invitations.
func (h *BusinessHandler) InviteEmployee(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.InviteEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.EmployeeID == "" {
		return apperrors.NewValidationError("employee_id required", nil)
	}
	invitation, err := h.service.InviteEmployee(c.UserContext(), principal.Account, req.EmployeeID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewInvitationResponse(invitation)})
}

// ListBusinessInvitations GET /business/invitations.
func (h *BusinessHandler) ListBusinessInvitations(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	invitations, err := h.service.ListBusinessInvitations(c.UserContext(), principal.Account)
	if err != nil {
		return err
	}
	items := make([]dto.InvitationResponse, 0, len(invitations))
	for i := range invitations {
		items = append(items, dto.NewInvitationResponse(&invitations[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListEmployeeInvitations GET /invitations.
func (h *BusinessHandler) ListEmployeeInvitations(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	invitations, err := h.service.ListEmployeeInvitations(c.UserContext(), principal.Account)
	if err != nil {
		return err
	}
	items := make([]dto.InvitationResponse, 0, len(invitations))
	for i := range invitations {
		items = append(items, dto.NewInvitationResponse(&invitations[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ResolveInvitation POST /invitations/:id/resolve.
func (h *BusinessHandler) ResolveInvitation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.ResolveInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	invitation, membership, err := h.service.ResolveInvitation(c.UserContext(), principal.Account, c.Params("id"), req.Accept)
	if err != nil {
		return err
	}
	response := fiber.Map{"invitation": dto.NewInvitationResponse(invitation)}
	if membership != nil {
		response["membership"] = dto.NewEmployeeResponse(membership)
	}
	return c.JSON(fiber.Map{"data": response})
}

// ListEmployees GET /business/employees.
func (h *BusinessHandler) ListEmployees(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	employees, err := h.service.ListEmployees(c.UserContext(), principal.Account)
	if err != nil {
		return err
	}
	items := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		items = append(items, dto.NewEmployeeResponse(&employees[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeactivateEmployee DELETE /business/employees/:id.
func (h *BusinessHandler) DeactivateEmployee(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	if err := h.service.DeactivateEmployee(c.UserContext(), principal.Account, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
