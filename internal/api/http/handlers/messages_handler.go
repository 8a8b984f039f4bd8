package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// MessagesHandler manages direct messaging endpoints.
type MessagesHandler struct {
	service *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messageService *service.MessageService) *MessagesHandler {
	return &MessagesHandler{service: messageService}
}

// SendMessage POST /messages.
func (h *MessagesHandler) SendMessage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ReceiverID == "" {
		return apperrors.NewValidationError("receiver_id required", nil)
	}
	message, err := h.service.SendMessage(c.UserContext(), principal.Account, req.ReceiverID, req.TicketID, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMessageResponse(message)})
}

// ListConversation GET /messages/with/:peer.
func (h *MessagesHandler) ListConversation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	limit := parseIntDefault(c.Query("limit"), 50)
	offset := parseIntDefault(c.Query("offset"), 0)
	messages, err := h.service.ListConversation(c.UserContext(), principal.Account, c.Params("peer"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, dto.NewMessageResponse(&messages[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Acknowledge POST /messages/:id/ack.
func (h *MessagesHandler) Acknowledge(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.AcknowledgeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	message, err := h.service.Acknowledge(c.UserContext(), principal.Account, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMessageResponse(message)})
}

// UnreadCount GET /messages/unread.
func (h *MessagesHandler) UnreadCount(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	count, err := h.service.UnreadCount(c.UserContext(), principal.Account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UnreadCountResponse{Unread: count}})
}
