package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// SendMessageRequest payload.
type SendMessageRequest struct {
	ReceiverID string  `json:"receiver_id"`
	TicketID   *string `json:"ticket_id,omitempty"`
	Content    string  `json:"content"`
}

// AcknowledgeRequest payload.
type AcknowledgeRequest struct {
	Status domain.MessageStatus `json:"status"`
}

// MessageResponse response.
type MessageResponse struct {
	ID            string               `json:"id"`
	SenderID      string               `json:"sender_id"`
	ReceiverID    string               `json:"receiver_id"`
	TicketID      *string              `json:"ticket_id,omitempty"`
	Content       string               `json:"content"`
	Status        domain.MessageStatus `json:"status"`
	ChatInitiator bool                 `json:"chat_initiator"`
	ChatStartedAt *time.Time           `json:"chat_started_at,omitempty"`
	SentAt        time.Time            `json:"sent_at"`
	DeliveredAt   *time.Time           `json:"delivered_at,omitempty"`
	ReadAt        *time.Time           `json:"read_at,omitempty"`
}

// UnreadCountResponse response.
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// NewMessageResponse maps a domain message.
func NewMessageResponse(message *domain.Message) MessageResponse {
	return MessageResponse{
		ID:            message.ID,
		SenderID:      message.SenderID,
		ReceiverID:    message.ReceiverID,
		TicketID:      message.TicketID,
		Content:       message.Content,
		Status:        message.Status,
		ChatInitiator: message.ChatInitiator,
		ChatStartedAt: message.ChatStartedAt,
		SentAt:        message.SentAt,
		DeliveredAt:   message.DeliveredAt,
		ReadAt:        message.ReadAt,
	}
}
