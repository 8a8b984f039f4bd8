package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	BusinessID  string                `json:"business_id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
}

// EscalateTicketRequest payload.
type EscalateTicketRequest struct {
	Level  domain.EscalationLevel `json:"level"`
	Reason string                 `json:"reason"`
}

// ReassignTicketRequest payload.
type ReassignTicketRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// AppendNoteRequest payload.
type AppendNoteRequest struct {
	Content string `json:"content"`
}

// SubmitFeedbackRequest payload.
type SubmitFeedbackRequest struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty"`
}

// TicketResponse carries the full ticket state.
type TicketResponse struct {
	ID                 string                 `json:"id"`
	ExternalKey        string                 `json:"external_key"`
	CustomerID         string                 `json:"customer_id"`
	BusinessID         string                 `json:"business_id"`
	Title              string                 `json:"title"`
	Description        string                 `json:"description"`
	Status             domain.TicketStatus    `json:"status"`
	Category           domain.TicketCategory  `json:"category"`
	Priority           domain.TicketPriority  `json:"priority"`
	ClaimedByID        *string                `json:"claimed_by_id,omitempty"`
	EscalationLevel    domain.EscalationLevel `json:"escalation_level"`
	EscalationReason   *string                `json:"escalation_reason,omitempty"`
	EscalatedByID      *string                `json:"escalated_by_id,omitempty"`
	EscalatedAt        *time.Time             `json:"escalated_at,omitempty"`
	PreviousAssigneeID *string                `json:"previous_assignee_id,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
	ResolvedAt         *time.Time             `json:"resolved_at,omitempty"`
}

// NoteResponse response.
type NoteResponse struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	BusinessID string    `json:"business_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// FeedbackResponse response.
type FeedbackResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                 ticket.ID,
		ExternalKey:        ticket.ExternalKey,
		CustomerID:         ticket.CustomerID,
		BusinessID:         ticket.BusinessID,
		Title:              ticket.Title,
		Description:        ticket.Description,
		Status:             ticket.Status,
		Category:           ticket.Category,
		Priority:           ticket.Priority,
		ClaimedByID:        ticket.ClaimedByID,
		EscalationLevel:    ticket.EscalationLevel,
		EscalationReason:   ticket.EscalationReason,
		EscalatedByID:      ticket.EscalatedByID,
		EscalatedAt:        ticket.EscalatedAt,
		PreviousAssigneeID: ticket.PreviousAssigneeID,
		CreatedAt:          ticket.CreatedAt,
		UpdatedAt:          ticket.UpdatedAt,
		ResolvedAt:         ticket.ResolvedAt,
	}
}

// NewNoteResponse maps a domain note.
func NewNoteResponse(note *domain.TicketNote) NoteResponse {
	return NoteResponse{
		ID:         note.ID,
		TicketID:   note.TicketID,
		BusinessID: note.BusinessID,
		Content:    note.Content,
		CreatedAt:  note.CreatedAt,
	}
}

// NewFeedbackResponse maps domain feedback.
func NewFeedbackResponse(feedback *domain.TicketFeedback) FeedbackResponse {
	return FeedbackResponse{
		ID:        feedback.ID,
		TicketID:  feedback.TicketID,
		Rating:    feedback.Rating,
		Comment:   feedback.Comment,
		CreatedAt: feedback.CreatedAt,
	}
}
