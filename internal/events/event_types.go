package events

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket_created"
	EventTicketClaimed      EventType = "ticket_claimed"
	EventTicketEscalated    EventType = "ticket_escalated"
	EventTicketReassigned   EventType = "ticket_reassigned"
	EventTicketResolved     EventType = "ticket_resolved"
	EventTicketNoteAdded    EventType = "ticket_note_added"
	EventFeedbackSubmitted  EventType = "ticket_feedback_submitted"
	EventMessageSent        EventType = "message_sent"
	EventInvitationCreated  EventType = "invitation_created"
	EventInvitationResolved EventType = "invitation_resolved"
)

// Actor identifies the account performing the action.
type Actor struct {
	AccountID string             `json:"account_id"`
	Role      domain.AccountRole `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	BusinessID string                `json:"business_id"`
	Category   domain.TicketCategory `json:"category"`
	Priority   domain.TicketPriority `json:"priority"`
	Title      string                `json:"title"`
}

// TicketClaimedPayload payload.
type TicketClaimedPayload struct {
	ClaimedByID string `json:"claimed_by_id"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	OldLevel           domain.EscalationLevel `json:"old_level"`
	NewLevel           domain.EscalationLevel `json:"new_level"`
	Reason             string                 `json:"reason"`
	PreviousAssigneeID *string                `json:"previous_assignee_id,omitempty"`
}

// TicketReassignedPayload payload.
type TicketReassignedPayload struct {
	OldAssigneeID *string `json:"old_assignee_id,omitempty"`
	NewAssigneeID string  `json:"new_assignee_id"`
}

// TicketResolvedPayload payload.
type TicketResolvedPayload struct {
	ResolvedByID string `json:"resolved_by_id"`
}

// TicketNoteAddedPayload payload.
type TicketNoteAddedPayload struct {
	NoteID     string `json:"note_id"`
	BusinessID string `json:"business_id"`
}

// FeedbackSubmittedPayload payload.
type FeedbackSubmittedPayload struct {
	FeedbackID string `json:"feedback_id"`
	Rating     int    `json:"rating"`
}

// MessageSentPayload payload.
type MessageSentPayload struct {
	MessageID     string  `json:"message_id"`
	ReceiverID    string  `json:"receiver_id"`
	TicketID      *string `json:"ticket_id,omitempty"`
	ChatInitiator bool    `json:"chat_initiator"`
}

// InvitationCreatedPayload payload.
type InvitationCreatedPayload struct {
	BusinessID string `json:"business_id"`
	EmployeeID string `json:"employee_id"`
}

// InvitationResolvedPayload payload.
type InvitationResolvedPayload struct {
	Status domain.InvitationStatus `json:"status"`
}
