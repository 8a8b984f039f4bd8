package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
)

// TicketCategory classifies the subject of a ticket.
type TicketCategory string

const (
	CategoryTechnical      TicketCategory = "technical"
	CategoryBilling        TicketCategory = "billing"
	CategoryFeatureRequest TicketCategory = "feature_request"
	CategoryGeneralInquiry TicketCategory = "general_inquiry"
	CategoryBugReport      TicketCategory = "bug_report"
)

// ValidCategory reports whether the value is a known category.
func ValidCategory(c TicketCategory) bool {
	switch c {
	case CategoryTechnical, CategoryBilling, CategoryFeatureRequest, CategoryGeneralInquiry, CategoryBugReport:
		return true
	}
	return false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

// ValidPriority reports whether the value is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// EscalationLevel is the independent escalation dimension of a ticket.
type EscalationLevel string

const (
	EscalationNone   EscalationLevel = "none"
	EscalationLow    EscalationLevel = "low"
	EscalationMedium EscalationLevel = "medium"
	EscalationHigh   EscalationLevel = "high"
)

var escalationRanks = map[EscalationLevel]int{
	EscalationNone:   0,
	EscalationLow:    1,
	EscalationMedium: 2,
	EscalationHigh:   3,
}

// Rank returns the ordering position of the level; unknown levels rank -1.
func (l EscalationLevel) Rank() int {
	rank, ok := escalationRanks[l]
	if !ok {
		return -1
	}
	return rank
}

// ValidEscalation reports whether the value is a known level.
func ValidEscalation(l EscalationLevel) bool {
	_, ok := escalationRanks[l]
	return ok
}

// Ticket is the aggregate for support requests. CustomerID and
// BusinessID are set at creation and never change.
type Ticket struct {
	ID          string
	ExternalKey string
	CustomerID  string
	BusinessID  string
	Title       string
	Description string
	Status      TicketStatus
	Category    TicketCategory
	Priority    TicketPriority

	ClaimedByID *string

	EscalationLevel    EscalationLevel
	EscalationReason   *string
	EscalatedByID      *string
	EscalatedAt        *time.Time
	PreviousAssigneeID *string

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ResolvedAt *time.Time
}

// IsClaimed reports whether the ticket has a current assignee.
func (t *Ticket) IsClaimed() bool {
	return t.ClaimedByID != nil
}
