package domain

import "time"

// InvitationStatus enumerates invitation lifecycle states.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// EmployeeInvitation is a pending request linking a business and a
// prospective employee, resolved exactly once by acceptance or rejection.
type EmployeeInvitation struct {
	ID         string
	BusinessID string
	EmployeeID string
	Status     InvitationStatus
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// IsTerminal reports whether the invitation can no longer change state.
func (i *EmployeeInvitation) IsTerminal() bool {
	return i.Status != InvitationPending
}
