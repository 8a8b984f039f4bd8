package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// BusinessProfileRequest payload for create and update.
type BusinessProfileRequest struct {
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// BusinessProfileResponse response.
type BusinessProfileResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InviteEmployeeRequest payload.
type InviteEmployeeRequest struct {
	EmployeeID string `json:"employee_id"`
}

// ResolveInvitationRequest payload.
type ResolveInvitationRequest struct {
	Accept bool `json:"accept"`
}

// InvitationResponse response.
type InvitationResponse struct {
	ID         string                  `json:"id"`
	BusinessID string                  `json:"business_id"`
	EmployeeID string                  `json:"employee_id"`
	Status     domain.InvitationStatus `json:"status"`
	CreatedAt  time.Time               `json:"created_at"`
	ResolvedAt *time.Time              `json:"resolved_at,omitempty"`
}

// EmployeeResponse response.
type EmployeeResponse struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	EmployeeID string    `json:"employee_id"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewBusinessProfileResponse maps a domain profile.
func NewBusinessProfileResponse(profile *domain.BusinessProfile) BusinessProfileResponse {
	return BusinessProfileResponse{
		ID:          profile.ID,
		OwnerID:     profile.OwnerID,
		DisplayName: profile.DisplayName,
		Description: profile.Description,
		CreatedAt:   profile.CreatedAt,
		UpdatedAt:   profile.UpdatedAt,
	}
}

// NewInvitationResponse maps a domain invitation.
func NewInvitationResponse(invitation *domain.EmployeeInvitation) InvitationResponse {
	return InvitationResponse{
		ID:         invitation.ID,
		BusinessID: invitation.BusinessID,
		EmployeeID: invitation.EmployeeID,
		Status:     invitation.Status,
		CreatedAt:  invitation.CreatedAt,
		ResolvedAt: invitation.ResolvedAt,
	}
}

// NewEmployeeResponse maps a domain membership.
func NewEmployeeResponse(employee *domain.BusinessEmployee) EmployeeResponse {
	return EmployeeResponse{
		ID:         employee.ID,
		BusinessID: employee.BusinessID,
		EmployeeID: employee.EmployeeID,
		IsActive:   employee.IsActive,
		CreatedAt:  employee.CreatedAt,
	}
}
