package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// BusinessService manages business profiles, employees and the
// invitation workflow.
type BusinessService struct {
	businesses  repository.BusinessRepository
	employees   repository.EmployeeRepository
	invitations repository.InvitationRepository
	accounts    repository.AccountRepository
	dispatcher  events.Dispatcher
}

// BusinessDependencies bundles repositories for the business service.
type BusinessDependencies struct {
	BusinessRepo   repository.BusinessRepository
	EmployeeRepo   repository.EmployeeRepository
	InvitationRepo repository.InvitationRepository
	AccountRepo    repository.AccountRepository
	Dispatcher     events.Dispatcher
}

// NewBusinessService constructs the service.
func NewBusinessService(deps BusinessDependencies) *BusinessService {
	return &BusinessService{
		businesses:  deps.BusinessRepo,
		employees:   deps.EmployeeRepo,
		invitations: deps.InvitationRepo,
		accounts:    deps.AccountRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// CreateProfile creates the single profile for a business account.
func (s *BusinessService) CreateProfile(ctx context.Context, owner *domain.Account, displayName, description string) (*domain.BusinessProfile, error) {
	if owner == nil || owner.Role != domain.RoleBusiness {
		return nil, apperrors.NewForbidden("business account required")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, apperrors.NewValidationError("display_name required", nil)
	}

	if _, err := s.businesses.GetProfileByOwner(ctx, owner.ID); err == nil {
		return nil, apperrors.NewConflict("profile already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	profile := &domain.BusinessProfile{
		OwnerID:     owner.ID,
		DisplayName: displayName,
		Description: strings.TrimSpace(description),
	}
	if err := s.businesses.CreateProfile(ctx, profile); err != nil {
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

// UpdateProfile updates the owner's profile.
func (s *BusinessService) UpdateProfile(ctx context.Context, owner *domain.Account, displayName, description string) (*domain.BusinessProfile, error) {
	profile, err := s.getOwnedProfile(ctx, owner)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(displayName); name != "" {
		profile.DisplayName = name
	}
	profile.Description = strings.TrimSpace(description)
	if err := s.businesses.UpdateProfile(ctx, profile); err != nil {
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

// GetOwnProfile returns the profile owned by the account.
func (s *BusinessService) GetOwnProfile(ctx context.Context, owner *domain.Account) (*domain.BusinessProfile, error) {
	return s.getOwnedProfile(ctx, owner)
}

// GetProfile returns any business profile by ID.
func (s *BusinessService) GetProfile(ctx context.Context, businessID string) (*domain.BusinessProfile, error) {
	profile, err := s.businesses.GetProfileByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("business", map[string]any{"business_id": businessID})
		}
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

// InviteEmployee creates a pending invitation from the owner's business
// to an employee-role account.
func (s *BusinessService) InviteEmployee(ctx context.Context, owner *domain.Account, employeeID string) (*domain.EmployeeInvitation, error) {
	profile, err := s.getOwnedProfile(ctx, owner)
	if err != nil {
		return nil, err
	}

	employee, err := s.accounts.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", map[string]any{"account_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}
	if employee.Role != domain.RoleEmployee {
		return nil, apperrors.NewValidationError("invitee must be an employee account", map[string]any{"role": employee.Role})
	}

	if member, err := s.employees.Get(ctx, profile.ID, employeeID); err == nil && member.IsActive {
		return nil, apperrors.NewConflict("already an active employee", nil)
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	pending, err := s.invitations.HasPending(ctx, profile.ID, employeeID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if pending {
		return nil, apperrors.NewConflict("invitation already pending", map[string]any{"employee_id": employeeID})
	}

	invitation := &domain.EmployeeInvitation{
		BusinessID: profile.ID,
		EmployeeID: employeeID,
		Status:     domain.InvitationPending,
	}
	if err := s.invitations.Create(ctx, invitation); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventInvitationCreated,
		SubjectID: invitation.ID,
		Actor:     accountActor(owner),
		Payload: events.InvitationCreatedPayload{
			BusinessID: invitation.BusinessID,
			EmployeeID: invitation.EmployeeID,
		},
	})
	return invitation, nil
}

// ListBusinessInvitations returns invitations sent by the owner's business.
func (s *BusinessService) ListBusinessInvitations(ctx context.Context, owner *domain.Account) ([]domain.EmployeeInvitation, error) {
	profile, err := s.getOwnedProfile(ctx, owner)
	if err != nil {
		return nil, err
	}
	invitations, err := s.invitations.ListByBusiness(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return invitations, nil
}

// ListEmployeeInvitations returns invitations addressed to the employee.
func (s *BusinessService) ListEmployeeInvitations(ctx context.Context, employee *domain.Account) ([]domain.EmployeeInvitation, error) {
	if employee == nil || employee.Role != domain.RoleEmployee {
		return nil, apperrors.NewForbidden("employee account required")
	}
	invitations, err := s.invitations.ListByEmployee(ctx, employee.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return invitations, nil
}

// ResolveInvitation accepts or rejects a pending invitation addressed
// to the actor. Acceptance creates the active membership record; either
// outcome is terminal.
func (s *BusinessService) ResolveInvitation(ctx context.Context, employee *domain.Account, invitationID string, accept bool) (*domain.EmployeeInvitation, *domain.BusinessEmployee, error) {
	if employee == nil || employee.Role != domain.RoleEmployee {
		return nil, nil, apperrors.NewForbidden("employee account required")
	}

	invitation, err := s.invitations.GetByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("invitation", map[string]any{"invitation_id": invitationID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	if invitation.EmployeeID != employee.ID {
		return nil, nil, apperrors.NewForbidden("invitation addressed to another account")
	}
	if invitation.IsTerminal() {
		return nil, nil, apperrors.NewConflict("invitation already resolved", map[string]any{"status": invitation.Status})
	}

	status := domain.InvitationRejected
	if accept {
		status = domain.InvitationAccepted
	}
	resolved, err := s.invitations.Resolve(ctx, invitationID, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewConflict("invitation already resolved", nil)
		}
		return nil, nil, apperrors.MapError(err)
	}

	var membership *domain.BusinessEmployee
	if accept {
		if existing, err := s.employees.Get(ctx, resolved.BusinessID, resolved.EmployeeID); err == nil {
			// Re-activate a previously deactivated membership.
			if err := s.employees.SetActive(ctx, resolved.BusinessID, resolved.EmployeeID, true); err != nil {
				return nil, nil, apperrors.MapError(err)
			}
			existing.IsActive = true
			membership = existing
		} else if errors.Is(err, pgx.ErrNoRows) {
			membership = &domain.BusinessEmployee{
				BusinessID: resolved.BusinessID,
				EmployeeID: resolved.EmployeeID,
				IsActive:   true,
			}
			if err := s.employees.Create(ctx, membership); err != nil {
				return nil, nil, apperrors.MapError(err)
			}
		} else {
			return nil, nil, apperrors.MapError(err)
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventInvitationResolved,
		SubjectID: resolved.ID,
		Actor:     accountActor(employee),
		Payload:   events.InvitationResolvedPayload{Status: resolved.Status},
	})
	return resolved, membership, nil
}

// ListEmployees returns a business's membership roster for its owner.
func (s *BusinessService) ListEmployees(ctx context.Context, owner *domain.Account) ([]domain.BusinessEmployee, error) {
	profile, err := s.getOwnedProfile(ctx, owner)
	if err != nil {
		return nil, err
	}
	employees, err := s.employees.ListByBusiness(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return employees, nil
}

// DeactivateEmployee flips an employee's membership to inactive.
func (s *BusinessService) DeactivateEmployee(ctx context.Context, owner *domain.Account, employeeID string) error {
	profile, err := s.getOwnedProfile(ctx, owner)
	if err != nil {
		return err
	}
	if err := s.employees.SetActive(ctx, profile.ID, employeeID, false); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *BusinessService) getOwnedProfile(ctx context.Context, owner *domain.Account) (*domain.BusinessProfile, error) {
	if owner == nil || owner.Role != domain.RoleBusiness {
		return nil, apperrors.NewForbidden("business account required")
	}
	profile, err := s.businesses.GetProfileByOwner(ctx, owner.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("business profile", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

func (s *BusinessService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
