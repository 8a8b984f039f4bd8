package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

func TestCreateProfileOncePerOwner(t *testing.T) {
	w := newTicketWorld(t)
	ctx := context.Background()

	_, err := w.business.CreateProfile(ctx, w.owner, "Acme Again", "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	_, err = w.business.CreateProfile(ctx, w.customer, "Jane Inc", "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestUpdateProfile(t *testing.T) {
	w := newTicketWorld(t)

	updated, err := w.business.UpdateProfile(context.Background(), w.owner, "Acme Global", "now worldwide")
	require.NoError(t, err)
	assert.Equal(t, "Acme Global", updated.DisplayName)
	assert.Equal(t, "now worldwide", updated.Description)
}

func TestInviteEmployee(t *testing.T) {
	w := newTicketWorld(t)
	ctx := context.Background()

	candidate := w.mustAccount(t, "agent-new", domain.RoleEmployee)
	invitation, err := w.business.InviteEmployee(ctx, w.owner, candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationPending, invitation.Status)
	assert.Equal(t, w.profile.ID, invitation.BusinessID)
	assert.Equal(t, candidate.ID, invitation.EmployeeID)
	assert.Nil(t, invitation.ResolvedAt)
}

func TestInviteEmployeeRejectsWrongRole(t *testing.T) {
	w := newTicketWorld(t)

	_, err := w.business.InviteEmployee(context.Background(), w.owner, w.customer.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestInviteEmployeeRejectsActiveMember(t *testing.T) {
	w := newTicketWorld(t)

	_, err := w.business.InviteEmployee(context.Background(), w.owner, w.employee.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestInviteEmployeeRejectsDuplicatePending(t *testing.T) {
	w := newTicketWorld(t)
	ctx := context.Background()

	candidate := w.mustAccount(t, "agent-new", domain.RoleEmployee)
	_, err := w.business.InviteEmployee(ctx, w.owner, candidate.ID)
	require.NoError(t, err)

	_, err = w.business.InviteEmployee(ctx, w.owner, candidate.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestAcceptInvitationCreatesMembership(t *testing.T) {
	w := newTicketWorld(t)
	ctx := context.Background()

	candidate := w.mustAccount(t, "agent-new", domain.RoleEmployee)
	invitation, err := w.business.InviteEmployee(ctx, w.owner, candidate.ID)
	require.NoError(t, err)

	resolved, membership, err := w.business.ResolveInvitation(ctx, candidate, invitation.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationAccepted, resolved.Status)
	assert.NotNil(t, resolved.ResolvedAt)
	require.NotNil(t, membership)
	assert.True(t, membership.IsActive)

	active, err := w.employees.IsActiveMember(ctx, w.profile.ID, candidate.ID)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestRejectInvitation(t *testing.T) {
	w := newTicketWorld(t)
	ctx := context.Background()

	candidate := w.mustAccount(t, "agent-new", domain.RoleEmployee)
	invitation, err := w.business.InviteEmployee(ctx, w.owner, candidate.ID)
	require.NoError(t, err)

	resolved, membership, err := w.business.ResolveInvitation(ctx, candidate, invitation.ID, false)
	require.NoError(t, err)
	assert.Equal(t, domain.InvitationRejected, resolved.Status)
	assert.Nil(t, membership)

	active, err := w.employees.IsActiveMember(ctx, w.profile.ID, candidate.ID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestResolveInvitationIsTerminal(t *testing.T) {
	w := newTicketWorld(t)
	ctx := context.Background()

	candidate := w.mustAccount(t, "agent-new", domain.RoleEmployee)
	invitation, err := w.business.InviteEmployee(ctx, w.owner, candidate.ID)
	require.NoError(t, err)

	_, _, err = w.business.ResolveInvitation(ctx, candidate, invitation.ID, false)
	require.NoError(t, err)

	_, _, err = w.business.ResolveInvitation(ctx, candidate, invitation.ID, true)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestResolveInvitationWrongAddressee(t *testing.T) {
	w := newTicketWorld(t)
	ctx := context.Background()

	candidate := w.mustAccount(t, "agent-new", domain.RoleEmployee)
	other := w.mustAccount(t, "agent-other", domain.RoleEmployee)
	invitation, err := w.business.InviteEmployee(ctx, w.owner, candidate.ID)
	require.NoError(t, err)

	_, _, err = w.business.ResolveInvitation(ctx, other, invitation.ID, true)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestAcceptInvitationReactivatesMembership(t *testing.T) {
	w := newTicketWorld(t)
	ctx := context.Background()

	require.NoError(t, w.business.DeactivateEmployee(ctx, w.owner, w.employee.ID))
	active, err := w.employees.IsActiveMember(ctx, w.profile.ID, w.employee.ID)
	require.NoError(t, err)
	require.False(t, active)

	invitation, err := w.business.InviteEmployee(ctx, w.owner, w.employee.ID)
	require.NoError(t, err)
	_, membership, err := w.business.ResolveInvitation(ctx, w.employee, invitation.ID, true)
	require.NoError(t, err)
	require.NotNil(t, membership)
	assert.True(t, membership.IsActive)

	active, err = w.employees.IsActiveMember(ctx, w.profile.ID, w.employee.ID)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestDeactivatedEmployeeLosesTicketAccess(t *testing.T) {
	w := newTicketWorld(t)
	ticket := w.mustTicket(t)
	ctx := context.Background()

	require.NoError(t, w.business.DeactivateEmployee(ctx, w.owner, w.employee.ID))

	_, err := w.service.ClaimTicket(ctx, w.employee, ticket.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestListInvitationsBothSides(t *testing.T) {
	w := newTicketWorld(t)
	ctx := context.Background()

	candidate := w.mustAccount(t, "agent-new", domain.RoleEmployee)
	_, err := w.business.InviteEmployee(ctx, w.owner, candidate.ID)
	require.NoError(t, err)

	byBusiness, err := w.business.ListBusinessInvitations(ctx, w.owner)
	require.NoError(t, err)
	assert.Len(t, byBusiness, 1)

	byEmployee, err := w.business.ListEmployeeInvitations(ctx, candidate)
	require.NoError(t, err)
	assert.Len(t, byEmployee, 1)

	none, err := w.business.ListEmployeeInvitations(ctx, w.employee)
	require.NoError(t, err)
	assert.Empty(t, none)
}
