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

// TicketService coordinates the ticket lifecycle: creation, claiming,
// escalation, reassignment, resolution, notes and feedback.
type TicketService struct {
	tickets    repository.TicketRepository
	businesses repository.BusinessRepository
	employees  repository.EmployeeRepository
	notes      repository.NoteRepository
	feedback   repository.FeedbackRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	BusinessRepo repository.BusinessRepository
	EmployeeRepo repository.EmployeeRepository
	NoteRepo     repository.NoteRepository
	FeedbackRepo repository.FeedbackRepository
	Dispatcher   events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	BusinessID  string
	Title       string
	Description string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
}

// TicketListFilter describes listing filters shared by both sides.
type TicketListFilter struct {
	Statuses    []domain.TicketStatus
	Categories  []domain.TicketCategory
	Priorities  []domain.TicketPriority
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		businesses: deps.BusinessRepo,
		employees:  deps.EmployeeRepo,
		notes:      deps.NoteRepo,
		feedback:   deps.FeedbackRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket opens a new ticket on behalf of a customer. Tickets
// start open with no assignee and no escalation.
func (s *TicketService) CreateTicket(ctx context.Context, customer *domain.Account, input TicketCreateInput) (*domain.Ticket, error) {
	if customer == nil || customer.Role != domain.RoleCustomer {
		return nil, apperrors.NewForbidden("customer account required")
	}
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if input.BusinessID == "" || title == "" || description == "" {
		return nil, apperrors.NewValidationError("business_id, title, description required", nil)
	}
	if !domain.ValidCategory(input.Category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}
	if input.Priority == "" {
		input.Priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	if _, err := s.businesses.GetProfileByID(ctx, input.BusinessID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("business", map[string]any{"business_id": input.BusinessID})
		}
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		ExternalKey:     generateTicketKey(),
		CustomerID:      customer.ID,
		BusinessID:      input.BusinessID,
		Title:           title,
		Description:     description,
		Status:          domain.TicketStatusOpen,
		Category:        input.Category,
		Priority:        input.Priority,
		EscalationLevel: domain.EscalationNone,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketCreated,
		SubjectID: ticket.ID,
		Actor:     accountActor(customer),
		Payload: events.TicketCreatedPayload{
			BusinessID: ticket.BusinessID,
			Category:   ticket.Category,
			Priority:   ticket.Priority,
			Title:      ticket.Title,
		},
	})
	return ticket, nil
}

// ListCustomerTickets returns tickets created by the customer.
func (s *TicketService) ListCustomerTickets(ctx context.Context, customerID string, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		CustomerID:  &customerID,
		Statuses:    filter.Statuses,
		Categories:  filter.Categories,
		Priorities:  filter.Priorities,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicketForCustomer fetches a ticket ensuring ownership.
func (s *TicketService) GetTicketForCustomer(ctx context.Context, customerID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CustomerID != customerID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// ListBusinessTickets returns tickets of a business for its owner or an
// active employee.
func (s *TicketService) ListBusinessTickets(ctx context.Context, actor *domain.Account, businessID string, filter TicketListFilter) ([]domain.Ticket, error) {
	if err := s.requireBusinessActor(ctx, actor, businessID); err != nil {
		return nil, err
	}
	repoFilter := repository.TicketFilter{
		BusinessID:  &businessID,
		Statuses:    filter.Statuses,
		Categories:  filter.Categories,
		Priorities:  filter.Priorities,
		SearchTerm:  filter.SearchTerm,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicketForBusiness fetches a ticket ensuring the actor works for
// the ticket's business.
func (s *TicketService) GetTicketForBusiness(ctx context.Context, actor *domain.Account, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.requireBusinessActor(ctx, actor, ticket.BusinessID); err != nil {
		return nil, err
	}
	return ticket, nil
}

// ClaimTicket performs the open -> in_progress transition. The update
// is conditional at the storage layer so concurrent claimants cannot
// both win; the loser gets a conflict.
func (s *TicketService) ClaimTicket(ctx context.Context, actor *domain.Account, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.requireBusinessActor(ctx, actor, ticket.BusinessID); err != nil {
		return nil, err
	}

	claimed, err := s.tickets.Claim(ctx, ticketID, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrClaimLost) {
			return nil, apperrors.NewConflict("ticket already claimed", map[string]any{"ticket_id": ticketID})
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketClaimed,
		SubjectID: claimed.ID,
		Actor:     accountActor(actor),
		Payload:   events.TicketClaimedPayload{ClaimedByID: actor.ID},
	})
	return claimed, nil
}

// EscalateTicket raises the escalation level of an in-progress ticket.
// The level must strictly increase; the assignee at the moment of
// escalation is preserved as the previous assignee.
func (s *TicketService) EscalateTicket(ctx context.Context, actor *domain.Account, ticketID string, level domain.EscalationLevel, reason string) (*domain.Ticket, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("escalation reason required", nil)
	}
	if !domain.ValidEscalation(level) || level == domain.EscalationNone {
		return nil, apperrors.NewValidationError("unknown escalation level", map[string]any{"level": level})
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.requireBusinessActor(ctx, actor, ticket.BusinessID); err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusInProgress {
		return nil, apperrors.NewConflict("only in-progress tickets can be escalated", map[string]any{"status": ticket.Status})
	}
	if level.Rank() <= ticket.EscalationLevel.Rank() {
		return nil, apperrors.NewConflict("escalation level must increase", map[string]any{
			"current": ticket.EscalationLevel,
			"target":  level,
		})
	}

	now := time.Now()
	oldLevel := ticket.EscalationLevel
	ticket.PreviousAssigneeID = ticket.ClaimedByID
	ticket.EscalationLevel = level
	ticket.EscalationReason = &reason
	ticket.EscalatedByID = &actor.ID
	ticket.EscalatedAt = &now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketEscalated,
		SubjectID: ticket.ID,
		Actor:     accountActor(actor),
		Payload: events.TicketEscalatedPayload{
			OldLevel:           oldLevel,
			NewLevel:           level,
			Reason:             reason,
			PreviousAssigneeID: ticket.PreviousAssigneeID,
		},
	})
	return ticket, nil
}

// ReassignTicket hands an in-progress ticket to another active member
// of the business (or the owner).
func (s *TicketService) ReassignTicket(ctx context.Context, actor *domain.Account, ticketID, newAssigneeID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.requireBusinessActor(ctx, actor, ticket.BusinessID); err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusInProgress {
		return nil, apperrors.NewConflict("only in-progress tickets can be reassigned", map[string]any{"status": ticket.Status})
	}

	ok, err := s.isBusinessActor(ctx, newAssigneeID, ticket.BusinessID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !ok {
		return nil, apperrors.NewConflict("assignee is not an active member of the business", map[string]any{"assignee_id": newAssigneeID})
	}

	oldAssignee := ticket.ClaimedByID
	ticket.ClaimedByID = &newAssigneeID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketReassigned,
		SubjectID: ticket.ID,
		Actor:     accountActor(actor),
		Payload: events.TicketReassignedPayload{
			OldAssigneeID: oldAssignee,
			NewAssigneeID: newAssigneeID,
		},
	})
	return ticket, nil
}

// ResolveTicket performs the in_progress -> resolved transition. Only
// the current claimant or the business owner may resolve. Resolved is
// terminal: there is no reopen.
func (s *TicketService) ResolveTicket(ctx context.Context, actor *domain.Account, ticketID string) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("account required")
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusInProgress {
		return nil, apperrors.NewConflict("only in-progress tickets can be resolved", map[string]any{"status": ticket.Status})
	}

	allowed := ticket.ClaimedByID != nil && *ticket.ClaimedByID == actor.ID
	if !allowed {
		owner, err := s.isBusinessOwner(ctx, actor.ID, ticket.BusinessID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		allowed = owner
	}
	if !allowed {
		return nil, apperrors.NewForbidden("only the current claimant or the business owner can resolve")
	}

	now := time.Now()
	ticket.Status = domain.TicketStatusResolved
	ticket.ResolvedAt = &now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketResolved,
		SubjectID: ticket.ID,
		Actor:     accountActor(actor),
		Payload:   events.TicketResolvedPayload{ResolvedByID: actor.ID},
	})
	return ticket, nil
}

// AppendNote adds an internal annotation to a ticket. Notes belong to
// the business side and are never exposed to customers.
func (s *TicketService) AppendNote(ctx context.Context, actor *domain.Account, ticketID, content string) (*domain.TicketNote, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.requireBusinessActor(ctx, actor, ticket.BusinessID); err != nil {
		return nil, err
	}

	note := &domain.TicketNote{
		TicketID:   ticket.ID,
		BusinessID: ticket.BusinessID,
		Content:    content,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketNoteAdded,
		SubjectID: ticket.ID,
		Actor:     accountActor(actor),
		Payload: events.TicketNoteAddedPayload{
			NoteID:     note.ID,
			BusinessID: note.BusinessID,
		},
	})
	return note, nil
}

// ListNotes returns a ticket's notes for the business side.
func (s *TicketService) ListNotes(ctx context.Context, actor *domain.Account, ticketID string) ([]domain.TicketNote, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.requireBusinessActor(ctx, actor, ticket.BusinessID); err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return notes, nil
}

// SubmitFeedback records the customer's rating for a resolved ticket.
// A ticket can carry at most one feedback record.
func (s *TicketService) SubmitFeedback(ctx context.Context, customer *domain.Account, ticketID string, rating int, comment *string) (*domain.TicketFeedback, error) {
	if !domain.ValidRating(rating) {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": rating})
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CustomerID != customer.ID {
		return nil, apperrors.NewForbidden("only the ticket's customer can leave feedback")
	}
	if ticket.Status != domain.TicketStatusResolved {
		return nil, apperrors.NewConflict("feedback requires a resolved ticket", map[string]any{"status": ticket.Status})
	}
	exists, err := s.feedback.ExistsForTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if exists {
		return nil, apperrors.NewConflict("feedback already submitted", map[string]any{"ticket_id": ticketID})
	}

	feedback := &domain.TicketFeedback{
		TicketID: ticket.ID,
		Rating:   rating,
		Comment:  comment,
	}
	if err := s.feedback.Create(ctx, feedback); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventFeedbackSubmitted,
		SubjectID: ticket.ID,
		Actor:     accountActor(customer),
		Payload: events.FeedbackSubmittedPayload{
			FeedbackID: feedback.ID,
			Rating:     feedback.Rating,
		},
	})
	return feedback, nil
}

// GetFeedback returns a ticket's feedback for its customer or the
// business side.
func (s *TicketService) GetFeedback(ctx context.Context, actor *domain.Account, ticketID string) (*domain.TicketFeedback, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CustomerID != actor.ID {
		if err := s.requireBusinessActor(ctx, actor, ticket.BusinessID); err != nil {
			return nil, err
		}
	}
	feedback, err := s.feedback.GetByTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("feedback", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return feedback, nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// isBusinessActor reports whether the account is the owner of the
// business or one of its active employees.
func (s *TicketService) isBusinessActor(ctx context.Context, accountID, businessID string) (bool, error) {
	owner, err := s.isBusinessOwner(ctx, accountID, businessID)
	if err != nil {
		return false, err
	}
	if owner {
		return true, nil
	}
	return s.employees.IsActiveMember(ctx, businessID, accountID)
}

func (s *TicketService) isBusinessOwner(ctx context.Context, accountID, businessID string) (bool, error) {
	profile, err := s.businesses.GetProfileByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return profile.OwnerID == accountID, nil
}

func (s *TicketService) requireBusinessActor(ctx context.Context, actor *domain.Account, businessID string) error {
	if actor == nil {
		return apperrors.NewUnauthorized("account required")
	}
	ok, err := s.isBusinessActor(ctx, actor.ID, businessID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !ok {
		return apperrors.NewForbidden("not a member of this business")
	}
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
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

func accountActor(account *domain.Account) events.Actor {
	if account == nil {
		return events.Actor{}
	}
	return events.Actor{AccountID: account.ID, Role: account.Role}
}

func generateTicketKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
