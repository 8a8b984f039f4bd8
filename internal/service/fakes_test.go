package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

// In-memory repository fakes backing the service tests. They mirror
// the conditional-update semantics of the Postgres implementations,
// including the claim compare-and-set.

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	seq      int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]domain.Account)}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	account.ID = fmt.Sprintf("acc-%d", r.seq)
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	r.accounts[account.ID] = *account
	return nil
}

func (r *fakeAccountRepo) Update(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return pgx.ErrNoRows
	}
	account.UpdatedAt = time.Now()
	r.accounts[account.ID] = *account
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &account, nil
}

func (r *fakeAccountRepo) GetByHandle(_ context.Context, handle string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Handle == handle {
			result := account
			return &result, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Email == email {
			result := account
			return &result, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeBusinessRepo struct {
	mu       sync.Mutex
	profiles map[string]domain.BusinessProfile
	seq      int
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{profiles: make(map[string]domain.BusinessProfile)}
}

func (r *fakeBusinessRepo) CreateProfile(_ context.Context, profile *domain.BusinessProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	profile.ID = fmt.Sprintf("biz-%d", r.seq)
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt
	r.profiles[profile.ID] = *profile
	return nil
}

func (r *fakeBusinessRepo) UpdateProfile(_ context.Context, profile *domain.BusinessProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.ID]; !ok {
		return pgx.ErrNoRows
	}
	profile.UpdatedAt = time.Now()
	r.profiles[profile.ID] = *profile
	return nil
}

func (r *fakeBusinessRepo) GetProfileByID(_ context.Context, id string) (*domain.BusinessProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &profile, nil
}

func (r *fakeBusinessRepo) GetProfileByOwner(_ context.Context, ownerID string) (*domain.BusinessProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, profile := range r.profiles {
		if profile.OwnerID == ownerID {
			result := profile
			return &result, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeEmployeeRepo struct {
	mu      sync.Mutex
	members map[string]domain.BusinessEmployee
	seq     int
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{members: make(map[string]domain.BusinessEmployee)}
}

func memberKey(businessID, employeeID string) string {
	return businessID + "/" + employeeID
}

func (r *fakeEmployeeRepo) Create(_ context.Context, employee *domain.BusinessEmployee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	employee.ID = fmt.Sprintf("emp-%d", r.seq)
	employee.CreatedAt = time.Now()
	employee.UpdatedAt = employee.CreatedAt
	r.members[memberKey(employee.BusinessID, employee.EmployeeID)] = *employee
	return nil
}

func (r *fakeEmployeeRepo) SetActive(_ context.Context, businessID, employeeID string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := memberKey(businessID, employeeID)
	member, ok := r.members[key]
	if !ok {
		return pgx.ErrNoRows
	}
	member.IsActive = active
	member.UpdatedAt = time.Now()
	r.members[key] = member
	return nil
}

func (r *fakeEmployeeRepo) Get(_ context.Context, businessID, employeeID string) (*domain.BusinessEmployee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	member, ok := r.members[memberKey(businessID, employeeID)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &member, nil
}

func (r *fakeEmployeeRepo) ListByBusiness(_ context.Context, businessID string) ([]domain.BusinessEmployee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.BusinessEmployee
	for _, member := range r.members {
		if member.BusinessID == businessID {
			result = append(result, member)
		}
	}
	return result, nil
}

func (r *fakeEmployeeRepo) IsActiveMember(_ context.Context, businessID, accountID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	member, ok := r.members[memberKey(businessID, accountID)]
	return ok && member.IsActive, nil
}

type fakeInvitationRepo struct {
	mu          sync.Mutex
	invitations map[string]domain.EmployeeInvitation
	seq         int
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: make(map[string]domain.EmployeeInvitation)}
}

func (r *fakeInvitationRepo) Create(_ context.Context, invitation *domain.EmployeeInvitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	invitation.ID = fmt.Sprintf("inv-%d", r.seq)
	invitation.CreatedAt = time.Now()
	r.invitations[invitation.ID] = *invitation
	return nil
}

func (r *fakeInvitationRepo) GetByID(_ context.Context, id string) (*domain.EmployeeInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invitation, ok := r.invitations[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &invitation, nil
}

func (r *fakeInvitationRepo) ListByBusiness(_ context.Context, businessID string) ([]domain.EmployeeInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.EmployeeInvitation
	for _, invitation := range r.invitations {
		if invitation.BusinessID == businessID {
			result = append(result, invitation)
		}
	}
	return result, nil
}

func (r *fakeInvitationRepo) ListByEmployee(_ context.Context, employeeID string) ([]domain.EmployeeInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.EmployeeInvitation
	for _, invitation := range r.invitations {
		if invitation.EmployeeID == employeeID {
			result = append(result, invitation)
		}
	}
	return result, nil
}

func (r *fakeInvitationRepo) HasPending(_ context.Context, businessID, employeeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, invitation := range r.invitations {
		if invitation.BusinessID == businessID && invitation.EmployeeID == employeeID && invitation.Status == domain.InvitationPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInvitationRepo) Resolve(_ context.Context, id string, status domain.InvitationStatus) (*domain.EmployeeInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invitation, ok := r.invitations[id]
	if !ok || invitation.Status != domain.InvitationPending {
		return nil, pgx.ErrNoRows
	}
	now := time.Now()
	invitation.Status = status
	invitation.ResolvedAt = &now
	r.invitations[id] = invitation
	return &invitation, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
	seq     int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = fmt.Sprintf("tkt-%d", r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *fakeTicketRepo) GetByExternalKey(_ context.Context, key string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ticket := range r.tickets {
		if ticket.ExternalKey == key {
			result := ticket
			return &result, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.CustomerID != nil && ticket.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.BusinessID != nil && ticket.BusinessID != *filter.BusinessID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		if filter.SearchTerm != nil {
			needle := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
			if !strings.Contains(strings.ToLower(ticket.Title), needle) &&
				!strings.Contains(strings.ToLower(ticket.Description), needle) {
				continue
			}
		}
		result = append(result, ticket)
	}
	return result, nil
}

// Claim mirrors the conditional UPDATE of the Postgres repository: the
// ticket must still be open and unclaimed under the lock.
func (r *fakeTicketRepo) Claim(_ context.Context, ticketID, claimantID string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if ticket.Status != domain.TicketStatusOpen || ticket.ClaimedByID != nil {
		return nil, repository.ErrClaimLost
	}
	ticket.Status = domain.TicketStatusInProgress
	ticket.ClaimedByID = &claimantID
	ticket.UpdatedAt = time.Now()
	r.tickets[ticketID] = ticket
	return &ticket, nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeNoteRepo struct {
	mu    sync.Mutex
	notes []domain.TicketNote
	seq   int
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{}
}

func (r *fakeNoteRepo) Create(_ context.Context, note *domain.TicketNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	note.ID = fmt.Sprintf("note-%d", r.seq)
	note.CreatedAt = time.Now()
	r.notes = append(r.notes, *note)
	return nil
}

func (r *fakeNoteRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TicketNote
	for _, note := range r.notes {
		if note.TicketID == ticketID {
			result = append(result, note)
		}
	}
	return result, nil
}

type fakeFeedbackRepo struct {
	mu       sync.Mutex
	feedback map[string]domain.TicketFeedback
	seq      int
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{feedback: make(map[string]domain.TicketFeedback)}
}

func (r *fakeFeedbackRepo) Create(_ context.Context, feedback *domain.TicketFeedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	feedback.ID = fmt.Sprintf("fbk-%d", r.seq)
	feedback.CreatedAt = time.Now()
	r.feedback[feedback.TicketID] = *feedback
	return nil
}

func (r *fakeFeedbackRepo) GetByTicket(_ context.Context, ticketID string) (*domain.TicketFeedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	feedback, ok := r.feedback[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &feedback, nil
}

func (r *fakeFeedbackRepo) ExistsForTicket(_ context.Context, ticketID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.feedback[ticketID]
	return ok, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages map[string]domain.Message
	seq      int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[string]domain.Message)}
}

func (r *fakeMessageRepo) Create(_ context.Context, message *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	message.ID = fmt.Sprintf("msg-%d", r.seq)
	message.SentAt = time.Now()
	r.messages[message.ID] = *message
	return nil
}

func (r *fakeMessageRepo) Update(_ context.Context, message *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[message.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.messages[message.ID] = *message
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	message, ok := r.messages[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &message, nil
}

func (r *fakeMessageRepo) ListConversation(_ context.Context, accountA, accountB string, _, _ int) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Message
	for _, message := range r.messages {
		if (message.SenderID == accountA && message.ReceiverID == accountB) ||
			(message.SenderID == accountB && message.ReceiverID == accountA) {
			result = append(result, message)
		}
	}
	return result, nil
}

func (r *fakeMessageRepo) HasConversation(_ context.Context, accountA, accountB string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, message := range r.messages {
		if (message.SenderID == accountA && message.ReceiverID == accountB) ||
			(message.SenderID == accountB && message.ReceiverID == accountA) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMessageRepo) CountUnread(_ context.Context, receiverID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, message := range r.messages {
		if message.ReceiverID == receiverID && message.Status != domain.MessageRead {
			count++
		}
	}
	return count, nil
}
