package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// InvitationRepository stores employee invitations.
type InvitationRepository interface {
	Create(ctx context.Context, invitation *domain.EmployeeInvitation) error
	GetByID(ctx context.Context, id string) (*domain.EmployeeInvitation, error)
	ListByBusiness(ctx context.Context, businessID string) ([]domain.EmployeeInvitation, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]domain.EmployeeInvitation, error)
	HasPending(ctx context.Context, businessID, employeeID string) (bool, error)
	Resolve(ctx context.Context, id string, status domain.InvitationStatus) (*domain.EmployeeInvitation, error)
}

type invitationRepository struct {
	pool *pgxpool.Pool
}

// NewInvitationRepository instantiates repository.
func NewInvitationRepository(pool *pgxpool.Pool) InvitationRepository {
	return &invitationRepository{pool: pool}
}

func (r *invitationRepository) Create(ctx context.Context, invitation *domain.EmployeeInvitation) error {
	const query = `
        INSERT INTO employee_invitations (business_id, employee_account_id, status)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		invitation.BusinessID,
		invitation.EmployeeID,
		invitation.Status,
	).Scan(&invitation.ID, &invitation.CreatedAt)
}

func (r *invitationRepository) GetByID(ctx context.Context, id string) (*domain.EmployeeInvitation, error) {
	const query = `
        SELECT id, business_id, employee_account_id, status, created_at, resolved_at
        FROM employee_invitations WHERE id=$1`

	var invitation domain.EmployeeInvitation
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&invitation.ID,
		&invitation.BusinessID,
		&invitation.EmployeeID,
		&invitation.Status,
		&invitation.CreatedAt,
		&invitation.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *invitationRepository) ListByBusiness(ctx context.Context, businessID string) ([]domain.EmployeeInvitation, error) {
	const query = `
        SELECT id, business_id, employee_account_id, status, created_at, resolved_at
        FROM employee_invitations WHERE business_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, businessID)
}

func (r *invitationRepository) ListByEmployee(ctx context.Context, employeeID string) ([]domain.EmployeeInvitation, error) {
	const query = `
        SELECT id, business_id, employee_account_id, status, created_at, resolved_at
        FROM employee_invitations WHERE employee_account_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, employeeID)
}

func (r *invitationRepository) HasPending(ctx context.Context, businessID, employeeID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM employee_invitations
            WHERE business_id=$1 AND employee_account_id=$2 AND status='pending'
        )`

	var pending bool
	if err := r.pool.QueryRow(ctx, query, businessID, employeeID).Scan(&pending); err != nil {
		return false, err
	}
	return pending, nil
}

// Resolve flips a pending invitation into a terminal status as a single
// conditional update; pgx.ErrNoRows means the invitation was missing or
// already resolved.
func (r *invitationRepository) Resolve(ctx context.Context, id string, status domain.InvitationStatus) (*domain.EmployeeInvitation, error) {
	const query = `
        UPDATE employee_invitations SET status=$1, resolved_at=NOW()
        WHERE id=$2 AND status='pending'
        RETURNING id, business_id, employee_account_id, status, created_at, resolved_at`

	var invitation domain.EmployeeInvitation
	if err := r.pool.QueryRow(ctx, query, status, id).Scan(
		&invitation.ID,
		&invitation.BusinessID,
		&invitation.EmployeeID,
		&invitation.Status,
		&invitation.CreatedAt,
		&invitation.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *invitationRepository) list(ctx context.Context, query string, arg any) ([]domain.EmployeeInvitation, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EmployeeInvitation
	for rows.Next() {
		var invitation domain.EmployeeInvitation
		if err := rows.Scan(
			&invitation.ID,
			&invitation.BusinessID,
			&invitation.EmployeeID,
			&invitation.Status,
			&invitation.CreatedAt,
			&invitation.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, invitation)
	}
	return result, rows.Err()
}
