package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// ErrClaimLost marks a conditional claim update that matched no row
// because the ticket was no longer open and unclaimed.
var ErrClaimLost = fmt.Errorf("ticket already claimed")

// TicketFilter captures listing parameters.
type TicketFilter struct {
	CustomerID  *string
	BusinessID  *string
	ClaimedByID *string
	Statuses    []domain.TicketStatus
	Categories  []domain.TicketCategory
	Priorities  []domain.TicketPriority
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByExternalKey(ctx context.Context, key string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Claim(ctx context.Context, ticketID, claimantID string) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, external_key, customer_account_id, business_id, title, description,
               status, category, priority, claimed_by_id,
               escalation_level, escalation_reason, escalated_by_id, escalated_at, previous_assignee_id,
               created_at, updated_at, resolved_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (external_key, customer_account_id, business_id, title, description, status, category, priority, escalation_level)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ExternalKey,
		ticket.CustomerID,
		ticket.BusinessID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Category,
		ticket.Priority,
		ticket.EscalationLevel,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

// Update persists mutable ticket fields. Customer and business
// references are immutable and never written after creation.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, status=$3, category=$4, priority=$5,
            claimed_by_id=$6, escalation_level=$7, escalation_reason=$8, escalated_by_id=$9,
            escalated_at=$10, previous_assignee_id=$11, resolved_at=$12, updated_at=NOW()
        WHERE id=$13`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Category,
		ticket.Priority,
		ticket.ClaimedByID,
		ticket.EscalationLevel,
		ticket.EscalationReason,
		ticket.EscalatedByID,
		ticket.EscalatedAt,
		ticket.PreviousAssigneeID,
		ticket.ResolvedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByExternalKey(ctx context.Context, key string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE external_key=$1`
	return r.fetchSingle(ctx, query, key)
}

// Claim performs the compare-and-set transition open -> in_progress.
// The condition lives in the statement so two concurrent claimants race
// on the row itself: exactly one update matches. ErrClaimLost is
// returned when the ticket exists but was not open and unclaimed.
func (r *ticketRepository) Claim(ctx context.Context, ticketID, claimantID string) (*domain.Ticket, error) {
	query := `
        UPDATE tickets SET status='in_progress', claimed_by_id=$1, updated_at=NOW()
        WHERE id=$2 AND status='open' AND claimed_by_id IS NULL
        RETURNING ` + ticketColumns

	ticket, err := r.scanRow(r.pool.QueryRow(ctx, query, claimantID, ticketID))
	if err == nil {
		return ticket, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	// No row matched: distinguish a lost race from a missing ticket.
	if _, getErr := r.GetByID(ctx, ticketID); getErr != nil {
		return nil, getErr
	}
	return nil, ErrClaimLost
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	return r.scanRow(r.pool.QueryRow(ctx, query, arg))
}

func (r *ticketRepository) scanRow(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.ExternalKey,
		&ticket.CustomerID,
		&ticket.BusinessID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Category,
		&ticket.Priority,
		&ticket.ClaimedByID,
		&ticket.EscalationLevel,
		&ticket.EscalationReason,
		&ticket.EscalatedByID,
		&ticket.EscalatedAt,
		&ticket.PreviousAssigneeID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_account_id=$%d", len(args)))
	}
	if filter.BusinessID != nil {
		args = append(args, *filter.BusinessID)
		clauses = append(clauses, fmt.Sprintf("business_id=$%d", len(args)))
	}
	if filter.ClaimedByID != nil {
		args = append(args, *filter.ClaimedByID)
		clauses = append(clauses, fmt.Sprintf("claimed_by_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			args = append(args, category)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.ExternalKey,
			&ticket.CustomerID,
			&ticket.BusinessID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Status,
			&ticket.Category,
			&ticket.Priority,
			&ticket.ClaimedByID,
			&ticket.EscalationLevel,
			&ticket.EscalationReason,
			&ticket.EscalatedByID,
			&ticket.EscalatedAt,
			&ticket.PreviousAssigneeID,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&ticket.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
