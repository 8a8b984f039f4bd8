package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// FeedbackRepository stores post-resolution feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.TicketFeedback) error
	GetByTicket(ctx context.Context, ticketID string) (*domain.TicketFeedback, error)
	ExistsForTicket(ctx context.Context, ticketID string) (bool, error)
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository instantiates repository.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.TicketFeedback) error {
	const query = `
        INSERT INTO ticket_feedback (ticket_id, rating, comment)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		feedback.TicketID,
		feedback.Rating,
		feedback.Comment,
	).Scan(&feedback.ID, &feedback.CreatedAt)
}

func (r *feedbackRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.TicketFeedback, error) {
	const query = `
        SELECT id, ticket_id, rating, comment, created_at
        FROM ticket_feedback WHERE ticket_id=$1`

	var feedback domain.TicketFeedback
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&feedback.ID,
		&feedback.TicketID,
		&feedback.Rating,
		&feedback.Comment,
		&feedback.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepository) ExistsForTicket(ctx context.Context, ticketID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM ticket_feedback WHERE ticket_id=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
