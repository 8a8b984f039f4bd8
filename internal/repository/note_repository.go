package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// NoteRepository stores append-only ticket notes.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.TicketNote) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketNote, error)
}

type noteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository instantiates repository.
func NewNoteRepository(pool *pgxpool.Pool) NoteRepository {
	return &noteRepository{pool: pool}
}

func (r *noteRepository) Create(ctx context.Context, note *domain.TicketNote) error {
	const query = `
        INSERT INTO ticket_notes (ticket_id, business_id, content)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		note.TicketID,
		note.BusinessID,
		note.Content,
	).Scan(&note.ID, &note.CreatedAt)
}

func (r *noteRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketNote, error) {
	const query = `
        SELECT id, ticket_id, business_id, content, created_at
        FROM ticket_notes WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketNote
	for rows.Next() {
		var note domain.TicketNote
		if err := rows.Scan(
			&note.ID,
			&note.TicketID,
			&note.BusinessID,
			&note.Content,
			&note.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, note)
	}
	return result, rows.Err()
}
