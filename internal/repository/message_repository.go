package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// MessageRepository stores direct messages.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	Update(ctx context.Context, message *domain.Message) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	ListConversation(ctx context.Context, accountA, accountB string, limit, offset int) ([]domain.Message, error)
	HasConversation(ctx context.Context, accountA, accountB string) (bool, error)
	CountUnread(ctx context.Context, receiverID string) (int64, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository instantiates repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

const messageColumns = `id, sender_account_id, receiver_account_id, ticket_id, content, status,
               chat_initiator, chat_started_at, sent_at, delivered_at, read_at`

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	const query = `
        INSERT INTO messages (sender_account_id, receiver_account_id, ticket_id, content, status, chat_initiator, chat_started_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, sent_at`
	return r.pool.QueryRow(ctx, query,
		message.SenderID,
		message.ReceiverID,
		message.TicketID,
		message.Content,
		message.Status,
		message.ChatInitiator,
		message.ChatStartedAt,
	).Scan(&message.ID, &message.SentAt)
}

func (r *messageRepository) Update(ctx context.Context, message *domain.Message) error {
	const query = `
        UPDATE messages SET status=$1, delivered_at=$2, read_at=$3
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		message.Status,
		message.DeliveredAt,
		message.ReadAt,
		message.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id=$1`

	var message domain.Message
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&message.ID,
		&message.SenderID,
		&message.ReceiverID,
		&message.TicketID,
		&message.Content,
		&message.Status,
		&message.ChatInitiator,
		&message.ChatStartedAt,
		&message.SentAt,
		&message.DeliveredAt,
		&message.ReadAt,
	); err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) ListConversation(ctx context.Context, accountA, accountB string, limit, offset int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + messageColumns + ` FROM messages
        WHERE (sender_account_id=$1 AND receiver_account_id=$2)
           OR (sender_account_id=$2 AND receiver_account_id=$1)
        ORDER BY sent_at ASC LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, accountA, accountB, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var message domain.Message
		if err := rows.Scan(
			&message.ID,
			&message.SenderID,
			&message.ReceiverID,
			&message.TicketID,
			&message.Content,
			&message.Status,
			&message.ChatInitiator,
			&message.ChatStartedAt,
			&message.SentAt,
			&message.DeliveredAt,
			&message.ReadAt,
		); err != nil {
			return nil, err
		}
		result = append(result, message)
	}
	return result, rows.Err()
}

func (r *messageRepository) HasConversation(ctx context.Context, accountA, accountB string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM messages
            WHERE (sender_account_id=$1 AND receiver_account_id=$2)
               OR (sender_account_id=$2 AND receiver_account_id=$1)
        )`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, accountA, accountB).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *messageRepository) CountUnread(ctx context.Context, receiverID string) (int64, error) {
	const query = `
        SELECT COUNT(*) FROM messages
        WHERE receiver_account_id=$1 AND status <> 'read'`

	var count int64
	if err := r.pool.QueryRow(ctx, query, receiverID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
