package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// MessageService handles direct messaging between accounts and the
// monotonic delivery acknowledgement flow.
type MessageService struct {
	messages   repository.MessageRepository
	accounts   repository.AccountRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	cache      *redis.Client
	cacheTTL   time.Duration
}

// MessageDependencies bundles collaborators for the message service.
type MessageDependencies struct {
	MessageRepo repository.MessageRepository
	AccountRepo repository.AccountRepository
	TicketRepo  repository.TicketRepository
	Dispatcher  events.Dispatcher
	Cache       *redis.Client
	CacheTTL    time.Duration
}

// NewMessageService constructs the service.
func NewMessageService(deps MessageDependencies) *MessageService {
	return &MessageService{
		messages:   deps.MessageRepo,
		accounts:   deps.AccountRepo,
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		cacheTTL:   deps.CacheTTL,
	}
}

// SendMessage creates a message in the sent state. The first message
// ever exchanged between the pair carries the chat-initiator mark.
func (s *MessageService) SendMessage(ctx context.Context, sender *domain.Account, receiverID string, ticketID *string, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}
	if sender == nil {
		return nil, apperrors.NewUnauthorized("account required")
	}
	if receiverID == sender.ID {
		return nil, apperrors.NewValidationError("cannot message yourself", nil)
	}

	if _, err := s.accounts.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", map[string]any{"account_id": receiverID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticketID != nil {
		if _, err := s.tickets.GetByID(ctx, *ticketID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": *ticketID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	existing, err := s.messages.HasConversation(ctx, sender.ID, receiverID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	message := &domain.Message{
		SenderID:   sender.ID,
		ReceiverID: receiverID,
		TicketID:   ticketID,
		Content:    content,
		Status:     domain.MessageSent,
	}
	if !existing {
		now := time.Now()
		message.ChatInitiator = true
		message.ChatStartedAt = &now
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.invalidateUnread(ctx, receiverID)
	s.publishEvent(ctx, events.Event{
		Type:      events.EventMessageSent,
		SubjectID: message.ID,
		Actor:     accountActor(sender),
		Payload: events.MessageSentPayload{
			MessageID:     message.ID,
			ReceiverID:    message.ReceiverID,
			TicketID:      message.TicketID,
			ChatInitiator: message.ChatInitiator,
		},
	})
	return message, nil
}

// ListConversation returns messages between the caller and a peer.
func (s *MessageService) ListConversation(ctx context.Context, caller *domain.Account, peerID string, limit, offset int) ([]domain.Message, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("account required")
	}
	messages, err := s.messages.ListConversation(ctx, caller.ID, peerID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return messages, nil
}

// Acknowledge advances a message's delivery status. Only the receiver
// may acknowledge. The progression is monotonic; acknowledging the
// current or an earlier status is a no-op, never an error.
func (s *MessageService) Acknowledge(ctx context.Context, caller *domain.Account, messageID string, toStatus domain.MessageStatus) (*domain.Message, error) {
	if toStatus != domain.MessageDelivered && toStatus != domain.MessageRead {
		return nil, apperrors.NewValidationError("status must be delivered or read", map[string]any{"status": toStatus})
	}
	message, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("message", map[string]any{"message_id": messageID})
		}
		return nil, apperrors.MapError(err)
	}
	if caller == nil || message.ReceiverID != caller.ID {
		return nil, apperrors.NewForbidden("only the receiver can acknowledge")
	}

	if toStatus.Rank() <= message.Status.Rank() {
		return message, nil
	}

	now := time.Now()
	if message.DeliveredAt == nil {
		message.DeliveredAt = &now
	}
	if toStatus == domain.MessageRead && message.ReadAt == nil {
		message.ReadAt = &now
	}
	message.Status = toStatus
	if err := s.messages.Update(ctx, message); err != nil {
		return nil, apperrors.MapError(err)
	}

	if toStatus == domain.MessageRead {
		s.invalidateUnread(ctx, message.ReceiverID)
	}
	return message, nil
}

// UnreadCount returns how many messages addressed to the caller have
// not been read yet. The count is cached briefly in Redis.
func (s *MessageService) UnreadCount(ctx context.Context, caller *domain.Account) (int64, error) {
	if caller == nil {
		return 0, apperrors.NewUnauthorized("account required")
	}
	key := unreadKey(caller.ID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Int64(); err == nil {
			return cached, nil
		}
	}
	count, err := s.messages.CountUnread(ctx, caller.ID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, count, s.cacheTTL).Err()
	}
	return count, nil
}

func (s *MessageService) invalidateUnread(ctx context.Context, receiverID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, unreadKey(receiverID)).Err()
}

func unreadKey(accountID string) string {
	return fmt.Sprintf("unread:%s", accountID)
}

func (s *MessageService) publishEvent(ctx context.Context, event events.Event) {
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
