package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

func newMessageService(w *ticketWorld) *MessageService {
	return NewMessageService(MessageDependencies{
		MessageRepo: newFakeMessageRepo(),
		AccountRepo: w.accounts,
		TicketRepo:  w.tickets,
		Dispatcher:  events.NewInMemoryDispatcher(),
	})
}

func TestSendMessageMarksChatInitiator(t *testing.T) {
	w := newTicketWorld(t)
	svc := newMessageService(w)
	ctx := context.Background()

	first, err := svc.SendMessage(ctx, w.customer, w.employee.ID, nil, "hello")
	require.NoError(t, err)
	assert.Equal(t, domain.MessageSent, first.Status)
	assert.True(t, first.ChatInitiator)
	assert.NotNil(t, first.ChatStartedAt)

	// Reply in the opposite direction belongs to the same conversation.
	reply, err := svc.SendMessage(ctx, w.employee, w.customer.ID, nil, "hi there")
	require.NoError(t, err)
	assert.False(t, reply.ChatInitiator)
	assert.Nil(t, reply.ChatStartedAt)
}

func TestSendMessageValidation(t *testing.T) {
	w := newTicketWorld(t)
	svc := newMessageService(w)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, w.customer, w.customer.ID, nil, "talking to myself")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = svc.SendMessage(ctx, w.customer, w.employee.ID, nil, "   ")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = svc.SendMessage(ctx, w.customer, "acc-missing", nil, "hello")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	missing := "tkt-missing"
	_, err = svc.SendMessage(ctx, w.customer, w.employee.ID, &missing, "about my ticket")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestSendMessageAttachedToTicket(t *testing.T) {
	w := newTicketWorld(t)
	svc := newMessageService(w)
	ticket := w.mustTicket(t)

	message, err := svc.SendMessage(context.Background(), w.customer, w.employee.ID, &ticket.ID, "any update?")
	require.NoError(t, err)
	require.NotNil(t, message.TicketID)
	assert.Equal(t, ticket.ID, *message.TicketID)
}

func TestAcknowledgeProgression(t *testing.T) {
	w := newTicketWorld(t)
	svc := newMessageService(w)
	ctx := context.Background()

	message, err := svc.SendMessage(ctx, w.customer, w.employee.ID, nil, "hello")
	require.NoError(t, err)

	delivered, err := svc.Acknowledge(ctx, w.employee, message.ID, domain.MessageDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.MessageDelivered, delivered.Status)
	assert.NotNil(t, delivered.DeliveredAt)
	assert.Nil(t, delivered.ReadAt)

	read, err := svc.Acknowledge(ctx, w.employee, message.ID, domain.MessageRead)
	require.NoError(t, err)
	assert.Equal(t, domain.MessageRead, read.Status)
	assert.NotNil(t, read.ReadAt)
}

func TestAcknowledgeSkipToReadSetsDeliveredAt(t *testing.T) {
	w := newTicketWorld(t)
	svc := newMessageService(w)
	ctx := context.Background()

	message, err := svc.SendMessage(ctx, w.customer, w.employee.ID, nil, "hello")
	require.NoError(t, err)

	read, err := svc.Acknowledge(ctx, w.employee, message.ID, domain.MessageRead)
	require.NoError(t, err)
	assert.Equal(t, domain.MessageRead, read.Status)
	assert.NotNil(t, read.DeliveredAt)
	assert.NotNil(t, read.ReadAt)
}

func TestAcknowledgeIsIdempotentAndMonotonic(t *testing.T) {
	w := newTicketWorld(t)
	svc := newMessageService(w)
	ctx := context.Background()

	message, err := svc.SendMessage(ctx, w.customer, w.employee.ID, nil, "hello")
	require.NoError(t, err)

	read, err := svc.Acknowledge(ctx, w.employee, message.ID, domain.MessageRead)
	require.NoError(t, err)
	firstReadAt := read.ReadAt

	// A late delivered ack must not regress the status.
	late, err := svc.Acknowledge(ctx, w.employee, message.ID, domain.MessageDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.MessageRead, late.Status)

	again, err := svc.Acknowledge(ctx, w.employee, message.ID, domain.MessageRead)
	require.NoError(t, err)
	assert.Equal(t, firstReadAt, again.ReadAt)
}

func TestAcknowledgeOnlyReceiver(t *testing.T) {
	w := newTicketWorld(t)
	svc := newMessageService(w)
	ctx := context.Background()

	message, err := svc.SendMessage(ctx, w.customer, w.employee.ID, nil, "hello")
	require.NoError(t, err)

	_, err = svc.Acknowledge(ctx, w.customer, message.ID, domain.MessageDelivered)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = svc.Acknowledge(ctx, w.owner, message.ID, domain.MessageRead)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestAcknowledgeRejectsSentTarget(t *testing.T) {
	w := newTicketWorld(t)
	svc := newMessageService(w)
	ctx := context.Background()

	message, err := svc.SendMessage(ctx, w.customer, w.employee.ID, nil, "hello")
	require.NoError(t, err)

	_, err = svc.Acknowledge(ctx, w.employee, message.ID, domain.MessageSent)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestUnreadCount(t *testing.T) {
	w := newTicketWorld(t)
	svc := newMessageService(w)
	ctx := context.Background()

	first, err := svc.SendMessage(ctx, w.customer, w.employee.ID, nil, "one")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, w.customer, w.employee.ID, nil, "two")
	require.NoError(t, err)

	count, err := svc.UnreadCount(ctx, w.employee)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Delivered messages still count as unread.
	_, err = svc.Acknowledge(ctx, w.employee, first.ID, domain.MessageDelivered)
	require.NoError(t, err)
	count, err = svc.UnreadCount(ctx, w.employee)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = svc.Acknowledge(ctx, w.employee, first.ID, domain.MessageRead)
	require.NoError(t, err)
	count, err = svc.UnreadCount(ctx, w.employee)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestListConversation(t *testing.T) {
	w := newTicketWorld(t)
	svc := newMessageService(w)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, w.customer, w.employee.ID, nil, "one")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, w.employee, w.customer.ID, nil, "two")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, w.customer, w.owner.ID, nil, "other thread")
	require.NoError(t, err)

	messages, err := svc.ListConversation(ctx, w.customer, w.employee.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}
