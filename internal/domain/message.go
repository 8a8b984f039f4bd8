package domain

import "time"

// MessageStatus tracks delivery acknowledgement of a direct message.
// Transitions are strictly monotonic: sent -> delivered -> read.
type MessageStatus string

const (
	MessageSent      MessageStatus = "sent"
	MessageDelivered MessageStatus = "delivered"
	MessageRead      MessageStatus = "read"
)

var messageRanks = map[MessageStatus]int{
	MessageSent:      0,
	MessageDelivered: 1,
	MessageRead:      2,
}

// Rank returns the ordering position of the status; unknown values rank -1.
func (s MessageStatus) Rank() int {
	rank, ok := messageRanks[s]
	if !ok {
		return -1
	}
	return rank
}

// Message is a direct message between two accounts, optionally attached
// to a ticket. ChatInitiator marks the first message ever exchanged
// between the pair, in either direction.
type Message struct {
	ID            string
	SenderID      string
	ReceiverID    string
	TicketID      *string
	Content       string
	Status        MessageStatus
	ChatInitiator bool
	ChatStartedAt *time.Time
	SentAt        time.Time
	DeliveredAt   *time.Time
	ReadAt        *time.Time
}
