package domain

import "time"

// TicketNote is an internal annotation left by the business side of a
// ticket. Notes are append-only; they are never edited or deleted.
type TicketNote struct {
	ID         string
	TicketID   string
	BusinessID string
	Content    string
	CreatedAt  time.Time
}
