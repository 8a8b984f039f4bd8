package domain

import "time"

// Rating bounds for ticket feedback.
const (
	FeedbackRatingMin = 1
	FeedbackRatingMax = 5
)

// TicketFeedback is the customer's rating for a resolved ticket.
// At most one record exists per ticket.
type TicketFeedback struct {
	ID        string
	TicketID  string
	Rating    int
	Comment   *string
	CreatedAt time.Time
}

// ValidRating reports whether the rating is within bounds.
func ValidRating(rating int) bool {
	return rating >= FeedbackRatingMin && rating <= FeedbackRatingMax
}
