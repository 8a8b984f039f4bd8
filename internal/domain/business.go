package domain

import "time"

// BusinessProfile is the public face of a business-role account.
// At most one profile exists per owning account.
type BusinessProfile struct {
	ID          string
	OwnerID     string
	DisplayName string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BusinessEmployee links an employee-role account to a business.
// The (business, employee) pair is unique; deactivation flips the flag
// rather than deleting the row.
type BusinessEmployee struct {
	ID         string
	BusinessID string
	EmployeeID string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
