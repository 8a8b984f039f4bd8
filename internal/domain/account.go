package domain

import "time"

// AccountRole partitions accounts into the three participant kinds.
// The role is chosen at registration and never changes afterwards.
type AccountRole string

const (
	RoleBusiness AccountRole = "business"
	RoleCustomer AccountRole = "customer"
	RoleEmployee AccountRole = "employee"
)

// ValidRole reports whether the value is one of the known roles.
func ValidRole(role AccountRole) bool {
	switch role {
	case RoleBusiness, RoleCustomer, RoleEmployee:
		return true
	}
	return false
}

// Account is the domain model for any authenticated participant.
type Account struct {
	ID           string
	Handle       string
	Email        string
	PasswordHash string
	Role         AccountRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
