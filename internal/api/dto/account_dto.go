package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Handle   string             `json:"handle"`
	Email    string             `json:"email"`
	Password string             `json:"password"`
	Role     domain.AccountRole `json:"role"`
}

// LoginRequest payload.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// AccountResponse hides credential fields.
type AccountResponse struct {
	ID        string             `json:"id"`
	Handle    string             `json:"handle"`
	Email     string             `json:"email"`
	Role      domain.AccountRole `json:"role"`
	CreatedAt time.Time          `json:"created_at"`
}

// AuthResponse wraps the account and its token.
type AuthResponse struct {
	Account   AccountResponse `json:"account"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// NewAccountResponse maps a domain account.
func NewAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		Handle:    account.Handle,
		Email:     account.Email,
		Role:      account.Role,
		CreatedAt: account.CreatedAt,
	}
}
