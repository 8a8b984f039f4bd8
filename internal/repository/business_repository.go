package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// BusinessRepository encapsulates business profile persistence.
type BusinessRepository interface {
	CreateProfile(ctx context.Context, profile *domain.BusinessProfile) error
	UpdateProfile(ctx context.Context, profile *domain.BusinessProfile) error
	GetProfileByID(ctx context.Context, id string) (*domain.BusinessProfile, error)
	GetProfileByOwner(ctx context.Context, ownerID string) (*domain.BusinessProfile, error)
}

type businessRepository struct {
	pool *pgxpool.Pool
}

// NewBusinessRepository instantiates repository.
func NewBusinessRepository(pool *pgxpool.Pool) BusinessRepository {
	return &businessRepository{pool: pool}
}

func (r *businessRepository) CreateProfile(ctx context.Context, profile *domain.BusinessProfile) error {
	const query = `
        INSERT INTO business_profiles (owner_account_id, display_name, description)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		profile.OwnerID,
		profile.DisplayName,
		profile.Description,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *businessRepository) UpdateProfile(ctx context.Context, profile *domain.BusinessProfile) error {
	const query = `
        UPDATE business_profiles SET display_name=$1, description=$2, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query,
		profile.DisplayName,
		profile.Description,
		profile.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *businessRepository) GetProfileByID(ctx context.Context, id string) (*domain.BusinessProfile, error) {
	const query = `
        SELECT id, owner_account_id, display_name, description, created_at, updated_at
        FROM business_profiles WHERE id=$1`
	return r.fetchProfile(ctx, query, id)
}

func (r *businessRepository) GetProfileByOwner(ctx context.Context, ownerID string) (*domain.BusinessProfile, error) {
	const query = `
        SELECT id, owner_account_id, display_name, description, created_at, updated_at
        FROM business_profiles WHERE owner_account_id=$1`
	return r.fetchProfile(ctx, query, ownerID)
}

func (r *businessRepository) fetchProfile(ctx context.Context, query string, arg any) (*domain.BusinessProfile, error) {
	var profile domain.BusinessProfile
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&profile.ID,
		&profile.OwnerID,
		&profile.DisplayName,
		&profile.Description,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}
