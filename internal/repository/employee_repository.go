package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// EmployeeRepository manages business membership records.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.BusinessEmployee) error
	SetActive(ctx context.Context, businessID, employeeID string, active bool) error
	Get(ctx context.Context, businessID, employeeID string) (*domain.BusinessEmployee, error)
	ListByBusiness(ctx context.Context, businessID string) ([]domain.BusinessEmployee, error)
	IsActiveMember(ctx context.Context, businessID, accountID string) (bool, error)
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.BusinessEmployee) error {
	const query = `
        INSERT INTO business_employees (business_id, employee_account_id, is_active)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		employee.BusinessID,
		employee.EmployeeID,
		employee.IsActive,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
}

func (r *employeeRepository) SetActive(ctx context.Context, businessID, employeeID string, active bool) error {
	const query = `
        UPDATE business_employees SET is_active=$1, updated_at=NOW()
        WHERE business_id=$2 AND employee_account_id=$3`

	cmd, err := r.pool.Exec(ctx, query, active, businessID, employeeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) Get(ctx context.Context, businessID, employeeID string) (*domain.BusinessEmployee, error) {
	const query = `
        SELECT id, business_id, employee_account_id, is_active, created_at, updated_at
        FROM business_employees WHERE business_id=$1 AND employee_account_id=$2`

	var employee domain.BusinessEmployee
	if err := r.pool.QueryRow(ctx, query, businessID, employeeID).Scan(
		&employee.ID,
		&employee.BusinessID,
		&employee.EmployeeID,
		&employee.IsActive,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) ListByBusiness(ctx context.Context, businessID string) ([]domain.BusinessEmployee, error) {
	const query = `
        SELECT id, business_id, employee_account_id, is_active, created_at, updated_at
        FROM business_employees WHERE business_id=$1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BusinessEmployee
	for rows.Next() {
		var employee domain.BusinessEmployee
		if err := rows.Scan(
			&employee.ID,
			&employee.BusinessID,
			&employee.EmployeeID,
			&employee.IsActive,
			&employee.CreatedAt,
			&employee.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, employee)
	}
	return result, rows.Err()
}

func (r *employeeRepository) IsActiveMember(ctx context.Context, businessID, accountID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM business_employees
            WHERE business_id=$1 AND employee_account_id=$2 AND is_active
        )`

	var active bool
	if err := r.pool.QueryRow(ctx, query, businessID, accountID).Scan(&active); err != nil {
		return false, err
	}
	return active, nil
}
