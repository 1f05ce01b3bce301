package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/mes-service/internal/domain"
)

// EmployeeRepository is the employee directory.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	GetByCode(ctx context.Context, code string) (*domain.Employee, error)
	GetByBadgeUID(ctx context.Context, uid string) (*domain.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error)
}

// EmployeeFilter defines query params for employee listing.
type EmployeeFilter struct {
	Role   *domain.EmployeeRole
	Active *bool
	Limit  int
	Offset int
}

const employeeColumns = `id, employee_code, first_name, last_name, email, role, badge_uid,
        production_line_id, password_hash, active_flag, created_at, updated_at`

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (employee_code, first_name, last_name, email, role, badge_uid,
            production_line_id, password_hash, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (employee_code) DO UPDATE SET
            first_name=EXCLUDED.first_name, last_name=EXCLUDED.last_name, email=EXCLUDED.email,
            role=EXCLUDED.role, badge_uid=EXCLUDED.badge_uid, production_line_id=EXCLUDED.production_line_id,
            password_hash=EXCLUDED.password_hash, active_flag=EXCLUDED.active_flag, updated_at=NOW()
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		employee.EmployeeCode,
		employee.FirstName,
		employee.LastName,
		employee.Email,
		employee.Role,
		employee.BadgeUID,
		employee.ProductionLineID,
		employee.PasswordHash,
		employee.Active,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
	return normalize(err)
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	return r.fetchSingle(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id=$1`, id)
}

func (r *employeeRepository) GetByCode(ctx context.Context, code string) (*domain.Employee, error) {
	return r.fetchSingle(ctx, `SELECT `+employeeColumns+` FROM employees WHERE employee_code=$1`, code)
}

// GetByBadgeUID matches the badge exactly; comparison is case-sensitive.
func (r *employeeRepository) GetByBadgeUID(ctx context.Context, uid string) (*domain.Employee, error) {
	return r.fetchSingle(ctx, `SELECT `+employeeColumns+` FROM employees WHERE badge_uid=$1`, uid)
}

func (r *employeeRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Employee, error) {
	employee, err := scanEmployee(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, normalize(err)
	}
	return employee, nil
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees`
	args := []any{}
	clauses := []string{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active_flag=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY employee_code"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limitOrDefault(filter.Limit, 50), max(filter.Offset, 0))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *employee)
	}
	return result, rows.Err()
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var employee domain.Employee
	if err := row.Scan(
		&employee.ID,
		&employee.EmployeeCode,
		&employee.FirstName,
		&employee.LastName,
		&employee.Email,
		&employee.Role,
		&employee.BadgeUID,
		&employee.ProductionLineID,
		&employee.PasswordHash,
		&employee.Active,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &employee, nil
}

func limitOrDefault(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}
