package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/mes-service/internal/domain"
)

// WorkOrderFilter captures listing parameters.
type WorkOrderFilter struct {
	Statuses         []domain.WorkOrderStatus
	ProductionLineID *string
	Limit            int
	Offset           int
}

// TransitionInput describes a guarded status change and the audit entry
// written with it.
type TransitionInput struct {
	WorkOrderID string
	From        domain.WorkOrderStatus
	To          domain.WorkOrderStatus
	ActualStart *time.Time
	ActualEnd   *time.Time
	Log         *domain.ProductionLog
}

// WorkOrderRepository encapsulates work order persistence.
type WorkOrderRepository interface {
	Create(ctx context.Context, workOrder *domain.WorkOrder) error
	GetByID(ctx context.Context, id string) (*domain.WorkOrder, error)
	GetByNumber(ctx context.Context, number string) (*domain.WorkOrder, error)
	List(ctx context.Context, filter WorkOrderFilter) ([]domain.WorkOrder, error)
	// Transition sets the new status only if the stored status still equals
	// input.From, and inserts input.Log in the same transaction. It returns
	// ErrStatusConflict when the guard fails and writes nothing in that case.
	Transition(ctx context.Context, input TransitionInput) (*domain.WorkOrder, error)
}

const workOrderColumns = `id, wo_number, product_label, production_line_id, planned_quantity::float8,
        produced_quantity::float8, status, priority, actual_start, actual_end, created_at, updated_at`

type workOrderRepository struct {
	pool *pgxpool.Pool
}

// NewWorkOrderRepository instantiates repository.
func NewWorkOrderRepository(pool *pgxpool.Pool) WorkOrderRepository {
	return &workOrderRepository{pool: pool}
}

func (r *workOrderRepository) Create(ctx context.Context, workOrder *domain.WorkOrder) error {
	const query = `
        INSERT INTO work_orders (wo_number, product_label, production_line_id, planned_quantity,
            produced_quantity, status, priority, actual_start, actual_end)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (wo_number) DO UPDATE SET
            product_label=EXCLUDED.product_label, production_line_id=EXCLUDED.production_line_id,
            planned_quantity=EXCLUDED.planned_quantity, produced_quantity=EXCLUDED.produced_quantity,
            status=EXCLUDED.status, priority=EXCLUDED.priority, actual_start=EXCLUDED.actual_start,
            actual_end=EXCLUDED.actual_end, updated_at=NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		workOrder.Number,
		workOrder.ProductLabel,
		workOrder.ProductionLineID,
		workOrder.PlannedQuantity,
		workOrder.ProducedQuantity,
		workOrder.Status,
		workOrder.Priority,
		workOrder.ActualStart,
		workOrder.ActualEnd,
	).Scan(&workOrder.ID, &workOrder.CreatedAt, &workOrder.UpdatedAt)
}

func (r *workOrderRepository) GetByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	return r.fetchSingle(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE id=$1`, id)
}

func (r *workOrderRepository) GetByNumber(ctx context.Context, number string) (*domain.WorkOrder, error) {
	return r.fetchSingle(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE wo_number=$1`, number)
}

func (r *workOrderRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.WorkOrder, error) {
	workOrder, err := scanWorkOrder(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, normalize(err)
	}
	return workOrder, nil
}

func (r *workOrderRepository) List(ctx context.Context, filter WorkOrderFilter) ([]domain.WorkOrder, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.ProductionLineID != nil {
		args = append(args, *filter.ProductionLineID)
		clauses = append(clauses, fmt.Sprintf("production_line_id=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM work_orders WHERE %s ORDER BY priority DESC, wo_number ASC LIMIT %d OFFSET %d`,
		workOrderColumns, strings.Join(clauses, " AND "), limitOrDefault(filter.Limit, 50), max(filter.Offset, 0))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WorkOrder
	for rows.Next() {
		workOrder, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *workOrder)
	}
	return result, rows.Err()
}

func (r *workOrderRepository) Transition(ctx context.Context, input TransitionInput) (*domain.WorkOrder, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const update = `
        UPDATE work_orders SET status=$1,
            actual_start=COALESCE($2, actual_start),
            actual_end=COALESCE($3, actual_end),
            updated_at=NOW()
        WHERE id=$4 AND status=$5
        RETURNING ` + workOrderColumns
	workOrder, err := scanWorkOrder(tx.QueryRow(ctx, update,
		input.To,
		input.ActualStart,
		input.ActualEnd,
		input.WorkOrderID,
		input.From,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStatusConflict
		}
		return nil, err
	}

	if input.Log != nil {
		const insert = `
            INSERT INTO production_logs (work_order_id, operator_id, action_type, from_status, to_status, badge_uid, logged_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7)
            RETURNING id`
		entry := input.Log
		if entry.Timestamp.IsZero() {
			entry.Timestamp = time.Now().UTC()
		}
		if err := tx.QueryRow(ctx, insert,
			workOrder.ID,
			nullableID(entry.OperatorID),
			entry.Action,
			entry.FromStatus,
			entry.ToStatus,
			entry.BadgeUID,
			entry.Timestamp,
		).Scan(&entry.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return workOrder, nil
}

func scanWorkOrder(row pgx.Row) (*domain.WorkOrder, error) {
	var workOrder domain.WorkOrder
	if err := row.Scan(
		&workOrder.ID,
		&workOrder.Number,
		&workOrder.ProductLabel,
		&workOrder.ProductionLineID,
		&workOrder.PlannedQuantity,
		&workOrder.ProducedQuantity,
		&workOrder.Status,
		&workOrder.Priority,
		&workOrder.ActualStart,
		&workOrder.ActualEnd,
		&workOrder.CreatedAt,
		&workOrder.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &workOrder, nil
}

func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
