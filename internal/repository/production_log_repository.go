package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/mes-service/internal/domain"
)

// ProductionLogRepository reads the work order audit trail. Entries are
// written by WorkOrderRepository.Transition.
type ProductionLogRepository interface {
	ListByWorkOrder(ctx context.Context, workOrderID string, limit int) ([]domain.ProductionLog, error)
}

type productionLogRepository struct {
	pool *pgxpool.Pool
}

// NewProductionLogRepository builds repository.
func NewProductionLogRepository(pool *pgxpool.Pool) ProductionLogRepository {
	return &productionLogRepository{pool: pool}
}

func (r *productionLogRepository) ListByWorkOrder(ctx context.Context, workOrderID string, limit int) ([]domain.ProductionLog, error) {
	const query = `
        SELECT id, work_order_id, COALESCE(operator_id::text, ''), action_type, from_status, to_status, badge_uid, logged_at
        FROM production_logs WHERE work_order_id=$1 ORDER BY logged_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, workOrderID, limitOrDefault(limit, 100))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ProductionLog
	for rows.Next() {
		var entry domain.ProductionLog
		if err := rows.Scan(
			&entry.ID,
			&entry.WorkOrderID,
			&entry.OperatorID,
			&entry.Action,
			&entry.FromStatus,
			&entry.ToStatus,
			&entry.BadgeUID,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
