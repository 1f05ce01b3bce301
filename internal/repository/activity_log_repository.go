package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/mes-service/internal/domain"
)

// ActivityLogRepository stores the operation log.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	ListRecent(ctx context.Context, limit int) ([]domain.ActivityLog, error)
}

type activityLogRepository struct {
	pool *pgxpool.Pool
}

// NewActivityLogRepository builds repository.
func NewActivityLogRepository(pool *pgxpool.Pool) ActivityLogRepository {
	return &activityLogRepository{pool: pool}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	const query = `
        INSERT INTO activity_logs (employee_id, action_type, description, badge_uid, ip_address, device_info)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, logged_at`
	return r.pool.QueryRow(ctx, query,
		entry.EmployeeID,
		entry.ActionType,
		entry.Description,
		entry.BadgeUID,
		entry.IPAddress,
		entry.DeviceInfo,
	).Scan(&entry.ID, &entry.Timestamp)
}

func (r *activityLogRepository) ListRecent(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	const query = `
        SELECT id, employee_id::text, action_type, description, badge_uid,
               COALESCE(ip_address, ''), COALESCE(device_info, ''), logged_at
        FROM activity_logs ORDER BY logged_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limitOrDefault(limit, 20))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActivityLog
	for rows.Next() {
		var entry domain.ActivityLog
		if err := rows.Scan(
			&entry.ID,
			&entry.EmployeeID,
			&entry.ActionType,
			&entry.Description,
			&entry.BadgeUID,
			&entry.IPAddress,
			&entry.DeviceInfo,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
