package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Set bundles one implementation of every repository.
type Set struct {
	Employees      EmployeeRepository
	WorkOrders     WorkOrderRepository
	ProductionLogs ProductionLogRepository
	ActivityLogs   ActivityLogRepository
	Settings       SettingsRepository
}

// Set returns the memory store views as a Set.
func (m *MemoryStore) Set() Set {
	return Set{
		Employees:      m.Employees(),
		WorkOrders:     m.WorkOrders(),
		ProductionLogs: m.ProductionLogs(),
		ActivityLogs:   m.ActivityLogs(),
		Settings:       m.Settings(),
	}
}

// NewSet picks Postgres tables when pool is non-nil and Redis settings when
// client is non-nil. Missing backends fall back to process memory.
func NewSet(pool *pgxpool.Pool, client *redis.Client, badgeLoginEnabled bool) Set {
	memory := NewMemoryStore(badgeLoginEnabled)
	set := memory.Set()
	if pool != nil {
		set.Employees = NewEmployeeRepository(pool)
		set.WorkOrders = NewWorkOrderRepository(pool)
		set.ProductionLogs = NewProductionLogRepository(pool)
		set.ActivityLogs = NewActivityLogRepository(pool)
	}
	if client != nil {
		set.Settings = NewRedisSettingsRepository(client, badgeLoginEnabled)
	}
	return set
}
