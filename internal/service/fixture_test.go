package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/mes-service/internal/config"
	"github.com/spec-kit/mes-service/internal/domain"
	"github.com/spec-kit/mes-service/internal/events"
	"github.com/spec-kit/mes-service/internal/observability"
	"github.com/spec-kit/mes-service/internal/repository"
	"github.com/spec-kit/mes-service/internal/seed"
)

type fixture struct {
	store      *repository.MemoryStore
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	badges     *BadgeService
	workOrders *WorkOrderService
	auth       *AuthService
	scans      *ScanService
}

func newFixture(t *testing.T, badgeCfg config.BadgeConfig) *fixture {
	t.Helper()
	store := repository.NewMemoryStore(true)
	if _, err := seed.Apply(context.Background(), seed.Sample(time.Now()), store.Employees(), store.WorkOrders(), "changeme", 4, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	f := &fixture{store: store, dispatcher: dispatcher, metrics: metrics}
	f.badges = NewBadgeService(store.Employees())
	f.workOrders = NewWorkOrderService(WorkOrderDependencies{
		WorkOrderRepo:     store.WorkOrders(),
		ProductionLogRepo: store.ProductionLogs(),
		Dispatcher:        dispatcher,
	})
	f.auth = NewAuthService(config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60}, AuthDependencies{
		EmployeeRepo: store.Employees(),
		Dispatcher:   dispatcher,
	})
	f.scans = NewScanService(badgeCfg, ScanDependencies{
		Badges:       f.badges,
		WorkOrders:   f.workOrders,
		Auth:         f.auth,
		SettingsRepo: store.Settings(),
		Dispatcher:   dispatcher,
		Metrics:      metrics,
	})
	return f
}

func defaultBadgeConfig() config.BadgeConfig {
	return config.BadgeConfig{
		LoginEnabled:         true,
		MinLength:            8,
		LoginRedirectURL:     "/dashboard/",
		WorkOrderRedirectURL: "/work-orders/%s",
	}
}

func (f *fixture) employee(t *testing.T, code string) *domain.Employee {
	t.Helper()
	employee, err := f.store.Employees().GetByCode(context.Background(), code)
	if err != nil {
		t.Fatalf("employee %s: %v", code, err)
	}
	return employee
}

func (f *fixture) workOrder(t *testing.T, number string) *domain.WorkOrder {
	t.Helper()
	workOrder, err := f.store.WorkOrders().GetByNumber(context.Background(), number)
	if err != nil {
		t.Fatalf("work order %s: %v", number, err)
	}
	return workOrder
}

// withStatus adds a work order on LINE-A in the given status.
func (f *fixture) withStatus(t *testing.T, number string, status domain.WorkOrderStatus) *domain.WorkOrder {
	t.Helper()
	line := seed.LineA
	workOrder := &domain.WorkOrder{Number: number, ProductLabel: "Test Part", ProductionLineID: &line, PlannedQuantity: 10, Status: status, Priority: 5}
	if err := f.store.WorkOrders().Create(context.Background(), workOrder); err != nil {
		t.Fatalf("create work order: %v", err)
	}
	return workOrder
}
