package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spec-kit/mes-service/internal/domain"
)

func seedWorkOrder(t *testing.T, store *MemoryStore, status domain.WorkOrderStatus) *domain.WorkOrder {
	t.Helper()
	workOrder := &domain.WorkOrder{Number: "WO-2024-0100", ProductLabel: "Bracket", Status: status, Priority: 3}
	if err := store.WorkOrders().Create(context.Background(), workOrder); err != nil {
		t.Fatalf("create: %v", err)
	}
	return workOrder
}

func TestTransitionGuardsStatus(t *testing.T) {
	store := NewMemoryStore(true)
	workOrder := seedWorkOrder(t, store, domain.WorkOrderStatusReady)
	ctx := context.Background()

	_, err := store.WorkOrders().Transition(ctx, TransitionInput{
		WorkOrderID: workOrder.ID,
		From:        domain.WorkOrderStatusPaused,
		To:          domain.WorkOrderStatusInProgress,
		Log:         &domain.ProductionLog{Action: domain.ProductionActionResume},
	})
	if !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}
	logs, _ := store.ProductionLogs().ListByWorkOrder(ctx, workOrder.ID, 10)
	if len(logs) != 0 {
		t.Fatalf("log written on conflict")
	}

	started := time.Now()
	updated, err := store.WorkOrders().Transition(ctx, TransitionInput{
		WorkOrderID: workOrder.ID,
		From:        domain.WorkOrderStatusReady,
		To:          domain.WorkOrderStatusInProgress,
		ActualStart: &started,
		Log:         &domain.ProductionLog{Action: domain.ProductionActionStart, OperatorID: "emp-1"},
	})
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if updated.Status != domain.WorkOrderStatusInProgress || updated.ActualStart == nil {
		t.Fatalf("unexpected work order %+v", updated)
	}
	logs, _ = store.ProductionLogs().ListByWorkOrder(ctx, workOrder.ID, 10)
	if len(logs) != 1 || logs[0].WorkOrderID != workOrder.ID || logs[0].ID == "" {
		t.Fatalf("unexpected logs %+v", logs)
	}
}

func TestTransitionUnknownWorkOrder(t *testing.T) {
	store := NewMemoryStore(true)
	_, err := store.WorkOrders().Transition(context.Background(), TransitionInput{WorkOrderID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransitionConcurrentCAS(t *testing.T) {
	store := NewMemoryStore(true)
	workOrder := seedWorkOrder(t, store, domain.WorkOrderStatusReady)

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = store.WorkOrders().Transition(context.Background(), TransitionInput{
				WorkOrderID: workOrder.ID,
				From:        domain.WorkOrderStatusReady,
				To:          domain.WorkOrderStatusInProgress,
				Log:         &domain.ProductionLog{Action: domain.ProductionActionStart},
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case !errors.Is(err, ErrStatusConflict):
			t.Fatalf("unexpected error %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected one winner, got %d", wins)
	}
}

func TestClaimScanWindow(t *testing.T) {
	store := NewMemoryStore(true)
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	settings := store.Settings()
	ctx := context.Background()

	if ok, _ := settings.ClaimScan(ctx, "04001A2B3C4D", time.Second); !ok {
		t.Fatalf("first claim rejected")
	}
	if ok, _ := settings.ClaimScan(ctx, "04001A2B3C4D", time.Second); ok {
		t.Fatalf("duplicate claim accepted")
	}
	now = now.Add(2 * time.Second)
	if ok, _ := settings.ClaimScan(ctx, "04001A2B3C4D", time.Second); !ok {
		t.Fatalf("claim after window rejected")
	}
	if ok, _ := settings.ClaimScan(ctx, "04001A2B3C4D", 0); !ok {
		t.Fatalf("zero window must always claim")
	}
}

func TestEmployeeUpsertByCode(t *testing.T) {
	store := NewMemoryStore(true)
	ctx := context.Background()
	badge := "04001A2B3C4D"
	first := &domain.Employee{EmployeeCode: "EMP001", FirstName: "John", BadgeUID: &badge, Active: true}
	if err := store.Employees().Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	second := &domain.Employee{EmployeeCode: "EMP001", FirstName: "Johnny", BadgeUID: &badge, Active: true}
	if err := store.Employees().Create(ctx, second); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert created a new row")
	}
	found, err := store.Employees().GetByBadgeUID(ctx, badge)
	if err != nil || found.FirstName != "Johnny" {
		t.Fatalf("unexpected lookup %+v %v", found, err)
	}
}

func TestEmployeeBadgeIsUnique(t *testing.T) {
	store := NewMemoryStore(true)
	ctx := context.Background()
	badge := "04AABBCCDD"
	old := &domain.Employee{EmployeeCode: "OLD", BadgeUID: &badge, Active: false}
	if err := store.Employees().Create(ctx, old); err != nil {
		t.Fatalf("create: %v", err)
	}

	taken := &domain.Employee{EmployeeCode: "NEW", BadgeUID: &badge, Active: true}
	if err := store.Employees().Create(ctx, taken); !errors.Is(err, ErrDuplicateBadge) {
		t.Fatalf("expected ErrDuplicateBadge, got %v", err)
	}
	if _, err := store.Employees().GetByCode(ctx, "NEW"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("rejected employee was stored: %v", err)
	}

	old.BadgeUID = nil
	if err := store.Employees().Create(ctx, old); err != nil {
		t.Fatalf("release badge: %v", err)
	}
	moved := &domain.Employee{EmployeeCode: "NEW", BadgeUID: &badge, Active: true}
	if err := store.Employees().Create(ctx, moved); err != nil {
		t.Fatalf("reassign badge: %v", err)
	}
	for i := 0; i < 50; i++ {
		found, err := store.Employees().GetByBadgeUID(ctx, badge)
		if err != nil || found.EmployeeCode != "NEW" {
			t.Fatalf("lookup #%d returned %+v %v", i, found, err)
		}
	}
}

func TestWorkOrderListMostUrgentFirst(t *testing.T) {
	store := NewMemoryStore(true)
	ctx := context.Background()
	for _, wo := range []domain.WorkOrder{
		{Number: "WO-2024-0201", Priority: 3},
		{Number: "WO-2024-0202", Priority: 10},
		{Number: "WO-2024-0200", Priority: 10},
		{Number: "WO-2024-0203", Priority: 1},
	} {
		wo := wo
		if err := store.WorkOrders().Create(ctx, &wo); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := store.WorkOrders().List(ctx, WorkOrderFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"WO-2024-0200", "WO-2024-0202", "WO-2024-0201", "WO-2024-0203"}
	for i, number := range want {
		if list[i].Number != number {
			t.Fatalf("position %d: got %s, want %s", i, list[i].Number, number)
		}
	}
}
