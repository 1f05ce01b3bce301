package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/spec-kit/mes-service/internal/domain"
	apperrors "github.com/spec-kit/mes-service/pkg/util/errorutil"
)

func TestApplyStateMachine(t *testing.T) {
	statuses := []domain.WorkOrderStatus{
		domain.WorkOrderStatusPending,
		domain.WorkOrderStatusReady,
		domain.WorkOrderStatusInProgress,
		domain.WorkOrderStatusPaused,
		domain.WorkOrderStatusCompleted,
		domain.WorkOrderStatusCancelled,
	}
	legal := map[domain.WorkOrderAction]map[domain.WorkOrderStatus]domain.WorkOrderStatus{
		domain.WorkOrderActionStart: {
			domain.WorkOrderStatusReady:  domain.WorkOrderStatusInProgress,
			domain.WorkOrderStatusPaused: domain.WorkOrderStatusInProgress,
		},
		domain.WorkOrderActionPause: {
			domain.WorkOrderStatusInProgress: domain.WorkOrderStatusPaused,
		},
		domain.WorkOrderActionStop: {
			domain.WorkOrderStatusInProgress: domain.WorkOrderStatusCompleted,
			domain.WorkOrderStatusPaused:     domain.WorkOrderStatusCompleted,
		},
	}

	f := newFixture(t, defaultBadgeConfig())
	manager := f.employee(t, "EMP001")
	ctx := context.Background()

	for action, targets := range legal {
		for _, status := range statuses {
			number := fmt.Sprintf("WO-T-%s-%s", action, status)
			t.Run(number, func(t *testing.T) {
				f.withStatus(t, number, status)
				outcome, err := f.workOrders.Apply(ctx, manager, number, action, nil)
				want, ok := targets[status]
				if !ok {
					if !apperrors.HasCode(err, apperrors.CodeInvalidTransition) {
						t.Fatalf("expected INVALID_TRANSITION, got %v", err)
					}
					if got := f.workOrder(t, number).Status; got != status {
						t.Fatalf("status changed on failure: %s", got)
					}
					return
				}
				if err != nil {
					t.Fatalf("apply: %v", err)
				}
				if outcome.PreviousStatus != status || outcome.NewStatus != want {
					t.Fatalf("unexpected outcome %s -> %s", outcome.PreviousStatus, outcome.NewStatus)
				}
				if got := f.workOrder(t, number).Status; got != want {
					t.Fatalf("stored status %s, want %s", got, want)
				}
			})
		}
	}
}

func TestApplyWritesOneProductionLog(t *testing.T) {
	f := newFixture(t, defaultBadgeConfig())
	ctx := context.Background()
	operator := f.employee(t, "EMP002")
	uid := "04005E6F7G8H"

	if _, err := f.workOrders.Apply(ctx, operator, "WO-2024-0006", domain.WorkOrderActionStart, &uid); err != nil {
		t.Fatalf("resume: %v", err)
	}
	workOrder, logs, err := f.workOrders.History(ctx, "WO-2024-0006", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected one log, got %d", len(logs))
	}
	entry := logs[0]
	if entry.Action != domain.ProductionActionResume || entry.OperatorID != operator.ID || entry.WorkOrderID != workOrder.ID {
		t.Fatalf("unexpected log %+v", entry)
	}
	if entry.BadgeUID == nil || *entry.BadgeUID != uid {
		t.Fatalf("badge uid not recorded")
	}
	if entry.FromStatus != domain.WorkOrderStatusPaused || entry.ToStatus != domain.WorkOrderStatusInProgress {
		t.Fatalf("unexpected transition %s -> %s", entry.FromStatus, entry.ToStatus)
	}
}

func TestApplyStampsActualTimes(t *testing.T) {
	f := newFixture(t, defaultBadgeConfig())
	ctx := context.Background()
	manager := f.employee(t, "EMP001")

	outcome, err := f.workOrders.Apply(ctx, manager, "WO-2024-0003", domain.WorkOrderActionStart, nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if outcome.WorkOrder.ActualStart == nil {
		t.Fatalf("actual start not stamped")
	}
	if outcome.Summary != "Work order WO-2024-0003 started" {
		t.Fatalf("unexpected summary %q", outcome.Summary)
	}
	outcome, err = f.workOrders.Apply(ctx, manager, "WO-2024-0003", domain.WorkOrderActionStop, nil)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if outcome.WorkOrder.ActualEnd == nil {
		t.Fatalf("actual end not stamped")
	}
	if _, err := f.workOrders.Apply(ctx, manager, "WO-2024-0003", domain.WorkOrderActionStart, nil); !apperrors.HasCode(err, apperrors.CodeInvalidTransition) {
		t.Fatalf("completed order accepted start: %v", err)
	}
}

func TestApplyRejections(t *testing.T) {
	f := newFixture(t, defaultBadgeConfig())
	ctx := context.Background()
	viewer := &domain.Employee{ID: "viewer-1", Role: domain.EmployeeRoleViewer, Active: true}

	tests := []struct {
		name     string
		employee *domain.Employee
		ref      string
		action   domain.WorkOrderAction
		wantCode string
	}{
		{name: "unknown work order", employee: f.employee(t, "EMP001"), ref: "WO-9999-0001", action: domain.WorkOrderActionStart, wantCode: apperrors.CodeNotFound},
		{name: "operator on other line", employee: f.employee(t, "EMP003"), ref: "WO-2024-0003", action: domain.WorkOrderActionStart, wantCode: apperrors.CodeForbidden},
		{name: "viewer", employee: viewer, ref: "WO-2024-0004", action: domain.WorkOrderActionStart, wantCode: apperrors.CodeForbidden},
		{name: "pause a ready order", employee: f.employee(t, "EMP001"), ref: "WO-2024-0004", action: domain.WorkOrderActionPause, wantCode: apperrors.CodeInvalidTransition},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.workOrders.Apply(ctx, tc.employee, tc.ref, tc.action, nil)
			if !apperrors.HasCode(err, tc.wantCode) {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
		})
	}

	for _, number := range []string{"WO-2024-0003", "WO-2024-0004"} {
		workOrder := f.workOrder(t, number)
		logs, err := f.store.ProductionLogs().ListByWorkOrder(ctx, workOrder.ID, 10)
		if err != nil {
			t.Fatalf("logs: %v", err)
		}
		if len(logs) != 0 || workOrder.Status != domain.WorkOrderStatusReady {
			t.Fatalf("%s modified by a rejected action", number)
		}
	}
}

func TestApplyConcurrentStartHasOneWinner(t *testing.T) {
	f := newFixture(t, defaultBadgeConfig())
	ctx := context.Background()
	manager := f.employee(t, "EMP001")

	const contenders = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		rejected  int
	)
	start := make(chan struct{})
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.workOrders.Apply(ctx, manager, "WO-2024-0004", domain.WorkOrderActionStart, nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperrors.HasCode(err, apperrors.CodeInvalidTransition):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if successes != 1 || rejected != contenders-1 {
		t.Fatalf("expected 1 success and %d rejections, got %d/%d", contenders-1, successes, rejected)
	}
	workOrder := f.workOrder(t, "WO-2024-0004")
	logs, err := f.store.ProductionLogs().ListByWorkOrder(ctx, workOrder.ID, 100)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected exactly one audit row, got %d", len(logs))
	}
}

func TestGetByIDFallback(t *testing.T) {
	f := newFixture(t, defaultBadgeConfig())
	workOrder := f.workOrder(t, "WO-2024-0005")
	got, err := f.workOrders.Get(context.Background(), workOrder.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Number != "WO-2024-0005" {
		t.Fatalf("unexpected work order %s", got.Number)
	}
}
