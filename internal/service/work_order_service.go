package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/mes-service/internal/domain"
	"github.com/spec-kit/mes-service/internal/events"
	"github.com/spec-kit/mes-service/internal/repository"
	apperrors "github.com/spec-kit/mes-service/pkg/util/errorutil"
)

// WorkOrderService applies scan-driven actions to work orders.
type WorkOrderService struct {
	workOrders repository.WorkOrderRepository
	logs       repository.ProductionLogRepository
	authorizer Authorizer
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// WorkOrderDependencies bundles collaborators for the work order service.
type WorkOrderDependencies struct {
	WorkOrderRepo     repository.WorkOrderRepository
	ProductionLogRepo repository.ProductionLogRepository
	Authorizer        Authorizer
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// ActionOutcome describes a successfully applied action.
type ActionOutcome struct {
	WorkOrder      *domain.WorkOrder
	Action         domain.WorkOrderAction
	PreviousStatus domain.WorkOrderStatus
	NewStatus      domain.WorkOrderStatus
	Summary        string
}

// WorkOrderListFilter describes listing filters.
type WorkOrderListFilter struct {
	Statuses         []domain.WorkOrderStatus
	ProductionLineID *string
	Limit            int
	Offset           int
}

// NewWorkOrderService constructs the service. A nil Authorizer means RolePolicy.
func NewWorkOrderService(deps WorkOrderDependencies) *WorkOrderService {
	authorizer := deps.Authorizer
	if authorizer == nil {
		authorizer = RolePolicy{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkOrderService{
		workOrders: deps.WorkOrderRepo,
		logs:       deps.ProductionLogRepo,
		authorizer: authorizer,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Apply validates and performs action on the referenced work order for the
// employee. On success exactly one status change and one production log row
// are stored; on failure nothing is written.
func (s *WorkOrderService) Apply(ctx context.Context, employee *domain.Employee, ref string, action domain.WorkOrderAction, badgeUID *string) (*ActionOutcome, error) {
	if employee == nil {
		return nil, apperrors.NewUnauthorized("employee required")
	}
	workOrder, err := s.lookup(ctx, ref)
	if err != nil {
		return nil, err
	}

	next, ok := domain.NextStatus(workOrder.Status, action)
	if !ok {
		return nil, invalidTransition(workOrder, action)
	}
	if !s.authorizer.CanOperate(employee, workOrder) {
		return nil, apperrors.NewForbidden(fmt.Sprintf("Not allowed to operate work order %s", workOrder.Number))
	}

	now := s.now()
	input := repository.TransitionInput{
		WorkOrderID: workOrder.ID,
		From:        workOrder.Status,
		To:          next,
		Log: &domain.ProductionLog{
			OperatorID: employee.ID,
			Action:     productionAction(workOrder.Status, action),
			FromStatus: workOrder.Status,
			ToStatus:   next,
			BadgeUID:   badgeUID,
			Timestamp:  now,
		},
	}
	switch {
	case action == domain.WorkOrderActionStart && workOrder.ActualStart == nil:
		input.ActualStart = &now
	case action == domain.WorkOrderActionStop:
		input.ActualEnd = &now
	}

	updated, err := s.workOrders.Transition(ctx, input)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, s.conflict(ctx, workOrder, action)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("work order", map[string]any{"work_order": ref})
		}
		return nil, apperrors.MapError(err)
	}

	outcome := &ActionOutcome{
		WorkOrder:      updated,
		Action:         action,
		PreviousStatus: workOrder.Status,
		NewStatus:      updated.Status,
		Summary:        fmt.Sprintf("Work order %s %s", updated.Number, action.PastTense()),
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventWorkOrderTransitioned,
		EmployeeID: &employee.ID,
		Timestamp:  now,
		Payload: events.WorkOrderTransitionedPayload{
			WorkOrderID:     updated.ID,
			WorkOrderNumber: updated.Number,
			Action:          action,
			OldStatus:       outcome.PreviousStatus,
			NewStatus:       outcome.NewStatus,
			BadgeUID:        badgeUID,
		},
	})
	return outcome, nil
}

// List returns work orders matching the filter.
func (s *WorkOrderService) List(ctx context.Context, filter WorkOrderListFilter) ([]domain.WorkOrder, error) {
	workOrders, err := s.workOrders.List(ctx, repository.WorkOrderFilter{
		Statuses:         filter.Statuses,
		ProductionLineID: filter.ProductionLineID,
		Limit:            filter.Limit,
		Offset:           filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return workOrders, nil
}

// Get returns a work order by number or id.
func (s *WorkOrderService) Get(ctx context.Context, ref string) (*domain.WorkOrder, error) {
	return s.lookup(ctx, ref)
}

// History returns the production log of a work order, newest first.
func (s *WorkOrderService) History(ctx context.Context, ref string, limit int) (*domain.WorkOrder, []domain.ProductionLog, error) {
	workOrder, err := s.lookup(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	logs, err := s.logs.ListByWorkOrder(ctx, workOrder.ID, limit)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return workOrder, logs, nil
}

// lookup accepts the work order number used on the shop floor and falls back
// to the internal id.
func (s *WorkOrderService) lookup(ctx context.Context, ref string) (*domain.WorkOrder, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, apperrors.NewValidationError("work order reference required", nil)
	}
	workOrder, err := s.workOrders.GetByNumber(ctx, ref)
	if errors.Is(err, repository.ErrNotFound) {
		if _, parseErr := uuid.Parse(ref); parseErr == nil {
			workOrder, err = s.workOrders.GetByID(ctx, ref)
		}
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundMessage(fmt.Sprintf("Work order %s not found", ref), map[string]any{"work_order": ref})
		}
		return nil, apperrors.MapError(err)
	}
	return workOrder, nil
}

// conflict re-reads the order after a lost compare-and-set so the error
// names the status the winner left behind.
func (s *WorkOrderService) conflict(ctx context.Context, observed *domain.WorkOrder, action domain.WorkOrderAction) error {
	current, err := s.workOrders.GetByID(ctx, observed.ID)
	if err != nil {
		return invalidTransition(observed, action)
	}
	return invalidTransition(current, action)
}

func (s *WorkOrderService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

func invalidTransition(workOrder *domain.WorkOrder, action domain.WorkOrderAction) error {
	return apperrors.NewInvalidTransition(
		fmt.Sprintf("Cannot %s work order %s while %s", action, workOrder.Number, statusLabel(workOrder.Status)),
		map[string]any{"status": string(workOrder.Status), "action": string(action)},
	)
}

func productionAction(from domain.WorkOrderStatus, action domain.WorkOrderAction) domain.ProductionAction {
	switch action {
	case domain.WorkOrderActionStart:
		if from == domain.WorkOrderStatusPaused {
			return domain.ProductionActionResume
		}
		return domain.ProductionActionStart
	case domain.WorkOrderActionPause:
		return domain.ProductionActionPause
	default:
		return domain.ProductionActionStop
	}
}

func statusLabel(status domain.WorkOrderStatus) string {
	return strings.ReplaceAll(string(status), "_", " ")
}
