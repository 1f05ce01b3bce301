package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/mes-service/internal/domain"
	"github.com/spec-kit/mes-service/internal/events"
	"github.com/spec-kit/mes-service/internal/repository"
	apperrors "github.com/spec-kit/mes-service/pkg/util/errorutil"
)

// ActivityService turns domain events into operation log entries.
type ActivityService struct {
	dispatcher events.Dispatcher
	logs       repository.ActivityLogRepository
	logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logs repository.ActivityLogRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		dispatcher: dispatcher,
		logs:       logs,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventBadgeScanned, a.handleBadgeScanned)
	a.dispatcher.Subscribe(events.EventWorkOrderTransitioned, a.handleWorkOrderTransitioned)
	a.dispatcher.Subscribe(events.EventEmployeeLogin, a.handleEmployeeLogin)
}

// MaxRecentActivities caps one page of the operation log.
const MaxRecentActivities = 100

// Recent returns the newest operation log entries, newest first. A
// non-positive limit means 20.
func (a *ActivityService) Recent(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > MaxRecentActivities {
		limit = MaxRecentActivities
	}
	entries, err := a.logs.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (a *ActivityService) handleBadgeScanned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.BadgeScannedPayload)
	if !ok {
		return nil
	}
	description := fmt.Sprintf("Badge scan rejected: %s", payload.Outcome)
	if payload.Success {
		description = fmt.Sprintf("Badge scan by %s", payload.EmployeeName)
	}
	uid := payload.BadgeUID
	return a.record(ctx, event, domain.ActivityNFCScan, description, &uid)
}

func (a *ActivityService) handleWorkOrderTransitioned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.WorkOrderTransitionedPayload)
	if !ok {
		return nil
	}
	description := fmt.Sprintf("Work order %s %s (%s -> %s)",
		payload.WorkOrderNumber, payload.Action.PastTense(), payload.OldStatus, payload.NewStatus)
	return a.record(ctx, event, activityForAction(payload.Action), description, payload.BadgeUID)
}

func (a *ActivityService) handleEmployeeLogin(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.EmployeeLoginPayload)
	if !ok {
		return nil
	}
	description := fmt.Sprintf("Employee %s logged in via %s", payload.EmployeeCode, payload.Source)
	return a.record(ctx, event, domain.ActivityLogin, description, payload.BadgeUID)
}

func (a *ActivityService) record(ctx context.Context, event events.Event, kind domain.ActivityType, description string, badgeUID *string) error {
	entry := &domain.ActivityLog{
		EmployeeID:  event.EmployeeID,
		ActionType:  kind,
		Description: description,
		BadgeUID:    badgeUID,
		IPAddress:   event.Origin.IPAddress,
		DeviceInfo:  event.Origin.DeviceInfo,
	}
	if err := a.logs.Create(ctx, entry); err != nil {
		a.logger.Warn("activity log write failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err))
		return err
	}
	a.logger.Debug("activity recorded", zap.String("action_type", string(kind)), zap.String("event_id", event.ID))
	return nil
}

func activityForAction(action domain.WorkOrderAction) domain.ActivityType {
	switch action {
	case domain.WorkOrderActionStart:
		return domain.ActivityStart
	case domain.WorkOrderActionPause:
		return domain.ActivityPause
	default:
		return domain.ActivityStop
	}
}
