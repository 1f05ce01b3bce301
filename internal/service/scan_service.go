package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/mes-service/internal/config"
	"github.com/spec-kit/mes-service/internal/domain"
	"github.com/spec-kit/mes-service/internal/events"
	"github.com/spec-kit/mes-service/internal/observability"
	"github.com/spec-kit/mes-service/internal/repository"
	apperrors "github.com/spec-kit/mes-service/pkg/util/errorutil"
)

// User-facing scan messages.
const (
	MessageBadgeLoginDisabled = "Badge login is disabled"
	MessageDuplicateScan      = "Scan already received, please wait"
	MessageScanFailed         = "Scan could not be processed"
)

// ScanRequest is one relayed badge scan.
type ScanRequest struct {
	UID          string
	WorkOrderRef string
	Action       string
	Origin       events.Origin
}

// ScanResult is the outcome returned to the scanning client. Empty strings
// are absent on the wire.
type ScanResult struct {
	Success         bool
	EmployeeName    string
	Action          string
	WorkOrderNumber string
	Message         string
	RedirectURL     string
	// Session is set for successful plain-login scans.
	Session *Session
}

// ScanService composes badge resolution, work order actions and sessions
// behind the scan endpoint.
type ScanService struct {
	badges     *BadgeService
	workOrders *WorkOrderService
	auth       *AuthService
	settings   repository.SettingsRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	cfg        config.BadgeConfig
}

// ScanDependencies bundles collaborators for the scan service.
type ScanDependencies struct {
	Badges       *BadgeService
	WorkOrders   *WorkOrderService
	Auth         *AuthService
	SettingsRepo repository.SettingsRepository
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
}

// NewScanService constructs the service.
func NewScanService(cfg config.BadgeConfig, deps ScanDependencies) *ScanService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanService{
		badges:     deps.Badges,
		workOrders: deps.WorkOrders,
		auth:       deps.Auth,
		settings:   deps.SettingsRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		cfg:        cfg,
	}
}

// HandleScan processes a single scan attempt. Every failure is reported in
// the result rather than as an error.
func (s *ScanService) HandleScan(ctx context.Context, req ScanRequest) ScanResult {
	ctx = events.WithOrigin(ctx, req.Origin)
	uid := strings.TrimSpace(req.UID)
	result, employee, err := s.handle(ctx, uid, req)
	outcome := "ok"
	if err != nil {
		outcome, result = s.failure(err, uid)
	}
	s.metrics.RecordScan(outcome)

	if uid != "" {
		payload := events.BadgeScannedPayload{BadgeUID: uid, Success: result.Success, Outcome: outcome}
		var employeeID *string
		if employee != nil {
			employeeID = &employee.ID
			payload.EmployeeName = employee.DisplayName()
		}
		s.publishEvent(ctx, events.Event{
			Type:       events.EventBadgeScanned,
			EmployeeID: employeeID,
			Origin:     req.Origin,
			Payload:    payload,
		})
	}
	return result
}

func (s *ScanService) handle(ctx context.Context, uid string, req ScanRequest) (ScanResult, *domain.Employee, error) {
	enabled, err := s.settings.BadgeLoginEnabled(ctx)
	if err != nil {
		return ScanResult{}, nil, apperrors.NewInternalError(err)
	}
	if !enabled {
		return ScanResult{}, nil, apperrors.NewForbidden(MessageBadgeLoginDisabled)
	}

	ref := strings.TrimSpace(req.WorkOrderRef)
	rawAction := strings.TrimSpace(req.Action)
	var action domain.WorkOrderAction
	if rawAction != "" {
		parsed, ok := domain.ParseWorkOrderAction(rawAction)
		if !ok {
			return ScanResult{}, nil, apperrors.NewValidationError(fmt.Sprintf("Unknown action %q", rawAction), nil)
		}
		action = parsed
	}
	if (ref == "") != (action == "") {
		return ScanResult{}, nil, apperrors.NewValidationError("Work order and action must be sent together", nil)
	}

	if uid != "" {
		claimed, err := s.settings.ClaimScan(ctx, uid, s.cfg.Debounce())
		if err != nil {
			return ScanResult{}, nil, apperrors.NewInternalError(err)
		}
		if !claimed {
			return ScanResult{}, nil, apperrors.NewConflict(MessageDuplicateScan, nil)
		}
	}

	employee, err := s.badges.Resolve(ctx, uid)
	if err != nil {
		return ScanResult{}, nil, err
	}

	if action == "" {
		session, err := s.auth.IssueBadgeSession(ctx, employee, uid, req.Origin)
		if err != nil {
			return ScanResult{}, employee, err
		}
		return ScanResult{
			Success:      true,
			EmployeeName: employee.DisplayName(),
			RedirectURL:  s.cfg.LoginRedirectURL,
			Session:      session,
		}, employee, nil
	}

	outcome, err := s.workOrders.Apply(ctx, employee, ref, action, &uid)
	if err != nil {
		return ScanResult{}, employee, err
	}
	result := ScanResult{
		Success:         true,
		EmployeeName:    employee.DisplayName(),
		Action:          action.WireName(),
		WorkOrderNumber: outcome.WorkOrder.Number,
		Message:         outcome.Summary,
	}
	if s.cfg.WorkOrderRedirectURL != "" {
		result.RedirectURL = workOrderURL(s.cfg.WorkOrderRedirectURL, outcome.WorkOrder.Number)
	}
	return result, employee, nil
}

// failure converts err into the uniform negative result and the metrics
// outcome label. Internal errors are logged and hidden from the client.
func (s *ScanService) failure(err error, uid string) (string, ScanResult) {
	domainErr := apperrors.ToDomainError(err)
	if domainErr.Code == apperrors.CodeInternal {
		s.logger.Error("badge scan failed", zap.String("badge_uid", uid), zap.Error(err))
		return strings.ToLower(domainErr.Code), ScanResult{Success: false, Message: MessageScanFailed}
	}
	s.logger.Info("badge scan rejected",
		zap.String("badge_uid", uid),
		zap.String("code", domainErr.Code),
		zap.String("reason", domainErr.Message))
	return strings.ToLower(domainErr.Code), ScanResult{Success: false, Message: domainErr.Message}
}

// BadgeLoginEnabled reports whether the scan endpoint accepts badges.
func (s *ScanService) BadgeLoginEnabled(ctx context.Context) (bool, error) {
	enabled, err := s.settings.BadgeLoginEnabled(ctx)
	if err != nil {
		return false, apperrors.MapError(err)
	}
	return enabled, nil
}

// SetBadgeLoginEnabled toggles badge login.
func (s *ScanService) SetBadgeLoginEnabled(ctx context.Context, actor *domain.Employee, enabled bool) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if actor.Role != domain.EmployeeRoleAdmin && actor.Role != domain.EmployeeRoleManager {
		return apperrors.NewForbidden("insufficient role")
	}
	if err := s.settings.SetBadgeLoginEnabled(ctx, enabled); err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("badge login toggled", zap.Bool("enabled", enabled), zap.String("employee_id", actor.ID))
	return nil
}

func (s *ScanService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

func workOrderURL(pattern, number string) string {
	if strings.Contains(pattern, "%s") {
		return fmt.Sprintf(pattern, number)
	}
	return strings.TrimRight(pattern, "/") + "/" + number
}
