package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/mes-service/internal/auth"
	"github.com/spec-kit/mes-service/internal/config"
	"github.com/spec-kit/mes-service/internal/domain"
	"github.com/spec-kit/mes-service/internal/events"
	"github.com/spec-kit/mes-service/internal/repository"
	apperrors "github.com/spec-kit/mes-service/pkg/util/errorutil"
)

// Session is an issued employee session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Source    domain.SessionSource
}

// AuthService coordinates password and badge logins.
type AuthService struct {
	employees  repository.EmployeeRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		employees:  deps.EmployeeRepo,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL()),
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login authenticates an employee by code and password.
func (s *AuthService) Login(ctx context.Context, code, password string, origin events.Origin) (*domain.Employee, *Session, error) {
	code = strings.TrimSpace(code)
	if code == "" || password == "" {
		return nil, nil, apperrors.NewValidationError("employee_code and password required", nil)
	}
	employee, err := s.employees.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, nil, apperrors.MapError(err)
	}
	if !employee.Active || !auth.PasswordMatches(employee.PasswordHash, password) {
		return nil, nil, apperrors.NewUnauthorized("invalid credentials")
	}

	session, err := s.issue(ctx, employee, domain.SessionSourcePassword, nil, origin)
	if err != nil {
		return nil, nil, err
	}
	return employee, session, nil
}

// IssueBadgeSession signs a session for an employee resolved from a badge.
func (s *AuthService) IssueBadgeSession(ctx context.Context, employee *domain.Employee, badgeUID string, origin events.Origin) (*Session, error) {
	return s.issue(ctx, employee, domain.SessionSourceBadge, &badgeUID, origin)
}

func (s *AuthService) issue(ctx context.Context, employee *domain.Employee, source domain.SessionSource, badgeUID *string, origin events.Origin) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(employee, source)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if s.dispatcher != nil {
		err := s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventEmployeeLogin,
			EmployeeID: &employee.ID,
			Origin:     origin,
			Timestamp:  time.Now().UTC(),
			Payload: events.EmployeeLoginPayload{
				EmployeeCode: employee.EmployeeCode,
				Source:       source,
				BadgeUID:     badgeUID,
			},
		})
		if err != nil {
			s.logger.Warn("event handlers failed", zap.String("event", string(events.EventEmployeeLogin)), zap.Error(err))
		}
	}
	return &Session{Token: token, ExpiresAt: exp, Source: source}, nil
}
