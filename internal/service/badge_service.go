package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/mes-service/internal/domain"
	"github.com/spec-kit/mes-service/internal/repository"
	apperrors "github.com/spec-kit/mes-service/pkg/util/errorutil"
)

// MessageCardNotRegistered is returned for unknown or deactivated badges.
const MessageCardNotRegistered = "Card not registered"

// BadgeService resolves scanned badge identifiers to employees and lists the
// badge directory.
type BadgeService struct {
	employees repository.EmployeeRepository
}

// NewBadgeService creates the service.
func NewBadgeService(employees repository.EmployeeRepository) *BadgeService {
	return &BadgeService{employees: employees}
}

// Resolve looks up the active employee holding the badge. Matching is exact
// and case-sensitive after surrounding whitespace is trimmed.
func (s *BadgeService) Resolve(ctx context.Context, uid string) (*domain.Employee, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, apperrors.NewValidationError("badge identifier required", nil)
	}

	employee, err := s.employees.GetByBadgeUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundMessage(MessageCardNotRegistered, nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !employee.Active {
		return nil, apperrors.NewNotFoundMessage(MessageCardNotRegistered, nil)
	}
	return employee, nil
}

// EmployeeListFilter narrows the employee directory.
type EmployeeListFilter struct {
	Role   *domain.EmployeeRole
	Active *bool
	Limit  int
	Offset int
}

// List returns employees ordered by code.
func (s *BadgeService) List(ctx context.Context, filter EmployeeListFilter) ([]domain.Employee, error) {
	if filter.Role != nil && !filter.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(*filter.Role)})
	}
	employees, err := s.employees.List(ctx, repository.EmployeeFilter{
		Role:   filter.Role,
		Active: filter.Active,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return employees, nil
}
