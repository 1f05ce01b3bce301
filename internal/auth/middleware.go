package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/mes-service/internal/domain"
	"github.com/spec-kit/mes-service/internal/repository"
	apperrors "github.com/spec-kit/mes-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated employee.
type Principal struct {
	Employee *domain.Employee
	Source   domain.SessionSource
}

// AuthMiddleware validates bearer tokens or the session cookie and loads the employee.
type AuthMiddleware struct {
	tokens     *TokenManager
	employees  repository.EmployeeRepository
	cookieName string
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, employees repository.EmployeeRepository, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, employees: employees, cookieName: cookieName}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, err := m.extractToken(c)
	if err != nil {
		return err
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	employee, err := m.employees.GetByID(c.UserContext(), claims.EmployeeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("employee not found")
		}
		return apperrors.MapError(err)
	}
	if !employee.Active {
		return apperrors.NewUnauthorized("employee inactive")
	}

	c.Locals(principalKey, &Principal{Employee: employee, Source: claims.Source})
	return c.Next()
}

func (m *AuthMiddleware) extractToken(c *fiber.Ctx) (string, error) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", apperrors.NewUnauthorized("invalid authorization header")
		}
		return parts[1], nil
	}
	if m.cookieName != "" {
		if cookie := c.Cookies(m.cookieName); cookie != "" {
			return cookie, nil
		}
	}
	return "", apperrors.NewUnauthorized("missing credentials")
}

// PrincipalFromContext retrieves the authenticated employee.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
