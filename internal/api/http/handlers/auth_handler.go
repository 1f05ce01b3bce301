package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/mes-service/internal/api/dto"
	"github.com/spec-kit/mes-service/internal/service"
	apperrors "github.com/spec-kit/mes-service/pkg/util/errorutil"
)

// AuthHandler exposes the password login fallback.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	employee, session, err := h.auth.Login(c.UserContext(), req.EmployeeCode, req.Password, requestOrigin(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.LoginResponse{
			AccessToken: session.Token,
			ExpiresAt:   session.ExpiresAt,
			Employee:    dto.NewEmployeeResponse(employee),
		},
	})
}
