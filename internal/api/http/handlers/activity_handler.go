package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/mes-service/internal/api/dto"
	"github.com/spec-kit/mes-service/internal/domain"
	"github.com/spec-kit/mes-service/internal/service"
	apperrors "github.com/spec-kit/mes-service/pkg/util/errorutil"
)

// ActivityHandler exposes the operation log and the employee directory to
// supervisors.
type ActivityHandler struct {
	activity *service.ActivityService
	badges   *service.BadgeService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activityService *service.ActivityService, badgeService *service.BadgeService) *ActivityHandler {
	return &ActivityHandler{activity: activityService, badges: badgeService}
}

// Recent GET /api/activity.
func (h *ActivityHandler) Recent(c *fiber.Ctx) error {
	entries, err := h.activity.Recent(c.UserContext(), c.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	items := make([]dto.ActivityLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewActivityLogResponse(entry))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Employees GET /api/employees.
func (h *ActivityHandler) Employees(c *fiber.Ctx) error {
	filter := service.EmployeeListFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		r := domain.EmployeeRole(role)
		filter.Role = &r
	}
	if active := c.Query("active"); active != "" {
		switch active {
		case "true", "1":
			v := true
			filter.Active = &v
		case "false", "0":
			v := false
			filter.Active = &v
		default:
			return apperrors.NewValidationError("active must be true or false", nil)
		}
	}

	employees, err := h.badges.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.DirectoryEntry, 0, len(employees))
	for i := range employees {
		items = append(items, dto.NewDirectoryEntry(&employees[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
