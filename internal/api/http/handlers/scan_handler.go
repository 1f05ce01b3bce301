package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/mes-service/internal/api/dto"
	"github.com/spec-kit/mes-service/internal/auth"
	"github.com/spec-kit/mes-service/internal/events"
	"github.com/spec-kit/mes-service/internal/service"
	apperrors "github.com/spec-kit/mes-service/pkg/util/errorutil"
)

// MessageInvalidPayload answers scans whose body could not be parsed.
const MessageInvalidPayload = "Invalid scan payload"

// ScanHandler exposes the badge scan endpoints.
type ScanHandler struct {
	scans        *service.ScanService
	cookieName   string
	secureCookie bool
}

// NewScanHandler constructs handler.
func NewScanHandler(scans *service.ScanService, cookieName string, secureCookie bool) *ScanHandler {
	return &ScanHandler{scans: scans, cookieName: cookieName, secureCookie: secureCookie}
}

// Scan handles POST /api/nfc/scan. It always answers 200; failures are
// reported through success=false and message.
func (h *ScanHandler) Scan(c *fiber.Ctx) error {
	var req dto.ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.JSON(dto.ScanResponse{Success: false, Message: MessageInvalidPayload})
	}

	result := h.scans.HandleScan(c.UserContext(), service.ScanRequest{
		UID:          req.UID,
		WorkOrderRef: req.WorkOrderID,
		Action:       req.Action,
		Origin:       requestOrigin(c),
	})
	if result.Session != nil && h.cookieName != "" {
		c.Cookie(&fiber.Cookie{
			Name:     h.cookieName,
			Value:    result.Session.Token,
			Path:     "/",
			Expires:  result.Session.ExpiresAt,
			HTTPOnly: true,
			Secure:   h.secureCookie,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return c.JSON(dto.NewScanResponse(result))
}

// Status handles GET /api/nfc/status.
func (h *ScanHandler) Status(c *fiber.Ctx) error {
	enabled, err := h.scans.BadgeLoginEnabled(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.BadgeStatusResponse{Enabled: enabled})
}

// UpdateStatus handles PUT /api/nfc/status.
func (h *ScanHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateBadgeStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Enabled == nil {
		return apperrors.NewValidationError("enabled required", nil)
	}
	if err := h.scans.SetBadgeLoginEnabled(c.UserContext(), principal.Employee, *req.Enabled); err != nil {
		return err
	}
	return c.JSON(dto.BadgeStatusResponse{Enabled: *req.Enabled})
}

func requestOrigin(c *fiber.Ctx) events.Origin {
	return events.Origin{IPAddress: c.IP(), DeviceInfo: c.Get(fiber.HeaderUserAgent)}
}
