package events

import (
	"context"
	"time"

	"github.com/spec-kit/mes-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBadgeScanned          EventType = "badge_scanned"
	EventWorkOrderTransitioned EventType = "work_order_transitioned"
	EventEmployeeLogin         EventType = "employee_login"
)

// Origin describes the device a request came from.
type Origin struct {
	IPAddress  string `json:"ip_address,omitempty"`
	DeviceInfo string `json:"device_info,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	EmployeeID *string     `json:"employee_id,omitempty"`
	Origin     Origin      `json:"origin"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// BadgeScannedPayload is emitted for every scan that reached the resolver.
type BadgeScannedPayload struct {
	BadgeUID     string `json:"badge_uid"`
	Success      bool   `json:"success"`
	Outcome      string `json:"outcome"`
	EmployeeName string `json:"employee_name,omitempty"`
}

// WorkOrderTransitionedPayload payload.
type WorkOrderTransitionedPayload struct {
	WorkOrderID     string                 `json:"work_order_id"`
	WorkOrderNumber string                 `json:"wo_number"`
	Action          domain.WorkOrderAction `json:"action"`
	OldStatus       domain.WorkOrderStatus `json:"old_status"`
	NewStatus       domain.WorkOrderStatus `json:"new_status"`
	BadgeUID        *string                `json:"badge_uid,omitempty"`
}

// EmployeeLoginPayload payload.
type EmployeeLoginPayload struct {
	EmployeeCode string               `json:"employee_code"`
	Source       domain.SessionSource `json:"source"`
	BadgeUID     *string              `json:"badge_uid,omitempty"`
}

type originKey struct{}

// WithOrigin attaches the request origin to ctx for events published downstream.
func WithOrigin(ctx context.Context, origin Origin) context.Context {
	return context.WithValue(ctx, originKey{}, origin)
}

// OriginFromContext returns the origin stored by WithOrigin.
func OriginFromContext(ctx context.Context) Origin {
	origin, _ := ctx.Value(originKey{}).(Origin)
	return origin
}
