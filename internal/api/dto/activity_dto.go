package dto

import (
	"time"

	"github.com/spec-kit/mes-service/internal/domain"
)

// ActivityLogResponse is one operation log entry.
type ActivityLogResponse struct {
	ID          string              `json:"id"`
	EmployeeID  *string             `json:"employee_id"`
	ActionType  domain.ActivityType `json:"action_type"`
	Description string              `json:"description"`
	BadgeUID    *string             `json:"nfc_uid"`
	IPAddress   string              `json:"ip_address,omitempty"`
	DeviceInfo  string              `json:"device_info,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
}

// DirectoryEntry is an employee as listed to managers.
type DirectoryEntry struct {
	EmployeeResponse
	BadgeUID *string `json:"nfc_uid"`
	Active   bool    `json:"is_active"`
}

// NewActivityLogResponse maps an activity entry.
func NewActivityLogResponse(entry domain.ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:          entry.ID,
		EmployeeID:  entry.EmployeeID,
		ActionType:  entry.ActionType,
		Description: entry.Description,
		BadgeUID:    entry.BadgeUID,
		IPAddress:   entry.IPAddress,
		DeviceInfo:  entry.DeviceInfo,
		Timestamp:   entry.Timestamp,
	}
}

// NewDirectoryEntry maps an employee for the directory listing.
func NewDirectoryEntry(employee *domain.Employee) DirectoryEntry {
	return DirectoryEntry{
		EmployeeResponse: NewEmployeeResponse(employee),
		BadgeUID:         employee.BadgeUID,
		Active:           employee.Active,
	}
}
