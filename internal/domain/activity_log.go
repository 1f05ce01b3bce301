package domain

import "time"

// ActivityType classifies entries of the operation log.
type ActivityType string

const (
	ActivityNFCScan ActivityType = "nfc_scan"
	ActivityLogin   ActivityType = "login"
	ActivityStart   ActivityType = "start"
	ActivityPause   ActivityType = "pause"
	ActivityStop    ActivityType = "stop"
)

// ActivityLog records who did what from which device.
type ActivityLog struct {
	ID          string
	EmployeeID  *string
	ActionType  ActivityType
	Description string
	BadgeUID    *string
	IPAddress   string
	DeviceInfo  string
	Timestamp   time.Time
}
