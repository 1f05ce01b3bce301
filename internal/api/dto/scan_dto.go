package dto

import "github.com/spec-kit/mes-service/internal/service"

// ScanRequest is the body relayed by a kiosk after a badge scan.
type ScanRequest struct {
	UID         string `json:"uid"`
	WorkOrderID string `json:"workOrderId,omitempty"`
	Action      string `json:"action,omitempty"`
}

// ScanResponse is returned with HTTP 200 for every scan.
type ScanResponse struct {
	Success      bool   `json:"success"`
	EmployeeName string `json:"employee_name,omitempty"`
	Action       string `json:"action,omitempty"`
	WONumber     string `json:"wo_number,omitempty"`
	Message      string `json:"message,omitempty"`
	RedirectURL  string `json:"redirect_url,omitempty"`
}

// BadgeStatusResponse reports whether badge login is enabled.
type BadgeStatusResponse struct {
	Enabled bool `json:"enabled"`
}

// UpdateBadgeStatusRequest toggles badge login.
type UpdateBadgeStatusRequest struct {
	Enabled *bool `json:"enabled"`
}

// NewScanResponse maps a service result to the wire shape.
func NewScanResponse(result service.ScanResult) ScanResponse {
	return ScanResponse{
		Success:      result.Success,
		EmployeeName: result.EmployeeName,
		Action:       result.Action,
		WONumber:     result.WorkOrderNumber,
		Message:      result.Message,
		RedirectURL:  result.RedirectURL,
	}
}
