package kiosk

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spec-kit/mes-service/internal/domain"
)

// ScanResult is a validated scan endpoint response. Empty strings are absent
// fields.
type ScanResult struct {
	Success         bool
	EmployeeName    string
	Action          domain.WorkOrderAction
	WorkOrderNumber string
	Message         string
	RedirectURL     string
}

type wireScanResult struct {
	Success      *bool   `json:"success"`
	EmployeeName *string `json:"employee_name"`
	Action       *string `json:"action"`
	WONumber     *string `json:"wo_number"`
	Message      *string `json:"message"`
	RedirectURL  *string `json:"redirect_url"`
}

// DecodeScanResult parses and validates a scan response body. success is
// required and action, when present, must name a known work order action.
func DecodeScanResult(data []byte) (ScanResult, error) {
	var wire wireScanResult
	if err := json.Unmarshal(data, &wire); err != nil {
		return ScanResult{}, fmt.Errorf("decode scan result: %w", err)
	}
	if wire.Success == nil {
		return ScanResult{}, errors.New("scan result without success flag")
	}

	result := ScanResult{
		Success:         *wire.Success,
		EmployeeName:    deref(wire.EmployeeName),
		WorkOrderNumber: deref(wire.WONumber),
		Message:         deref(wire.Message),
		RedirectURL:     deref(wire.RedirectURL),
	}
	if wire.Action != nil && *wire.Action != "" {
		action, ok := domain.ParseWorkOrderAction(strings.TrimPrefix(*wire.Action, "work_order_"))
		if !ok || action.WireName() != *wire.Action {
			return ScanResult{}, fmt.Errorf("unknown scan action %q", *wire.Action)
		}
		result.Action = action
	}
	return result, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
