package domain

import "time"

// WorkOrderStatus enumerates lifecycle states of a work order.
type WorkOrderStatus string

const (
	WorkOrderStatusPending    WorkOrderStatus = "pending"
	WorkOrderStatusReady      WorkOrderStatus = "ready"
	WorkOrderStatusInProgress WorkOrderStatus = "in_progress"
	WorkOrderStatusPaused     WorkOrderStatus = "paused"
	WorkOrderStatusCompleted  WorkOrderStatus = "completed"
	WorkOrderStatusCancelled  WorkOrderStatus = "cancelled"
)

// WorkOrderAction is an operator action requested through a badge scan.
type WorkOrderAction string

const (
	WorkOrderActionStart WorkOrderAction = "start"
	WorkOrderActionStop  WorkOrderAction = "stop"
	WorkOrderActionPause WorkOrderAction = "pause"
)

// ParseWorkOrderAction accepts the short action names sent by scan clients.
func ParseWorkOrderAction(raw string) (WorkOrderAction, bool) {
	switch WorkOrderAction(raw) {
	case WorkOrderActionStart, WorkOrderActionStop, WorkOrderActionPause:
		return WorkOrderAction(raw), true
	}
	return "", false
}

// WireName is the action identifier returned to scan clients.
func (a WorkOrderAction) WireName() string {
	return "work_order_" + string(a)
}

// PastTense describes a completed action for notifications.
func (a WorkOrderAction) PastTense() string {
	switch a {
	case WorkOrderActionStart:
		return "started"
	case WorkOrderActionPause:
		return "paused"
	case WorkOrderActionStop:
		return "stopped"
	}
	return string(a)
}

// WorkOrder is a trackable unit of production work.
type WorkOrder struct {
	ID               string
	Number           string
	ProductLabel     string
	ProductionLineID *string
	PlannedQuantity  float64
	ProducedQuantity float64
	Status           WorkOrderStatus
	Priority         int
	ActualStart      *time.Time
	ActualEnd        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CompletionRate returns produced/planned as a percentage.
func (w *WorkOrder) CompletionRate() float64 {
	if w.PlannedQuantity <= 0 {
		return 0
	}
	return w.ProducedQuantity / w.PlannedQuantity * 100
}

var actionTransitions = map[WorkOrderAction]struct {
	from []WorkOrderStatus
	to   WorkOrderStatus
}{
	WorkOrderActionStart: {from: []WorkOrderStatus{WorkOrderStatusReady, WorkOrderStatusPaused}, to: WorkOrderStatusInProgress},
	WorkOrderActionPause: {from: []WorkOrderStatus{WorkOrderStatusInProgress}, to: WorkOrderStatusPaused},
	WorkOrderActionStop:  {from: []WorkOrderStatus{WorkOrderStatusInProgress, WorkOrderStatusPaused}, to: WorkOrderStatusCompleted},
}

// NextStatus returns the status reached by applying action from current.
// The second result is false when the pairing is not a legal transition.
func NextStatus(current WorkOrderStatus, action WorkOrderAction) (WorkOrderStatus, bool) {
	rule, ok := actionTransitions[action]
	if !ok {
		return "", false
	}
	for _, status := range rule.from {
		if status == current {
			return rule.to, true
		}
	}
	return "", false
}
