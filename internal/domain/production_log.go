package domain

import "time"

// ProductionAction is the action recorded against a work order transition.
type ProductionAction string

const (
	ProductionActionStart  ProductionAction = "start"
	ProductionActionResume ProductionAction = "resume"
	ProductionActionPause  ProductionAction = "pause"
	ProductionActionStop   ProductionAction = "stop"
)

// ProductionLog is an immutable audit entry for one work order transition.
type ProductionLog struct {
	ID          string
	WorkOrderID string
	OperatorID  string
	Action      ProductionAction
	FromStatus  WorkOrderStatus
	ToStatus    WorkOrderStatus
	BadgeUID    *string
	Timestamp   time.Time
}
