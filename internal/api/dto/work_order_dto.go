package dto

import (
	"time"

	"github.com/spec-kit/mes-service/internal/domain"
)

// WorkOrderSummary response.
type WorkOrderSummary struct {
	ID               string                 `json:"id"`
	Number           string                 `json:"wo_number"`
	ProductLabel     string                 `json:"product"`
	ProductionLineID *string                `json:"production_line"`
	PlannedQuantity  float64                `json:"planned_quantity"`
	ProducedQuantity float64                `json:"produced_quantity"`
	CompletionRate   float64                `json:"completion_rate"`
	Status           domain.WorkOrderStatus `json:"status"`
	Priority         int                    `json:"priority"`
	ActualStart      *time.Time             `json:"actual_start"`
	ActualEnd        *time.Time             `json:"actual_end"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// ProductionLogResponse is one audit entry.
type ProductionLogResponse struct {
	ID         string                  `json:"id"`
	OperatorID string                  `json:"operator_id"`
	Action     domain.ProductionAction `json:"action"`
	FromStatus domain.WorkOrderStatus  `json:"from_status"`
	ToStatus   domain.WorkOrderStatus  `json:"to_status"`
	BadgeUID   *string                 `json:"nfc_uid,omitempty"`
	Timestamp  time.Time               `json:"timestamp"`
}

// NewWorkOrderSummary maps a work order.
func NewWorkOrderSummary(workOrder *domain.WorkOrder) WorkOrderSummary {
	return WorkOrderSummary{
		ID:               workOrder.ID,
		Number:           workOrder.Number,
		ProductLabel:     workOrder.ProductLabel,
		ProductionLineID: workOrder.ProductionLineID,
		PlannedQuantity:  workOrder.PlannedQuantity,
		ProducedQuantity: workOrder.ProducedQuantity,
		CompletionRate:   workOrder.CompletionRate(),
		Status:           workOrder.Status,
		Priority:         workOrder.Priority,
		ActualStart:      workOrder.ActualStart,
		ActualEnd:        workOrder.ActualEnd,
		UpdatedAt:        workOrder.UpdatedAt,
	}
}

// NewProductionLogResponse maps an audit entry.
func NewProductionLogResponse(entry domain.ProductionLog) ProductionLogResponse {
	return ProductionLogResponse{
		ID:         entry.ID,
		OperatorID: entry.OperatorID,
		Action:     entry.Action,
		FromStatus: entry.FromStatus,
		ToStatus:   entry.ToStatus,
		BadgeUID:   entry.BadgeUID,
		Timestamp:  entry.Timestamp,
	}
}
