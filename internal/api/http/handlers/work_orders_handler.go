package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/mes-service/internal/api/dto"
	"github.com/spec-kit/mes-service/internal/domain"
	"github.com/spec-kit/mes-service/internal/service"
)

// WorkOrdersHandler exposes read endpoints for work orders.
type WorkOrdersHandler struct {
	service *service.WorkOrderService
}

// NewWorkOrdersHandler constructs handler.
func NewWorkOrdersHandler(workOrderService *service.WorkOrderService) *WorkOrdersHandler {
	return &WorkOrdersHandler{service: workOrderService}
}

// List GET /api/work-orders.
func (h *WorkOrdersHandler) List(c *fiber.Ctx) error {
	workOrders, err := h.service.List(c.UserContext(), parseWorkOrderQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.WorkOrderSummary, 0, len(workOrders))
	for i := range workOrders {
		items = append(items, dto.NewWorkOrderSummary(&workOrders[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/work-orders/:number.
func (h *WorkOrdersHandler) Get(c *fiber.Ctx) error {
	workOrder, err := h.service.Get(c.UserContext(), c.Params("number"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWorkOrderSummary(workOrder)})
}

// Logs GET /api/work-orders/:number/logs.
func (h *WorkOrdersHandler) Logs(c *fiber.Ctx) error {
	workOrder, logs, err := h.service.History(c.UserContext(), c.Params("number"), c.QueryInt("limit", 50))
	if err != nil {
		return err
	}
	items := make([]dto.ProductionLogResponse, 0, len(logs))
	for _, entry := range logs {
		items = append(items, dto.NewProductionLogResponse(entry))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"work_order": dto.NewWorkOrderSummary(workOrder),
		"logs":       items,
	}})
}

func parseWorkOrderQuery(c *fiber.Ctx) service.WorkOrderListFilter {
	filter := service.WorkOrderListFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.WorkOrderStatus(strings.TrimSpace(part)))
		}
	}
	if line := strings.TrimSpace(c.Query("line")); line != "" {
		filter.ProductionLineID = &line
	}
	return filter
}
