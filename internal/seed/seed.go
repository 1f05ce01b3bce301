package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/mes-service/internal/auth"
	"github.com/spec-kit/mes-service/internal/domain"
	"github.com/spec-kit/mes-service/internal/repository"
)

// Production line codes used by the sample data.
const (
	LineA = "LINE-A"
	LineB = "LINE-B"
	LineC = "LINE-C"
)

// Dataset is a set of employees and work orders to provision.
type Dataset struct {
	Employees  []domain.Employee
	WorkOrders []domain.WorkOrder
}

// Result counts what Apply wrote.
type Result struct {
	Employees  int
	WorkOrders int
}

// Sample returns the demo floor: one administrator, two managers, two line
// operators and work orders in every scan-relevant status.
func Sample(now time.Time) Dataset {
	started := now.Add(-2 * time.Hour)
	finished := now.Add(-30 * time.Minute)

	return Dataset{
		Employees: []domain.Employee{
			employee("ADMIN", "Factory", "Admin", "admin@factory.com", domain.EmployeeRoleAdmin, "", ""),
			employee("EMP001", "John", "Tanaka", "john.tanaka@factory.com", domain.EmployeeRoleManager, "04001A2B3C4D", ""),
			employee("EMP002", "Sarah", "Yamamoto", "sarah.yamamoto@factory.com", domain.EmployeeRoleOperator, "04005E6F7G8H", LineA),
			employee("EMP003", "Mike", "Suzuki", "mike.suzuki@factory.com", domain.EmployeeRoleOperator, "0400123456AB", LineB),
			employee("EMP004", "Emily", "Nakamura", "emily.nakamura@factory.com", domain.EmployeeRoleManager, "", ""),
		},
		WorkOrders: []domain.WorkOrder{
			workOrder("WO-2024-0001", "Gear Assembly GA-100", LineA, 120, 118, domain.WorkOrderStatusCompleted, 5, &started, &finished),
			workOrder("WO-2024-0002", "Shaft Housing SH-20", LineB, 80, 80, domain.WorkOrderStatusCompleted, 4, &started, &finished),
			workOrder("WO-2024-0003", "Gear Assembly GA-100", LineA, 200, 0, domain.WorkOrderStatusReady, 10, nil, nil),
			workOrder("WO-2024-0004", "Bearing Cap BC-7", LineB, 150, 0, domain.WorkOrderStatusReady, 9, nil, nil),
			workOrder("WO-2024-0005", "Drive Plate DP-3", LineC, 300, 50, domain.WorkOrderStatusInProgress, 8, &started, nil),
			workOrder("WO-2024-0006", "Shaft Housing SH-20", LineA, 100, 40, domain.WorkOrderStatusPaused, 7, &started, nil),
			workOrder("WO-2024-0007", "Bearing Cap BC-7", LineC, 250, 0, domain.WorkOrderStatusPending, 6, nil, nil),
		},
	}
}

// Apply upserts the dataset. Employees are keyed by code and work orders by
// number, so running it twice leaves a single copy. Every employee gets
// password hashed with bcryptCost.
func Apply(ctx context.Context, data Dataset, employees repository.EmployeeRepository, workOrders repository.WorkOrderRepository, password string, bcryptCost int, logger *zap.Logger) (Result, error) {
	var result Result

	hash := ""
	if password != "" {
		var err error
		hash, err = auth.HashPassword(password, bcryptCost)
		if err != nil {
			return result, fmt.Errorf("hash seed password: %w", err)
		}
	}

	for i := range data.Employees {
		employee := data.Employees[i]
		employee.PasswordHash = hash
		if err := employees.Create(ctx, &employee); err != nil {
			return result, fmt.Errorf("seed employee %s: %w", employee.EmployeeCode, err)
		}
		result.Employees++
	}
	for i := range data.WorkOrders {
		workOrder := data.WorkOrders[i]
		if err := workOrders.Create(ctx, &workOrder); err != nil {
			return result, fmt.Errorf("seed work order %s: %w", workOrder.Number, err)
		}
		result.WorkOrders++
	}

	if logger != nil {
		logger.Info("seed data applied", zap.Int("employees", result.Employees), zap.Int("work_orders", result.WorkOrders))
	}
	return result, nil
}

func employee(code, first, last, email string, role domain.EmployeeRole, badge, line string) domain.Employee {
	return domain.Employee{
		EmployeeCode:     code,
		FirstName:        first,
		LastName:         last,
		Email:            email,
		Role:             role,
		BadgeUID:         optional(badge),
		ProductionLineID: optional(line),
		Active:           true,
	}
}

func workOrder(number, product, line string, planned, produced float64, status domain.WorkOrderStatus, priority int, start, end *time.Time) domain.WorkOrder {
	return domain.WorkOrder{
		Number:           number,
		ProductLabel:     product,
		ProductionLineID: optional(line),
		PlannedQuantity:  planned,
		ProducedQuantity: produced,
		Status:           status,
		Priority:         priority,
		ActualStart:      start,
		ActualEnd:        end,
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
