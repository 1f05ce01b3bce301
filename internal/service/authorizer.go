package service

import "github.com/spec-kit/mes-service/internal/domain"

// Authorizer decides whether an employee may operate a work order.
type Authorizer interface {
	CanOperate(employee *domain.Employee, workOrder *domain.WorkOrder) bool
}

// RolePolicy is the default Authorizer. Admins and managers operate any
// order; operators are limited to their assigned line when both sides carry
// one; viewers operate nothing.
type RolePolicy struct{}

// CanOperate implements Authorizer.
func (RolePolicy) CanOperate(employee *domain.Employee, workOrder *domain.WorkOrder) bool {
	if employee == nil || workOrder == nil || !employee.Active {
		return false
	}
	switch employee.Role {
	case domain.EmployeeRoleAdmin, domain.EmployeeRoleManager:
		return true
	case domain.EmployeeRoleOperator:
		if employee.ProductionLineID == nil || workOrder.ProductionLineID == nil {
			return true
		}
		return *employee.ProductionLineID == *workOrder.ProductionLineID
	default:
		return false
	}
}
