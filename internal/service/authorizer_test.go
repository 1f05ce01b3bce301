package service

import (
	"testing"

	"github.com/spec-kit/mes-service/internal/domain"
)

func TestRolePolicy(t *testing.T) {
	lineA, lineB := "LINE-A", "LINE-B"
	tests := []struct {
		name     string
		role     domain.EmployeeRole
		empLine  *string
		woLine   *string
		inactive bool
		want     bool
	}{
		{name: "admin any line", role: domain.EmployeeRoleAdmin, woLine: &lineB, want: true},
		{name: "manager any line", role: domain.EmployeeRoleManager, empLine: &lineA, woLine: &lineB, want: true},
		{name: "operator own line", role: domain.EmployeeRoleOperator, empLine: &lineA, woLine: &lineA, want: true},
		{name: "operator other line", role: domain.EmployeeRoleOperator, empLine: &lineA, woLine: &lineB, want: false},
		{name: "operator unassigned", role: domain.EmployeeRoleOperator, woLine: &lineB, want: true},
		{name: "operator order without line", role: domain.EmployeeRoleOperator, empLine: &lineA, want: true},
		{name: "viewer", role: domain.EmployeeRoleViewer, want: false},
		{name: "inactive admin", role: domain.EmployeeRoleAdmin, inactive: true, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			employee := &domain.Employee{Role: tc.role, ProductionLineID: tc.empLine, Active: !tc.inactive}
			workOrder := &domain.WorkOrder{ProductionLineID: tc.woLine}
			if got := (RolePolicy{}).CanOperate(employee, workOrder); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
