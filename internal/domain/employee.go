package domain

import (
	"strings"
	"time"
)

// EmployeeRole enumerates shop-floor roles.
type EmployeeRole string

const (
	EmployeeRoleAdmin    EmployeeRole = "admin"
	EmployeeRoleManager  EmployeeRole = "manager"
	EmployeeRoleOperator EmployeeRole = "operator"
	EmployeeRoleViewer   EmployeeRole = "viewer"
)

// Valid reports whether the role is one of the known roles.
func (r EmployeeRole) Valid() bool {
	switch r {
	case EmployeeRoleAdmin, EmployeeRoleManager, EmployeeRoleOperator, EmployeeRoleViewer:
		return true
	}
	return false
}

// Employee is the principal resolved from a badge scan or password login.
type Employee struct {
	ID               string
	EmployeeCode     string
	FirstName        string
	LastName         string
	Email            string
	Role             EmployeeRole
	BadgeUID         *string
	ProductionLineID *string
	PasswordHash     string
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DisplayName is the name shown on scan notifications.
func (e *Employee) DisplayName() string {
	name := strings.TrimSpace(e.FirstName + " " + e.LastName)
	if name == "" {
		return e.EmployeeCode
	}
	return name
}
