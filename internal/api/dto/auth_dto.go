package dto

import (
	"time"

	"github.com/spec-kit/mes-service/internal/domain"
)

// LoginRequest payload for password login.
type LoginRequest struct {
	EmployeeCode string `json:"employee_code"`
	Password     string `json:"password"`
}

// EmployeeResponse describes the logged in employee.
type EmployeeResponse struct {
	ID               string              `json:"id"`
	EmployeeCode     string              `json:"employee_code"`
	Name             string              `json:"name"`
	Email            string              `json:"email"`
	Role             domain.EmployeeRole `json:"role"`
	ProductionLineID *string             `json:"production_line_id"`
}

// LoginResponse returns the session token.
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Employee    EmployeeResponse `json:"employee"`
}

// NewEmployeeResponse maps an employee.
func NewEmployeeResponse(employee *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:               employee.ID,
		EmployeeCode:     employee.EmployeeCode,
		Name:             employee.DisplayName(),
		Email:            employee.Email,
		Role:             employee.Role,
		ProductionLineID: employee.ProductionLineID,
	}
}
