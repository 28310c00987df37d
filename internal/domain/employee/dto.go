// internal/domain/employee/dto.go
package employee

import "time"

// EmployeeRequest is the full employee form, used for create and update
type EmployeeRequest struct {
	Name               string `json:"name" binding:"required"`
	Email              string `json:"email" binding:"required"`
	Role               Role   `json:"role" binding:"omitempty,oneof=driver dispatcher"`
	Phone              string `json:"phone"`
	AssignedVehicleRef string `json:"assigned_vehicle_ref"`
	Status             Status `json:"status" binding:"omitempty,oneof=active inactive"`
}

// EmployeeListFilters for listing/searching employees
type EmployeeListFilters struct {
	Search   string `form:"search"` // name, email, role
	Role     Role   `form:"role" binding:"omitempty,oneof=driver dispatcher"`
	Status   Status `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// EmployeeView is a list row with display fields resolved
type EmployeeView struct {
	Employee
	AssignedVehicleDisplay string `json:"assigned_vehicle_display"`
	LastActiveDisplay      string `json:"last_active_display"`
}

// EmployeeListResponse paginated list response
type EmployeeListResponse struct {
	Employees  []EmployeeView `json:"employees"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
	AsOf       time.Time      `json:"as_of"`
}
