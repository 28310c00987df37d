// internal/domain/employee/entity.go
package employee

import (
	"time"

	"ptieasy-service/internal/pkg/search"
)

type Role string
type Status string

const (
	RoleDriver     Role = "driver"
	RoleDispatcher Role = "dispatcher"

	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// NotAssigned is shown for drivers without a vehicle.
const NotAssigned = "Not assigned"

// Employee represents a driver or dispatcher in the fleet directory
type Employee struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Role               Role      `json:"role"`
	Phone              string    `json:"phone"`
	AssignedVehicleRef string    `json:"assigned_vehicle_ref,omitempty"`
	Status             Status    `json:"status"`
	LastActiveAt       time.Time `json:"last_active_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Matches reports whether the employee satisfies the list filters.
func (e *Employee) Matches(f *EmployeeListFilters) bool {
	if f == nil {
		return true
	}
	if f.Role != "" && e.Role != f.Role {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	return search.Matches(f.Search, e.Name, e.Email, string(e.Role))
}
