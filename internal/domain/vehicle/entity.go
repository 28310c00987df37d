// internal/domain/vehicle/entity.go
package vehicle

import (
	"time"

	"ptieasy-service/internal/pkg/search"
)

type Type string
type Status string

const (
	TypeTruck   Type = "truck"
	TypeVan     Type = "van"
	TypeTrailer Type = "trailer"

	StatusActive      Status = "active"
	StatusMaintenance Status = "maintenance"
	StatusInactive    Status = "inactive"
)

// Unassigned is shown for vehicles without a driver.
const Unassigned = "Unassigned"

// PTIInterval is the gap scheduled between inspections of a vehicle.
const PTIInterval = 24 * time.Hour

// Vehicle represents a fleet vehicle
type Vehicle struct {
	ID                string    `json:"id"`
	VehicleID         string    `json:"vehicle_id"` // human-facing code, unique
	Type              Type      `json:"type"`
	Make              string    `json:"make"`
	Model             string    `json:"model"`
	Year              int       `json:"year"`
	LicensePlate      string    `json:"license_plate"`
	AssignedDriverRef string    `json:"assigned_driver_ref,omitempty"`
	Status            Status    `json:"status"`
	Mileage           int64     `json:"mileage"`
	LastPTIAt         time.Time `json:"last_pti_at"`
	NextPTIAt         time.Time `json:"next_pti_at"`
	Location          string    `json:"location"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Matches reports whether the vehicle satisfies the list filters.
func (v *Vehicle) Matches(f *VehicleListFilters) bool {
	if f == nil {
		return true
	}
	if f.Type != "" && v.Type != f.Type {
		return false
	}
	if f.Status != "" && v.Status != f.Status {
		return false
	}
	return search.Matches(f.Search, v.VehicleID, v.Make, v.Model, v.LicensePlate, v.AssignedDriverRef)
}

// RecordInspection moves the PTI schedule forward from a completed inspection.
func (v *Vehicle) RecordInspection(completedAt time.Time) {
	v.LastPTIAt = completedAt
	v.NextPTIAt = completedAt.Add(PTIInterval)
}
