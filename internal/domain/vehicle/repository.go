// internal/domain/vehicle/repository.go
package vehicle

import "context"

type Repository interface {
	// Create fails with a duplicate error when VehicleID is taken.
	Create(ctx context.Context, v *Vehicle) error
	FindByID(ctx context.Context, id string) (*Vehicle, error)
	FindByVehicleID(ctx context.Context, vehicleID string) (*Vehicle, error)
	// Update fails with a duplicate error when VehicleID collides with
	// another vehicle.
	Update(ctx context.Context, v *Vehicle) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters *VehicleListFilters) ([]Vehicle, error)

	// ExistsByVehicleID ignores the vehicle with excludeID.
	ExistsByVehicleID(ctx context.Context, vehicleID, excludeID string) (bool, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
}
