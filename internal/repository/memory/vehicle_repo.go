// internal/repository/memory/vehicle_repo.go
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ptieasy-service/internal/domain/vehicle"
	xerrors "ptieasy-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
)

type VehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]vehicle.Vehicle
	order    []string
}

func NewVehicleRepository() *VehicleRepository {
	return &VehicleRepository{vehicles: make(map[string]vehicle.Vehicle)}
}

// Create stores a new vehicle; the vehicle code must be unused
func (r *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.codeTaken(v.VehicleID, "") {
		return fmt.Errorf("%w: vehicle id %s already exists", xerrors.ErrDuplicateEntry, v.VehicleID)
	}
	if v.ID == "" {
		v.ID = ulid.Make().String()
	}

	r.vehicles[v.ID] = *v
	r.order = append(r.order, v.ID)
	return nil
}

// FindByID retrieves a vehicle by ID
func (r *VehicleRepository) FindByID(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vehicles[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &v, nil
}

// FindByVehicleID retrieves a vehicle by its display code
func (r *VehicleRepository) FindByVehicleID(ctx context.Context, vehicleID string) (*vehicle.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	code := strings.TrimSpace(vehicleID)
	for _, id := range r.order {
		if v := r.vehicles[id]; strings.TrimSpace(v.VehicleID) == code {
			return &v, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

// Update replaces a stored vehicle; the code must not collide with another vehicle
func (r *VehicleRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vehicles[v.ID]; !ok {
		return xerrors.ErrNotFound
	}
	if r.codeTaken(v.VehicleID, v.ID) {
		return fmt.Errorf("%w: vehicle id %s already exists", xerrors.ErrDuplicateEntry, v.VehicleID)
	}

	r.vehicles[v.ID] = *v
	return nil
}

// Delete removes a vehicle
func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vehicles[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.vehicles, id)
	r.order = removeID(r.order, id)
	return nil
}

// List returns matching vehicles in insertion order
func (r *VehicleRepository) List(ctx context.Context, filters *vehicle.VehicleListFilters) ([]vehicle.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]vehicle.Vehicle, 0, len(r.order))
	for _, id := range r.order {
		v := r.vehicles[id]
		if v.Matches(filters) {
			out = append(out, v)
		}
	}
	return out, nil
}

// ExistsByVehicleID checks whether another vehicle already uses the code
func (r *VehicleRepository) ExistsByVehicleID(ctx context.Context, vehicleID, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.codeTaken(vehicleID, excludeID), nil
}

// CountByStatus counts vehicles with the given status
func (r *VehicleRepository) CountByStatus(ctx context.Context, status vehicle.Status) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, v := range r.vehicles {
		if v.Status == status {
			n++
		}
	}
	return n, nil
}

// codeTaken must be called with the lock held.
func (r *VehicleRepository) codeTaken(vehicleID, excludeID string) bool {
	code := strings.TrimSpace(vehicleID)
	for id, v := range r.vehicles {
		if id != excludeID && strings.TrimSpace(v.VehicleID) == code {
			return true
		}
	}
	return false
}
