// internal/service/vehicle/vehicle.go
package vehicle

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"ptieasy-service/internal/domain/notification"
	"ptieasy-service/internal/domain/vehicle"
	xerrors "ptieasy-service/internal/pkg/errors"
	"ptieasy-service/internal/pkg/format"
	"ptieasy-service/internal/pkg/paging"

	"go.uber.org/zap"
)

// Notifier receives feed entries raised by vehicle changes.
type Notifier interface {
	Push(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error)
}

type VehicleService struct {
	repo     vehicle.Repository
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time

	// serializes read-modify-write of stored vehicles
	mu sync.Mutex
}

func NewVehicleService(repo vehicle.Repository, notifier Notifier, logger *zap.Logger) *VehicleService {
	return &VehicleService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *VehicleService) WithClock(now func() time.Time) *VehicleService {
	s.now = now
	return s
}

// CreateVehicle registers a vehicle and schedules its first PTI
func (s *VehicleService) CreateVehicle(ctx context.Context, req *vehicle.VehicleRequest) (*vehicle.Vehicle, error) {
	if err := normalizeRequest(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByVehicleID(ctx, req.VehicleID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check vehicle id: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: vehicle id %s already exists", xerrors.ErrDuplicateEntry, req.VehicleID)
	}

	now := s.now()
	v := &vehicle.Vehicle{
		VehicleID:         req.VehicleID,
		Type:              req.Type,
		Make:              req.Make,
		Model:             req.Model,
		Year:              req.Year,
		LicensePlate:      req.LicensePlate,
		AssignedDriverRef: req.AssignedDriverRef,
		Status:            req.Status,
		Mileage:           req.Mileage,
		LastPTIAt:         now.Add(-vehicle.PTIInterval),
		NextPTIAt:         now.Add(vehicle.PTIInterval),
		Location:          req.Location,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	// The repository re-checks the code under its own lock.
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.logger.Info("vehicle created",
		zap.String("id", v.ID),
		zap.String("vehicle_id", v.VehicleID),
	)

	if v.AssignedDriverRef != "" {
		s.announceAssignment(ctx, v)
	}
	return v, nil
}

// GetVehicle retrieves a vehicle by ID
func (s *VehicleService) GetVehicle(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return v, nil
}

// UpdateVehicle replaces the editable fields of a vehicle
func (s *VehicleService) UpdateVehicle(ctx context.Context, id string, req *vehicle.VehicleRequest) (*vehicle.Vehicle, error) {
	if err := normalizeRequest(req); err != nil {
		return nil, err
	}

	v, previousDriver, err := s.applyUpdate(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("vehicle updated", zap.String("id", id), zap.String("vehicle_id", v.VehicleID))

	if v.AssignedDriverRef != "" && v.AssignedDriverRef != previousDriver {
		s.announceAssignment(ctx, v)
	}
	return v, nil
}

// applyUpdate writes req onto the stored vehicle and returns it with the
// driver it had before
func (s *VehicleService) applyUpdate(ctx context.Context, id string, req *vehicle.VehicleRequest) (*vehicle.Vehicle, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get vehicle: %w", err)
	}

	exists, err := s.repo.ExistsByVehicleID(ctx, req.VehicleID, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check vehicle id: %w", err)
	}
	if exists {
		return nil, "", fmt.Errorf("%w: vehicle id %s already exists", xerrors.ErrDuplicateEntry, req.VehicleID)
	}

	previousDriver := v.AssignedDriverRef

	v.VehicleID = req.VehicleID
	v.Type = req.Type
	v.Make = req.Make
	v.Model = req.Model
	v.Year = req.Year
	v.LicensePlate = req.LicensePlate
	v.AssignedDriverRef = req.AssignedDriverRef
	v.Status = req.Status
	v.Mileage = req.Mileage
	v.Location = req.Location
	v.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, "", fmt.Errorf("failed to update vehicle: %w", err)
	}
	return v, previousDriver, nil
}

// DeleteVehicle removes a vehicle
func (s *VehicleService) DeleteVehicle(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	s.logger.Info("vehicle deleted", zap.String("id", id))
	return nil
}

// ListVehicles returns a filtered page of vehicles with display fields
func (s *VehicleService) ListVehicles(ctx context.Context, filters *vehicle.VehicleListFilters) (*vehicle.VehicleListResponse, error) {
	filters.Page, filters.PageSize = paging.Normalize(filters.Page, filters.PageSize)

	vehicles, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	page := paging.Slice(vehicles, filters.Page, filters.PageSize)
	views := make([]vehicle.VehicleView, 0, len(page))
	for _, v := range page {
		views = append(views, newView(v))
	}

	total := int64(len(vehicles))
	return &vehicle.VehicleListResponse{
		Vehicles:   views,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: paging.TotalPages(total, filters.PageSize),
	}, nil
}

// RecordInspection moves the PTI schedule of the vehicle with the given
// code. A missing vehicle is not an error.
func (s *VehicleService) RecordInspection(ctx context.Context, vehicleID string, completedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.repo.FindByVehicleID(ctx, vehicleID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get vehicle: %w", err)
	}

	v.RecordInspection(completedAt)
	v.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, v); err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	return nil
}

// CountActive returns the number of vehicles in service
func (s *VehicleService) CountActive(ctx context.Context) (int, error) {
	n, err := s.repo.CountByStatus(ctx, vehicle.StatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to count vehicles: %w", err)
	}
	return n, nil
}

func (s *VehicleService) announceAssignment(ctx context.Context, v *vehicle.Vehicle) {
	if s.notifier == nil {
		return
	}
	_, err := s.notifier.Push(ctx, &notification.CreateNotificationRequest{
		Type:     notification.TypeDriverAssigned,
		Title:    "Driver Assigned",
		Message:  fmt.Sprintf("%s assigned to %s", v.AssignedDriverRef, format.VehicleLabel(v.VehicleID)),
		Priority: notification.PriorityLow,
		Data:     &notification.Data{VehicleRef: v.VehicleID, DriverRef: v.AssignedDriverRef},
	})
	if err != nil {
		s.logger.Warn("failed to push assignment notification", zap.Error(err))
	}
}

func newView(v vehicle.Vehicle) vehicle.VehicleView {
	driver := v.AssignedDriverRef
	if driver == "" {
		driver = vehicle.Unassigned
	}
	return vehicle.VehicleView{
		Vehicle:               v,
		MileageDisplay:        format.Mileage(v.Mileage),
		AssignedDriverDisplay: driver,
	}
}

func normalizeRequest(req *vehicle.VehicleRequest) error {
	req.VehicleID = strings.TrimSpace(req.VehicleID)
	req.Make = strings.TrimSpace(req.Make)
	req.Model = strings.TrimSpace(req.Model)
	req.LicensePlate = strings.TrimSpace(req.LicensePlate)
	req.AssignedDriverRef = strings.TrimSpace(req.AssignedDriverRef)
	req.Location = strings.TrimSpace(req.Location)

	switch {
	case req.VehicleID == "":
		return xerrors.Invalid("vehicle_id is required")
	case req.Make == "":
		return xerrors.Invalid("make is required")
	case req.Model == "":
		return xerrors.Invalid("model is required")
	case req.Mileage < 0:
		return xerrors.Invalid("mileage cannot be negative")
	}

	if req.Type == "" {
		req.Type = vehicle.TypeTruck
	}
	switch req.Type {
	case vehicle.TypeTruck, vehicle.TypeVan, vehicle.TypeTrailer:
	default:
		return xerrors.Invalid("unknown vehicle type %q", req.Type)
	}

	if req.Status == "" {
		req.Status = vehicle.StatusActive
	}
	switch req.Status {
	case vehicle.StatusActive, vehicle.StatusMaintenance, vehicle.StatusInactive:
	default:
		return xerrors.Invalid("unknown vehicle status %q", req.Status)
	}
	return nil
}
