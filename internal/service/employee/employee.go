// internal/service/employee/employee.go
package employee

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ptieasy-service/internal/domain/employee"
	xerrors "ptieasy-service/internal/pkg/errors"
	"ptieasy-service/internal/pkg/format"
	"ptieasy-service/internal/pkg/paging"

	"go.uber.org/zap"
)

type EmployeeService struct {
	repo   employee.Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewEmployeeService(repo employee.Repository, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for timestamps and list displays.
func (s *EmployeeService) WithClock(now func() time.Time) *EmployeeService {
	s.now = now
	return s
}

// CreateEmployee adds an employee to the directory
func (s *EmployeeService) CreateEmployee(ctx context.Context, req *employee.EmployeeRequest) (*employee.Employee, error) {
	if err := normalizeRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	e := &employee.Employee{
		Name:               req.Name,
		Email:              req.Email,
		Role:               req.Role,
		Phone:              req.Phone,
		AssignedVehicleRef: req.AssignedVehicleRef,
		Status:             req.Status,
		LastActiveAt:       now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("failed to create employee", zap.Error(err))
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.logger.Info("employee created",
		zap.String("employee_id", e.ID),
		zap.String("role", string(e.Role)),
	)

	return e, nil
}

// GetEmployee retrieves an employee by ID
func (s *EmployeeService) GetEmployee(ctx context.Context, id string) (*employee.Employee, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// UpdateEmployee replaces the editable fields of an employee
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id string, req *employee.EmployeeRequest) (*employee.Employee, error) {
	if err := normalizeRequest(req); err != nil {
		return nil, err
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	e.Name = req.Name
	e.Email = req.Email
	e.Role = req.Role
	e.Phone = req.Phone
	e.AssignedVehicleRef = req.AssignedVehicleRef
	e.Status = req.Status
	e.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	s.logger.Info("employee updated", zap.String("employee_id", id))
	return e, nil
}

// DeleteEmployee removes an employee. References held by vehicles and
// sessions are left as they are.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.logger.Info("employee deleted", zap.String("employee_id", id))
	return nil
}

// ListEmployees returns a filtered page of employees with display fields
func (s *EmployeeService) ListEmployees(ctx context.Context, filters *employee.EmployeeListFilters) (*employee.EmployeeListResponse, error) {
	filters.Page, filters.PageSize = paging.Normalize(filters.Page, filters.PageSize)

	employees, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	now := s.now()
	page := paging.Slice(employees, filters.Page, filters.PageSize)
	views := make([]employee.EmployeeView, 0, len(page))
	for _, e := range page {
		views = append(views, newView(e, now))
	}

	total := int64(len(employees))
	return &employee.EmployeeListResponse{
		Employees:  views,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: paging.TotalPages(total, filters.PageSize),
		AsOf:       now,
	}, nil
}

// CountDrivers returns the number of employees with the driver role
func (s *EmployeeService) CountDrivers(ctx context.Context) (int, error) {
	n, err := s.repo.CountByRole(ctx, employee.RoleDriver)
	if err != nil {
		return 0, fmt.Errorf("failed to count drivers: %w", err)
	}
	return n, nil
}

func newView(e employee.Employee, now time.Time) employee.EmployeeView {
	display := e.AssignedVehicleRef
	if display == "" {
		display = employee.NotAssigned
	}
	return employee.EmployeeView{
		Employee:               e,
		AssignedVehicleDisplay: display,
		LastActiveDisplay:      format.LastActive(e.LastActiveAt, now),
	}
}

// normalizeRequest trims the form, applies defaults and rejects blank
// required fields.
func normalizeRequest(req *employee.EmployeeRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.AssignedVehicleRef = strings.TrimSpace(req.AssignedVehicleRef)

	if req.Name == "" {
		return xerrors.Invalid("name is required")
	}
	if req.Email == "" {
		return xerrors.Invalid("email is required")
	}

	if req.Role == "" {
		req.Role = employee.RoleDriver
	}
	if req.Role != employee.RoleDriver && req.Role != employee.RoleDispatcher {
		return xerrors.Invalid("unknown role %q", req.Role)
	}
	if req.Status == "" {
		req.Status = employee.StatusActive
	}
	if req.Status != employee.StatusActive && req.Status != employee.StatusInactive {
		return xerrors.Invalid("unknown status %q", req.Status)
	}

	// Only drivers carry a vehicle.
	if req.Role != employee.RoleDriver {
		req.AssignedVehicleRef = ""
	}
	return nil
}
