// internal/repository/memory/employee_repo.go
package memory

import (
	"context"
	"sync"

	"ptieasy-service/internal/domain/employee"
	xerrors "ptieasy-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
)

type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
	order     []string
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{employees: make(map[string]employee.Employee)}
}

// Create stores a new employee, assigning an ID when none is set
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		e.ID = ulid.Make().String()
	}
	if _, exists := r.employees[e.ID]; exists {
		return xerrors.ErrDuplicateEntry
	}

	r.employees[e.ID] = *e
	r.order = append(r.order, e.ID)
	return nil
}

// FindByID retrieves an employee by ID
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.employees[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &e, nil
}

// Update replaces a stored employee
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[e.ID]; !ok {
		return xerrors.ErrNotFound
	}
	r.employees[e.ID] = *e
	return nil
}

// Delete removes an employee
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.employees, id)
	r.order = removeID(r.order, id)
	return nil
}

// List returns matching employees in insertion order
func (r *EmployeeRepository) List(ctx context.Context, filters *employee.EmployeeListFilters) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]employee.Employee, 0, len(r.order))
	for _, id := range r.order {
		e := r.employees[id]
		if e.Matches(filters) {
			out = append(out, e)
		}
	}
	return out, nil
}

// CountByRole counts employees with the given role
func (r *EmployeeRepository) CountByRole(ctx context.Context, role employee.Role) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, e := range r.employees {
		if e.Role == role {
			n++
		}
	}
	return n, nil
}

func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i:i], order[i+1:]...)
		}
	}
	return order
}
