// internal/domain/employee/repository.go
package employee

import "context"

type Repository interface {
	Create(ctx context.Context, e *Employee) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id string) error
	// List returns matching employees in insertion order.
	List(ctx context.Context, filters *EmployeeListFilters) ([]Employee, error)
	CountByRole(ctx context.Context, role Role) (int, error)
}
