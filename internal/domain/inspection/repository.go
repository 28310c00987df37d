// internal/domain/inspection/repository.go
package inspection

import "context"

type Repository interface {
	Create(ctx context.Context, s *Session) error
	FindByID(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	// List returns every session, newest first. Filtering on derived status
	// needs a clock, so it happens in the service.
	List(ctx context.Context) ([]Session, error)
}
