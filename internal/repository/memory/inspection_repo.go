// internal/repository/memory/inspection_repo.go
package memory

import (
	"context"
	"sort"
	"sync"

	"ptieasy-service/internal/domain/inspection"
	xerrors "ptieasy-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
)

type InspectionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*inspection.Session
	seq      map[string]int
	next     int
}

func NewInspectionRepository() *InspectionRepository {
	return &InspectionRepository{
		sessions: make(map[string]*inspection.Session),
		seq:      make(map[string]int),
	}
}

// Create stores a new session, assigning an ID when none is set
func (r *InspectionRepository) Create(ctx context.Context, s *inspection.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		s.ID = ulid.Make().String()
	}
	if _, exists := r.sessions[s.ID]; exists {
		return xerrors.ErrDuplicateEntry
	}

	r.sessions[s.ID] = s.Clone()
	r.seq[s.ID] = r.next
	r.next++
	return nil
}

// FindByID retrieves a session by ID
func (r *InspectionRepository) FindByID(ctx context.Context, id string) (*inspection.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return s.Clone(), nil
}

// Update replaces a stored session
func (r *InspectionRepository) Update(ctx context.Context, s *inspection.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.ID]; !ok {
		return xerrors.ErrNotFound
	}
	r.sessions[s.ID] = s.Clone()
	return nil
}

// Delete removes a session
func (r *InspectionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.sessions, id)
	delete(r.seq, id)
	return nil
}

// List returns every session, newest first. Sessions created at the same
// instant keep reverse insertion order.
func (r *InspectionRepository) List(ctx context.Context) ([]inspection.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]inspection.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	return out, nil
}
