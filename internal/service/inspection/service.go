// internal/service/inspection/service.go
package inspection

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"ptieasy-service/internal/domain/inspection"
	"ptieasy-service/internal/domain/notification"
	xerrors "ptieasy-service/internal/pkg/errors"
	"ptieasy-service/internal/pkg/paging"
	"ptieasy-service/internal/pkg/search"

	"go.uber.org/zap"
)

// Notifier receives feed entries raised by completed inspections.
type Notifier interface {
	Push(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error)
}

// VehicleRecorder moves a vehicle's PTI schedule after an inspection.
type VehicleRecorder interface {
	RecordInspection(ctx context.Context, vehicleID string, completedAt time.Time) error
}

type Options struct {
	Checklist           []string
	RequireIssueComment bool
	AbandonPolicy       inspection.AbandonPolicy
}

type InspectionService struct {
	repo     inspection.Repository
	vehicles VehicleRecorder
	notifier Notifier
	opts     Options
	logger   *zap.Logger
	now      func() time.Time

	// mu guards walkthroughs and every read-modify-write of a stored session
	mu           sync.Mutex
	walkthroughs map[string]*inspection.Walkthrough
}

func NewInspectionService(
	repo inspection.Repository,
	vehicles VehicleRecorder,
	notifier Notifier,
	opts Options,
	logger *zap.Logger,
) *InspectionService {
	if len(opts.Checklist) == 0 {
		opts.Checklist = inspection.DefaultChecklist
	}
	if opts.AbandonPolicy == "" {
		opts.AbandonPolicy = inspection.AbandonDiscard
	}
	return &InspectionService{
		repo:         repo,
		vehicles:     vehicles,
		notifier:     notifier,
		opts:         opts,
		logger:       logger,
		now:          time.Now,
		walkthroughs: make(map[string]*inspection.Walkthrough),
	}
}

func (s *InspectionService) WithClock(now func() time.Time) *InspectionService {
	s.now = now
	return s
}

// ========== Sessions ==========

// CreateSession assigns a new inspection with a fresh checklist
func (s *InspectionService) CreateSession(ctx context.Context, req *inspection.CreateSessionRequest) (*inspection.SessionView, error) {
	if err := normalizeCreate(req); err != nil {
		return nil, err
	}

	sess := s.newSession(req, s.now())
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("pti session created",
		zap.String("session_id", sess.ID),
		zap.String("vehicle_ref", sess.VehicleRef),
		zap.String("driver_ref", sess.DriverRef),
	)

	view := inspection.NewView(sess, s.now())
	return &view, nil
}

// BulkCreateSessions assigns several inspections. Every request is validated
// before anything is stored.
func (s *InspectionService) BulkCreateSessions(ctx context.Context, req *inspection.BulkCreateRequest) ([]inspection.SessionView, error) {
	if len(req.Sessions) == 0 {
		return nil, xerrors.Invalid("at least one session is required")
	}
	for i := range req.Sessions {
		if err := normalizeCreate(&req.Sessions[i]); err != nil {
			return nil, fmt.Errorf("sessions[%d]: %w", i, err)
		}
	}

	now := s.now()
	views := make([]inspection.SessionView, 0, len(req.Sessions))
	for i := range req.Sessions {
		sess := s.newSession(&req.Sessions[i], now)
		if err := s.repo.Create(ctx, sess); err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
		views = append(views, inspection.NewView(sess, now))
	}

	s.logger.Info("pti sessions bulk created", zap.Int("count", len(views)))
	return views, nil
}

// GetSession retrieves a session with its derived status
func (s *InspectionService) GetSession(ctx context.Context, id string) (*inspection.SessionView, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	view := inspection.NewView(sess, s.now())
	return &view, nil
}

// UpdateSession reassigns a session. Completed sessions are final.
func (s *InspectionService) UpdateSession(ctx context.Context, id string, req *inspection.UpdateSessionRequest) (*inspection.SessionView, error) {
	create := inspection.CreateSessionRequest(*req)
	if err := normalizeCreate(&create); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if sess.Status == inspection.StatusCompleted {
		return nil, fmt.Errorf("%w: completed sessions cannot be reassigned", xerrors.ErrConflict)
	}

	sess.VehicleRef = create.VehicleRef
	sess.DriverRef = create.DriverRef
	sess.DueAt = create.DueAt
	sess.Priority = create.Priority
	sess.Notes = create.Notes

	if err := s.repo.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.logger.Info("pti session updated", zap.String("session_id", id))
	view := inspection.NewView(sess, s.now())
	return &view, nil
}

// DeleteSession removes a session and closes any walkthrough on it
func (s *InspectionService) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	delete(s.walkthroughs, id)

	s.logger.Info("pti session deleted", zap.String("session_id", id))
	return nil
}

// ListSessions returns a filtered page of sessions, newest first
func (s *InspectionService) ListSessions(ctx context.Context, filters *inspection.SessionListFilters) (*inspection.SessionListResponse, error) {
	filters.Page, filters.PageSize = paging.Normalize(filters.Page, filters.PageSize)

	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	now := s.now()
	matched := make([]inspection.SessionView, 0, len(sessions))
	for i := range sessions {
		if v, ok := matchSession(&sessions[i], filters, now); ok {
			matched = append(matched, v)
		}
	}

	total := int64(len(matched))
	return &inspection.SessionListResponse{
		Sessions:   paging.Slice(matched, filters.Page, filters.PageSize),
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: paging.TotalPages(total, filters.PageSize),
	}, nil
}

// Stats counts sessions by derived status
func (s *InspectionService) Stats(ctx context.Context) (*inspection.SessionStats, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	now := s.now()
	stats := &inspection.SessionStats{Total: len(sessions)}
	for i := range sessions {
		switch inspection.DeriveStatus(&sessions[i], now) {
		case inspection.StatusPending:
			stats.Pending++
		case inspection.StatusInProgress:
			stats.InProgress++
		case inspection.StatusCompleted:
			stats.Completed++
		case inspection.StatusOverdue:
			stats.Overdue++
		}
		if sessions[i].IssueCount > 0 {
			stats.WithIssues++
		}
	}
	return stats, nil
}

func (s *InspectionService) newSession(req *inspection.CreateSessionRequest, now time.Time) *inspection.Session {
	return &inspection.Session{
		VehicleRef: req.VehicleRef,
		DriverRef:  req.DriverRef,
		Status:     inspection.StatusPending,
		DueAt:      req.DueAt,
		CreatedAt:  now,
		Checklist:  inspection.NewChecklist(s.opts.Checklist),
		Priority:   req.Priority,
		Notes:      req.Notes,
	}
}

func matchSession(sess *inspection.Session, f *inspection.SessionListFilters, now time.Time) (inspection.SessionView, bool) {
	if f.DriverRef != "" && !search.Equal(sess.DriverRef, f.DriverRef) {
		return inspection.SessionView{}, false
	}
	if !search.Matches(f.Search, sess.VehicleRef, sess.DriverRef) {
		return inspection.SessionView{}, false
	}

	view := inspection.NewView(sess, now)
	if f.Status != "" && f.Status != "all" && string(view.DisplayStatus) != f.Status {
		return inspection.SessionView{}, false
	}
	return view, true
}

func normalizeCreate(req *inspection.CreateSessionRequest) error {
	req.VehicleRef = strings.TrimSpace(req.VehicleRef)
	req.DriverRef = strings.TrimSpace(req.DriverRef)
	req.Notes = strings.TrimSpace(req.Notes)

	switch {
	case req.VehicleRef == "":
		return xerrors.Invalid("vehicle_ref is required")
	case req.DriverRef == "":
		return xerrors.Invalid("driver_ref is required")
	case req.DueAt.IsZero():
		return xerrors.Invalid("due_at is required")
	}

	if req.Priority == "" {
		req.Priority = inspection.PriorityMedium
	}
	switch req.Priority {
	case inspection.PriorityLow, inspection.PriorityMedium, inspection.PriorityHigh:
	default:
		return xerrors.Invalid("unknown priority %q", req.Priority)
	}
	return nil
}
