// internal/service/inspection/walkthrough.go
package inspection

import (
	"context"
	"fmt"
	"sort"

	"ptieasy-service/internal/domain/inspection"
	"ptieasy-service/internal/domain/notification"
	xerrors "ptieasy-service/internal/pkg/errors"
	"ptieasy-service/internal/pkg/format"
	"ptieasy-service/internal/pkg/search"

	"github.com/dustin/go-humanize/english"
	"go.uber.org/zap"
)

// ========== Driver ==========

// ListDriverSessions returns the sessions assigned to driverRef, soonest due
// first
func (s *InspectionService) ListDriverSessions(ctx context.Context, driverRef string) ([]inspection.SessionView, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	now := s.now()
	views := make([]inspection.SessionView, 0)
	for i := range sessions {
		if search.Equal(sessions[i].DriverRef, driverRef) {
			views = append(views, inspection.NewView(&sessions[i], now))
		}
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].DueAt.Before(views[j].DueAt)
	})
	return views, nil
}

// CurrentStep reports the active walkthrough on a session
func (s *InspectionService) CurrentStep(ctx context.Context, driverRef, id string) (*inspection.Step, error) {
	if _, err := s.ownedSession(ctx, driverRef, id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.walkthroughs[id]
	if !ok {
		return nil, fmt.Errorf("%w: no walkthrough in progress", xerrors.ErrNotFound)
	}
	step := w.Step()
	return &step, nil
}

// StartWalkthrough opens the checklist walkthrough on a session. Starting a
// session that already has an active walkthrough returns it unchanged.
func (s *InspectionService) StartWalkthrough(ctx context.Context, driverRef, id string) (*inspection.Step, error) {
	sess, err := s.ownedSession(ctx, driverRef, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.walkthroughs[id]; ok {
		step := w.Step()
		return &step, nil
	}

	w, err := inspection.StartWalkthrough(sess, s.now(), inspection.WalkthroughOptions{
		RequireIssueComment: s.opts.RequireIssueComment,
	})
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, w.Session()); err != nil {
		return nil, err
	}
	s.walkthroughs[id] = w

	s.logger.Info("walkthrough started",
		zap.String("session_id", id),
		zap.String("driver_ref", sess.DriverRef),
	)

	step := w.Step()
	return &step, nil
}

// Respond answers the current checklist item. The final answer completes the
// session, announces it and moves the vehicle's PTI schedule.
func (s *InspectionService) Respond(ctx context.Context, driverRef, id string, req *inspection.RespondRequest) (*inspection.Step, error) {
	if _, err := s.ownedSession(ctx, driverRef, id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	w, ok := s.walkthroughs[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: walkthrough has not been started", xerrors.ErrConflict)
	}

	step, err := w.Respond(req.Status, req.Comment, req.PhotoRef, s.now())
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	var completed *inspection.Session
	if w.Done() {
		completed = w.Session()
		delete(s.walkthroughs, id)
		if err := s.persist(ctx, completed); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	s.mu.Unlock()

	if completed != nil {
		s.onCompleted(ctx, completed)
	}
	return &step, nil
}

// Abandon closes an unfinished walkthrough under the configured policy
func (s *InspectionService) Abandon(ctx context.Context, driverRef, id string) (*inspection.SessionView, error) {
	if _, err := s.ownedSession(ctx, driverRef, id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.walkthroughs[id]
	if !ok {
		return nil, fmt.Errorf("%w: walkthrough has not been started", xerrors.ErrConflict)
	}

	sess, err := w.Abandon(s.opts.AbandonPolicy)
	if err != nil {
		return nil, err
	}
	delete(s.walkthroughs, id)

	if err := s.persist(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info("walkthrough abandoned",
		zap.String("session_id", id),
		zap.String("policy", string(s.opts.AbandonPolicy)),
		zap.Int("answered", inspection.CountAnswered(sess.Checklist)),
	)

	view := inspection.NewView(sess, s.now())
	return &view, nil
}

// ownedSession loads a session and checks it is assigned to driverRef
func (s *InspectionService) ownedSession(ctx context.Context, driverRef, id string) (*inspection.Session, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if !search.Equal(sess.DriverRef, driverRef) {
		return nil, fmt.Errorf("%w: session is assigned to another driver", xerrors.ErrForbidden)
	}
	return sess, nil
}

// persist writes walkthrough progress onto the stored session, keeping any
// assignment changes made while the walkthrough was open. Callers hold s.mu.
func (s *InspectionService) persist(ctx context.Context, progress *inspection.Session) error {
	stored, err := s.repo.FindByID(ctx, progress.ID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	stored.Status = progress.Status
	stored.StartedAt = progress.StartedAt
	stored.CompletedAt = progress.CompletedAt
	stored.Checklist = progress.Checklist
	stored.IssueCount = progress.IssueCount

	if err := s.repo.Update(ctx, stored); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *InspectionService) onCompleted(ctx context.Context, sess *inspection.Session) {
	s.logger.Info("pti session completed",
		zap.String("session_id", sess.ID),
		zap.String("vehicle_ref", sess.VehicleRef),
		zap.Int("issue_count", sess.IssueCount),
	)

	if s.vehicles != nil {
		if err := s.vehicles.RecordInspection(ctx, sess.VehicleRef, *sess.CompletedAt); err != nil {
			s.logger.Warn("failed to update vehicle pti schedule",
				zap.String("vehicle_ref", sess.VehicleRef),
				zap.Error(err),
			)
		}
	}

	if s.notifier == nil {
		return
	}

	label := format.VehicleLabel(sess.VehicleRef)
	req := &notification.CreateNotificationRequest{
		Type:     notification.TypePTICompleted,
		Title:    "PTI Completed",
		Message:  fmt.Sprintf("%s inspection completed successfully by %s", label, sess.DriverRef),
		Priority: notification.PriorityMedium,
		Data: &notification.Data{
			VehicleRef: sess.VehicleRef,
			DriverRef:  sess.DriverRef,
			SessionID:  sess.ID,
		},
	}
	if sess.IssueCount > 0 {
		req.Type = notification.TypeIssueReported
		req.Title = "Issues Found in PTI"
		req.Message = fmt.Sprintf("%s has %s reported by %s", label, english.Plural(sess.IssueCount, "issue", ""), sess.DriverRef)
		req.Priority = notification.PriorityHigh
		req.Data.IssueCount = sess.IssueCount
	}

	if _, err := s.notifier.Push(ctx, req); err != nil {
		s.logger.Warn("failed to push completion notification", zap.Error(err))
	}
}
