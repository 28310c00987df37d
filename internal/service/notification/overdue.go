// internal/service/notification/overdue.go
package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ptieasy-service/internal/domain/inspection"
	"ptieasy-service/internal/domain/notification"
	"ptieasy-service/internal/pkg/format"

	"go.uber.org/zap"
)

// SessionLister is the read side of the inspection store.
type SessionLister interface {
	List(ctx context.Context) ([]inspection.Session, error)
}

// Pusher adds an entry to the feed.
type Pusher interface {
	Push(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error)
}

// OverdueMonitor announces each session once, the first time a scan finds
// it overdue.
type OverdueMonitor struct {
	sessions SessionLister
	svc      Pusher
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	notified map[string]bool
}

func NewOverdueMonitor(sessions SessionLister, svc Pusher, interval time.Duration, logger *zap.Logger) *OverdueMonitor {
	return &OverdueMonitor{
		sessions: sessions,
		svc:      svc,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		notified: make(map[string]bool),
	}
}

// MarkNotified records sessions that already have an overdue entry in the
// feed, such as seeded ones.
func (m *OverdueMonitor) MarkNotified(ids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.notified[id] = true
	}
}

// Run scans on every tick until ctx is cancelled.
func (m *OverdueMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := m.Scan(ctx, m.now()); err != nil {
				m.logger.Warn("overdue scan failed", zap.Error(err))
			}
		}
	}
}

// Scan pushes a notification for every newly overdue session and returns
// how many were pushed.
func (m *OverdueMonitor) Scan(ctx context.Context, now time.Time) (int, error) {
	sessions, err := m.sessions.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	pushed := 0
	for i := range sessions {
		s := &sessions[i]
		if inspection.DeriveStatus(s, now) != inspection.StatusOverdue {
			continue
		}

		m.mu.Lock()
		seen := m.notified[s.ID]
		m.mu.Unlock()
		if seen {
			continue
		}

		_, err := m.svc.Push(ctx, &notification.CreateNotificationRequest{
			Type:     notification.TypePTIOverdue,
			Title:    "PTI Overdue",
			Message:  fmt.Sprintf("%s PTI is overdue by %s", format.VehicleLabel(s.VehicleRef), format.Elapsed(s.DueAt, now)),
			Priority: notification.PriorityHigh,
			Data:     &notification.Data{VehicleRef: s.VehicleRef, DriverRef: s.DriverRef, SessionID: s.ID},
		})
		if err != nil {
			return pushed, err
		}
		m.MarkNotified(s.ID)
		pushed++
	}

	if pushed > 0 {
		m.logger.Info("overdue sessions announced", zap.Int("count", pushed))
	}
	return pushed, nil
}
