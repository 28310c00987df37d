// internal/service/notification/service.go
package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"ptieasy-service/internal/domain/notification"
	xerrors "ptieasy-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Publisher pushes feed changes to connected clients.
type Publisher interface {
	PublishNotification(n *notification.Notification)
	PublishNotificationRead(id string)
	PublishNotificationsReadAll()
	PublishNotificationRemoved(id string)
	PublishUnreadCount(count int)
}

// NotificationService keeps the process-wide notification feed: a bounded
// list, newest first. Pushing onto a full feed drops the oldest entry.
type NotificationService struct {
	mu       sync.RWMutex
	items    []notification.Notification
	capacity int

	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewNotificationService(capacity int, publisher Publisher, logger *zap.Logger) *NotificationService {
	if capacity < 1 {
		capacity = notification.DefaultCapacity
	}
	return &NotificationService{
		items:     make([]notification.Notification, 0, capacity),
		capacity:  capacity,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for CreatedAt.
func (s *NotificationService) WithClock(now func() time.Time) *NotificationService {
	s.now = now
	return s
}

// SetPublisher attaches the push channel once it exists.
func (s *NotificationService) SetPublisher(p Publisher) {
	s.mu.Lock()
	s.publisher = p
	s.mu.Unlock()
}

// Seed loads the starting feed without publishing it.
func (s *NotificationService) Seed(now time.Time) {
	seeds := []notification.Notification{
		{
			Type:      notification.TypeIssueReported,
			Title:     "Issues Found in PTI",
			Message:   "Van #205 has 2 issues reported by Sarah Smith",
			Priority:  notification.PriorityHigh,
			Data:      &notification.Data{VehicleRef: "VAN-205", DriverRef: "Sarah Smith", IssueCount: 2},
			CreatedAt: now.Add(-5 * time.Minute),
		},
		{
			Type:      notification.TypePTICompleted,
			Title:     "PTI Completed",
			Message:   "Truck #101 inspection completed successfully by John Doe",
			Priority:  notification.PriorityMedium,
			Data:      &notification.Data{VehicleRef: "TRK-101", DriverRef: "John Doe"},
			CreatedAt: now.Add(-15 * time.Minute),
		},
		{
			Type:      notification.TypePTIOverdue,
			Title:     "PTI Overdue",
			Message:   "Truck #107 PTI is overdue by 2 hours",
			Priority:  notification.PriorityHigh,
			Data:      &notification.Data{VehicleRef: "TRK-107", DriverRef: "Emily Davis"},
			IsRead:    true,
			CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			Type:      notification.TypeDriverAssigned,
			Title:     "Driver Assigned",
			Message:   "David Wilson assigned to Van #201",
			Priority:  notification.PriorityLow,
			Data:      &notification.Data{VehicleRef: "VAN-201", DriverRef: "David Wilson"},
			IsRead:    true,
			CreatedAt: now.Add(-3 * time.Hour),
		},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = s.items[:0]
	for i := range seeds {
		if len(s.items) == s.capacity {
			break
		}
		seeds[i].ID = ulid.Make().String()
		s.items = append(s.items, seeds[i])
	}
}

// Push adds a notification at the head of the feed and publishes it
func (s *NotificationService) Push(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	title := strings.TrimSpace(req.Title)
	message := strings.TrimSpace(req.Message)
	if title == "" || message == "" {
		return nil, xerrors.Invalid("notification title and message are required")
	}

	priority := req.Priority
	if priority == "" {
		priority = notification.PriorityMedium
	}

	n := notification.Notification{
		ID:        ulid.Make().String(),
		Type:      req.Type,
		Title:     title,
		Message:   message,
		Priority:  priority,
		Data:      req.Data,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	if len(s.items) == s.capacity {
		s.items = s.items[:s.capacity-1]
	}
	s.items = append([]notification.Notification{n}, s.items...)
	unread := s.unreadLocked()
	publisher := s.publisher
	s.mu.Unlock()

	s.logger.Info("notification pushed",
		zap.String("notification_id", n.ID),
		zap.String("type", string(n.Type)),
		zap.Int("unread", unread),
	)

	if publisher != nil {
		publisher.PublishNotification(&n)
		publisher.PublishUnreadCount(unread)
	}

	return &n, nil
}

// List returns the feed, newest first, with read counts
func (s *NotificationService) List(ctx context.Context) *notification.NotificationListResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]notification.Notification, len(s.items))
	copy(items, s.items)

	return &notification.NotificationListResponse{
		Notifications: items,
		Summary:       s.summaryLocked(),
	}
}

// GetSummary returns read/unread counts
func (s *NotificationService) GetSummary(ctx context.Context) notification.NotificationSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaryLocked()
}

// UnreadCount returns the number of unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unreadLocked()
}

// MarkRead marks one notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("notification %s: %w", id, xerrors.ErrNotFound)
	}
	s.items[idx].IsRead = true
	unread := s.unreadLocked()
	publisher := s.publisher
	s.mu.Unlock()

	if publisher != nil {
		publisher.PublishNotificationRead(id)
		publisher.PublishUnreadCount(unread)
	}
	return nil
}

// MarkAllRead marks every notification as read
func (s *NotificationService) MarkAllRead(ctx context.Context) {
	s.mu.Lock()
	for i := range s.items {
		s.items[i].IsRead = true
	}
	publisher := s.publisher
	s.mu.Unlock()

	if publisher != nil {
		publisher.PublishNotificationsReadAll()
		publisher.PublishUnreadCount(0)
	}
}

// Remove deletes one notification from the feed
func (s *NotificationService) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("notification %s: %w", id, xerrors.ErrNotFound)
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	unread := s.unreadLocked()
	publisher := s.publisher
	s.mu.Unlock()

	if publisher != nil {
		publisher.PublishNotificationRemoved(id)
		publisher.PublishUnreadCount(unread)
	}
	return nil
}

func (s *NotificationService) indexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *NotificationService) unreadLocked() int {
	n := 0
	for i := range s.items {
		if !s.items[i].IsRead {
			n++
		}
	}
	return n
}

func (s *NotificationService) summaryLocked() notification.NotificationSummary {
	unread := s.unreadLocked()
	return notification.NotificationSummary{
		TotalUnread: unread,
		TotalRead:   len(s.items) - unread,
		Total:       len(s.items),
	}
}
