// internal/domain/notification/entity.go
package notification

import "time"

type NotificationType string
type Priority string

const (
	TypePTICompleted   NotificationType = "pti_completed"
	TypePTIOverdue     NotificationType = "pti_overdue"
	TypeIssueReported  NotificationType = "issue_reported"
	TypeDriverAssigned NotificationType = "driver_assigned"

	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultCapacity is how many notifications the feed keeps.
const DefaultCapacity = 10

// Data links a notification to the records it is about.
type Data struct {
	VehicleRef string `json:"vehicle_ref,omitempty"`
	DriverRef  string `json:"driver_ref,omitempty"`
	SessionID  string `json:"session_id,omitempty"`
	IssueCount int    `json:"issue_count,omitempty"`
}

type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Priority  Priority         `json:"priority"`
	Data      *Data            `json:"data,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

// DTOs

type CreateNotificationRequest struct {
	Type     NotificationType `json:"type" binding:"required,oneof=pti_completed pti_overdue issue_reported driver_assigned"`
	Title    string           `json:"title" binding:"required,max=255"`
	Message  string           `json:"message" binding:"required"`
	Priority Priority         `json:"priority" binding:"omitempty,oneof=low medium high"`
	Data     *Data            `json:"data,omitempty"`
}

type NotificationSummary struct {
	TotalUnread int `json:"total_unread"`
	TotalRead   int `json:"total_read"`
	Total       int `json:"total"`
}

type NotificationListResponse struct {
	Notifications []Notification      `json:"notifications"`
	Summary       NotificationSummary `json:"summary"`
}
