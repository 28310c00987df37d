// internal/domain/inspection/entity.go
package inspection

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type Status string
type ItemStatus string
type Priority string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	// StatusOverdue is derived from DueAt and never stored.
	StatusOverdue Status = "overdue"

	ItemPending ItemStatus = "pending"
	ItemOK      ItemStatus = "ok"
	ItemNotOK   ItemStatus = "not_ok"

	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultChecklist is the inspection template used when none is configured.
var DefaultChecklist = []string{
	"Brakes",
	"Tires",
	"Lights",
	"Fuel System",
	"Windshield Wipers",
	"Mirrors",
	"Horn",
	"Emergency Equipment",
}

type ChecklistItem struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Status   ItemStatus `json:"status"`
	Comment  string     `json:"comment,omitempty"`
	PhotoRef string     `json:"photo_ref,omitempty"`
}

// Session is a pre-trip inspection assigned to a driver for a vehicle
type Session struct {
	ID          string          `json:"id"`
	VehicleRef  string          `json:"vehicle_ref"`
	DriverRef   string          `json:"driver_ref"`
	Status      Status          `json:"status"`
	DueAt       time.Time       `json:"due_at"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Checklist   []ChecklistItem `json:"checklist"`
	IssueCount  int             `json:"issue_count"`
	Priority    Priority        `json:"priority"`
	Notes       string          `json:"notes,omitempty"`
}

// NewChecklist instantiates a fresh checklist from template names.
func NewChecklist(template []string) []ChecklistItem {
	items := make([]ChecklistItem, len(template))
	for i, name := range template {
		items[i] = ChecklistItem{
			ID:     ulid.Make().String(),
			Name:   name,
			Status: ItemPending,
		}
	}
	return items
}

// DeriveStatus returns the status shown to users: a session that is not
// completed and whose due time has passed is overdue.
func DeriveStatus(s *Session, now time.Time) Status {
	if s.Status != StatusCompleted && s.DueAt.Before(now) {
		return StatusOverdue
	}
	return s.Status
}

// CountIssues counts checklist items answered not_ok.
func CountIssues(items []ChecklistItem) int {
	n := 0
	for _, it := range items {
		if it.Status == ItemNotOK {
			n++
		}
	}
	return n
}

// CountAnswered counts checklist items that are no longer pending.
func CountAnswered(items []ChecklistItem) int {
	n := 0
	for _, it := range items {
		if it.Status != ItemPending {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so callers never share checklist storage.
func (s *Session) Clone() *Session {
	c := *s
	c.Checklist = append([]ChecklistItem(nil), s.Checklist...)
	if s.StartedAt != nil {
		t := *s.StartedAt
		c.StartedAt = &t
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// Duration is the time spent inspecting, when known.
func (s *Session) Duration() (time.Duration, bool) {
	if s.StartedAt == nil || s.CompletedAt == nil {
		return 0, false
	}
	return s.CompletedAt.Sub(*s.StartedAt), true
}
