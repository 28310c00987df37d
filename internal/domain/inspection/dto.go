// internal/domain/inspection/dto.go
package inspection

import "time"

// CreateSessionRequest assigns a new inspection
type CreateSessionRequest struct {
	VehicleRef string    `json:"vehicle_ref" binding:"required"`
	DriverRef  string    `json:"driver_ref" binding:"required"`
	DueAt      time.Time `json:"due_at" binding:"required"`
	Priority   Priority  `json:"priority" binding:"omitempty,oneof=low medium high"`
	Notes      string    `json:"notes"`
}

// BulkCreateRequest assigns several inspections at once
type BulkCreateRequest struct {
	Sessions []CreateSessionRequest `json:"sessions" binding:"required,min=1,max=100,dive"`
}

// UpdateSessionRequest changes the assignment of a session; the checklist
// is only ever changed by a walkthrough
type UpdateSessionRequest struct {
	VehicleRef string    `json:"vehicle_ref" binding:"required"`
	DriverRef  string    `json:"driver_ref" binding:"required"`
	DueAt      time.Time `json:"due_at" binding:"required"`
	Priority   Priority  `json:"priority" binding:"omitempty,oneof=low medium high"`
	Notes      string    `json:"notes"`
}

// RespondRequest answers the current checklist item
type RespondRequest struct {
	Status   ItemStatus `json:"status" binding:"required,oneof=ok not_ok"`
	Comment  string     `json:"comment"`
	PhotoRef string     `json:"photo_ref"`
}

// SessionListFilters for listing/searching sessions. Status is "all" or a
// derived status.
type SessionListFilters struct {
	Search    string `form:"search"` // vehicle, driver
	Status    string `form:"status" binding:"omitempty,oneof=all pending in_progress completed overdue"`
	DriverRef string `form:"-"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// SessionView is a session with its derived status
type SessionView struct {
	Session
	DisplayStatus  Status `json:"display_status"`
	CompletedItems int    `json:"completed_items"`
}

// SessionListResponse paginated list response
type SessionListResponse struct {
	Sessions   []SessionView `json:"sessions"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// SessionStats counts sessions by derived status
type SessionStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
	WithIssues int `json:"with_issues"`
}

// NewView wraps s with its derived status as of now.
func NewView(s *Session, now time.Time) SessionView {
	return SessionView{
		Session:        *s,
		DisplayStatus:  DeriveStatus(s, now),
		CompletedItems: CountAnswered(s.Checklist),
	}
}
