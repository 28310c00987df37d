// internal/domain/statistics/entity.go
package statistics

import (
	"fmt"
	"time"

	xerrors "ptieasy-service/internal/pkg/errors"
)

type TimeRange string

const (
	Range7Days  TimeRange = "7d"
	Range30Days TimeRange = "30d"
	Range90Days TimeRange = "90d"
	Range1Year  TimeRange = "1y"

	DefaultRange = Range30Days

	// ComplianceTarget is the completion rate, in percent, fleets aim for.
	ComplianceTarget = 95.0
	// complianceWarning is where a rate stops being acceptable.
	complianceWarning = 90.0
)

// ParseTimeRange validates a range query value; empty means 30d.
func ParseTimeRange(raw string) (TimeRange, error) {
	switch r := TimeRange(raw); r {
	case "":
		return DefaultRange, nil
	case Range7Days, Range30Days, Range90Days, Range1Year:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown time range %q", xerrors.ErrInvalidInput, raw)
	}
}

// Since returns the start of the range ending at now.
func (r TimeRange) Since(now time.Time) time.Time {
	switch r {
	case Range7Days:
		return now.AddDate(0, 0, -7)
	case Range90Days:
		return now.AddDate(0, 0, -90)
	case Range1Year:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, 0, -30)
	}
}

// ComplianceBand classifies a completion rate.
type ComplianceBand string

const (
	BandGood    ComplianceBand = "good"
	BandWarning ComplianceBand = "warning"
	BandPoor    ComplianceBand = "poor"
)

func BandFor(rate float64) ComplianceBand {
	switch {
	case rate >= ComplianceTarget:
		return BandGood
	case rate >= complianceWarning:
		return BandWarning
	default:
		return BandPoor
	}
}

type IssueCategory struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Performance aggregates the sessions of one vehicle or one driver.
type Performance struct {
	Ref            string         `json:"ref"`
	Inspections    int            `json:"inspections"`
	Completed      int            `json:"completed"`
	CompletionRate float64        `json:"completion_rate"`
	Issues         int            `json:"issues"`
	AvgMinutes     float64        `json:"avg_minutes"`
	AvgTime        string         `json:"avg_time,omitempty"`
	Band           ComplianceBand `json:"band"`
}

type Report struct {
	Range                 TimeRange       `json:"range"`
	From                  time.Time       `json:"from"`
	GeneratedAt           time.Time       `json:"generated_at"`
	ComplianceRate        float64         `json:"compliance_rate"`
	ComplianceTarget      float64         `json:"compliance_target"`
	MeetsTarget           bool            `json:"meets_target"`
	Band                  ComplianceBand  `json:"band"`
	TotalInspections      int             `json:"total_inspections"`
	CompletedInspections  int             `json:"completed_inspections"`
	InProgressInspections int             `json:"in_progress_inspections"`
	PendingInspections    int             `json:"pending_inspections"`
	OverdueInspections    int             `json:"overdue_inspections"`
	TotalIssues           int             `json:"total_issues"`
	AverageMinutes        float64         `json:"average_minutes"`
	AverageTime           string          `json:"average_time,omitempty"`
	TopIssue              *IssueCategory  `json:"top_issue,omitempty"`
	IssuesByCategory      []IssueCategory `json:"issues_by_category"`
	VehiclePerformance    []Performance   `json:"vehicle_performance"`
	DriverPerformance     []Performance   `json:"driver_performance"`
}

type ActivityType string

const (
	ActivityPTICreated    ActivityType = "pti_created"
	ActivityPTICompleted  ActivityType = "pti_completed"
	ActivityIssueReported ActivityType = "issue_reported"
)

type Activity struct {
	Type       ActivityType `json:"type"`
	SessionID  string       `json:"session_id"`
	VehicleRef string       `json:"vehicle_ref"`
	DriverRef  string       `json:"driver_ref"`
	Issues     int          `json:"issues"`
	Message    string       `json:"message"`
	Timestamp  time.Time    `json:"timestamp"`
}

type DashboardSummary struct {
	TotalDrivers         int        `json:"total_drivers"`
	ActiveVehicles       int        `json:"active_vehicles"`
	PendingInspections   int        `json:"pending_inspections"`
	CompletedInspections int        `json:"completed_inspections"`
	OverdueInspections   int        `json:"overdue_inspections"`
	ComplianceRate       float64    `json:"compliance_rate"`
	RecentActivity       []Activity `json:"recent_activity"`
	GeneratedAt          time.Time  `json:"generated_at"`
}
