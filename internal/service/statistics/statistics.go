// internal/service/statistics/statistics.go
package statistics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"ptieasy-service/internal/domain/inspection"
	"ptieasy-service/internal/domain/statistics"
	"ptieasy-service/internal/pkg/format"

	"github.com/dustin/go-humanize/english"
	"go.uber.org/zap"
)

// recentActivityLimit is how many events the dashboard shows.
const recentActivityLimit = 5

type SessionLister interface {
	List(ctx context.Context) ([]inspection.Session, error)
}

type DriverCounter interface {
	CountDrivers(ctx context.Context) (int, error)
}

type VehicleCounter interface {
	CountActive(ctx context.Context) (int, error)
}

type StatisticsService struct {
	sessions SessionLister
	drivers  DriverCounter
	vehicles VehicleCounter
	logger   *zap.Logger
	now      func() time.Time
}

func NewStatisticsService(sessions SessionLister, drivers DriverCounter, vehicles VehicleCounter, logger *zap.Logger) *StatisticsService {
	return &StatisticsService{
		sessions: sessions,
		drivers:  drivers,
		vehicles: vehicles,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *StatisticsService) WithClock(now func() time.Time) *StatisticsService {
	s.now = now
	return s
}

// ========== Dashboard ==========

// Dashboard summarises the whole fleet as of now
func (s *StatisticsService) Dashboard(ctx context.Context) (*statistics.DashboardSummary, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	drivers, err := s.drivers.CountDrivers(ctx)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.vehicles.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := &statistics.DashboardSummary{
		TotalDrivers:   drivers,
		ActiveVehicles: vehicles,
		GeneratedAt:    now,
	}

	for i := range sessions {
		switch inspection.DeriveStatus(&sessions[i], now) {
		case inspection.StatusPending:
			summary.PendingInspections++
		case inspection.StatusCompleted:
			summary.CompletedInspections++
		case inspection.StatusOverdue:
			summary.OverdueInspections++
		}
	}
	summary.ComplianceRate = percent(summary.CompletedInspections, len(sessions))
	summary.RecentActivity = recentActivity(sessions, recentActivityLimit)

	return summary, nil
}

// recentActivity derives creation and completion events from sessions,
// newest first
func recentActivity(sessions []inspection.Session, limit int) []statistics.Activity {
	events := make([]statistics.Activity, 0, len(sessions)*2)
	for i := range sessions {
		sess := &sessions[i]
		label := format.VehicleLabel(sess.VehicleRef)

		events = append(events, statistics.Activity{
			Type:       statistics.ActivityPTICreated,
			SessionID:  sess.ID,
			VehicleRef: sess.VehicleRef,
			DriverRef:  sess.DriverRef,
			Message:    fmt.Sprintf("PTI assigned for %s to %s", label, sess.DriverRef),
			Timestamp:  sess.CreatedAt,
		})

		if sess.Status != inspection.StatusCompleted || sess.CompletedAt == nil {
			continue
		}
		done := statistics.Activity{
			Type:       statistics.ActivityPTICompleted,
			SessionID:  sess.ID,
			VehicleRef: sess.VehicleRef,
			DriverRef:  sess.DriverRef,
			Issues:     sess.IssueCount,
			Message:    fmt.Sprintf("%s PTI completed by %s", label, sess.DriverRef),
			Timestamp:  *sess.CompletedAt,
		}
		if sess.IssueCount > 0 {
			done.Type = statistics.ActivityIssueReported
			done.Message = fmt.Sprintf("%s: %s reported by %s", label, english.Plural(sess.IssueCount, "issue", ""), sess.DriverRef)
		}
		events = append(events, done)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	if len(events) > limit {
		events = events[:limit]
	}
	return events
}

// ========== Report ==========

// Report aggregates the sessions created within r
func (s *StatisticsService) Report(ctx context.Context, r statistics.TimeRange) (*statistics.Report, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	now := s.now()
	from := r.Since(now)

	report := &statistics.Report{
		Range:            r,
		From:             from,
		GeneratedAt:      now,
		ComplianceTarget: statistics.ComplianceTarget,
	}

	var (
		totalTime  time.Duration
		timed      int
		categories = make(map[string]int)
		byVehicle  = make(map[string]*tally)
		byDriver   = make(map[string]*tally)
	)

	for i := range sessions {
		sess := &sessions[i]
		if sess.CreatedAt.Before(from) {
			continue
		}

		report.TotalInspections++
		status := inspection.DeriveStatus(sess, now)
		switch status {
		case inspection.StatusPending:
			report.PendingInspections++
		case inspection.StatusInProgress:
			report.InProgressInspections++
		case inspection.StatusCompleted:
			report.CompletedInspections++
		case inspection.StatusOverdue:
			report.OverdueInspections++
		}
		report.TotalIssues += sess.IssueCount

		if status == inspection.StatusCompleted {
			for _, item := range sess.Checklist {
				if item.Status == inspection.ItemNotOK {
					categories[item.Name]++
				}
			}
		}

		d, ok := sess.Duration()
		if ok {
			totalTime += d
			timed++
		}

		tallyFor(byVehicle, sess.VehicleRef).add(sess, status, d, ok)
		tallyFor(byDriver, sess.DriverRef).add(sess, status, d, ok)
	}

	report.ComplianceRate = percent(report.CompletedInspections, report.TotalInspections)
	report.MeetsTarget = report.TotalInspections > 0 && report.ComplianceRate >= statistics.ComplianceTarget
	report.Band = statistics.BandFor(report.ComplianceRate)

	if timed > 0 {
		avg := totalTime / time.Duration(timed)
		report.AverageMinutes = round1(avg.Minutes())
		report.AverageTime = format.Minutes(avg)
	}

	report.IssuesByCategory = issueCategories(categories)
	if len(report.IssuesByCategory) > 0 {
		top := report.IssuesByCategory[0]
		report.TopIssue = &top
	}

	report.VehiclePerformance = performance(byVehicle)
	report.DriverPerformance = performance(byDriver)

	s.logger.Debug("statistics report generated",
		zap.String("range", string(r)),
		zap.Int("sessions", report.TotalInspections),
	)
	return report, nil
}

type tally struct {
	ref         string
	inspections int
	completed   int
	issues      int
	timed       int
	total       time.Duration
}

func tallyFor(m map[string]*tally, ref string) *tally {
	t, ok := m[ref]
	if !ok {
		t = &tally{ref: ref}
		m[ref] = t
	}
	return t
}

func (t *tally) add(sess *inspection.Session, status inspection.Status, d time.Duration, timed bool) {
	t.inspections++
	if status == inspection.StatusCompleted {
		t.completed++
	}
	t.issues += sess.IssueCount
	if timed {
		t.timed++
		t.total += d
	}
}

// performance orders rows by inspection count, then by ref
func performance(m map[string]*tally) []statistics.Performance {
	rows := make([]statistics.Performance, 0, len(m))
	for _, t := range m {
		rate := percent(t.completed, t.inspections)
		p := statistics.Performance{
			Ref:            t.ref,
			Inspections:    t.inspections,
			Completed:      t.completed,
			CompletionRate: rate,
			Issues:         t.issues,
			Band:           statistics.BandFor(rate),
		}
		if t.timed > 0 {
			avg := t.total / time.Duration(t.timed)
			p.AvgMinutes = round1(avg.Minutes())
			p.AvgTime = format.Minutes(avg)
		}
		rows = append(rows, p)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Inspections != rows[j].Inspections {
			return rows[i].Inspections > rows[j].Inspections
		}
		return rows[i].Ref < rows[j].Ref
	})
	return rows
}

// issueCategories orders categories by count, then by name
func issueCategories(counts map[string]int) []statistics.IssueCategory {
	total := 0
	for _, n := range counts {
		total += n
	}

	out := make([]statistics.IssueCategory, 0, len(counts))
	for name, n := range counts {
		out = append(out, statistics.IssueCategory{
			Category:   name,
			Count:      n,
			Percentage: percent(n, total),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// percent is part/whole*100 to one decimal; an empty whole is 0
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
