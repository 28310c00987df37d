package statistics

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"ptieasy-service/internal/domain/employee"
	"ptieasy-service/internal/domain/inspection"
	"ptieasy-service/internal/domain/statistics"
	"ptieasy-service/internal/domain/vehicle"
	"ptieasy-service/internal/repository/memory"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type drivers struct{ repo employee.Repository }

func (d drivers) CountDrivers(ctx context.Context) (int, error) {
	return d.repo.CountByRole(ctx, employee.RoleDriver)
}

type vehicles struct{ repo vehicle.Repository }

func (v vehicles) CountActive(ctx context.Context) (int, error) {
	return v.repo.CountByStatus(ctx, vehicle.StatusActive)
}

func newSeeded(t *testing.T) (*StatisticsService, memory.Fleet) {
	t.Helper()
	f := memory.Fleet{
		Employees: memory.NewEmployeeRepository(),
		Vehicles:  memory.NewVehicleRepository(),
		Sessions:  memory.NewInspectionRepository(),
	}
	require.NoError(t, memory.SeedFleet(context.Background(), f, inspection.DefaultChecklist, testNow))

	svc := NewStatisticsService(f.Sessions, drivers{f.Employees}, vehicles{f.Vehicles}, zap.NewNop()).
		WithClock(func() time.Time { return testNow })
	return svc, f
}

func TestReport_SeededFleet(t *testing.T) {
	svc, _ := newSeeded(t)

	report, err := svc.Report(context.Background(), statistics.Range30Days)
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalInspections)
	assert.Equal(t, 2, report.CompletedInspections)
	assert.Equal(t, 1, report.PendingInspections)
	assert.Equal(t, 1, report.OverdueInspections)
	assert.Equal(t, 50.0, report.ComplianceRate)
	assert.False(t, report.MeetsTarget)
	assert.Equal(t, statistics.BandPoor, report.Band)
	assert.Equal(t, 2, report.TotalIssues)
	assert.Equal(t, 15.0, report.AverageMinutes)
	assert.Equal(t, "15 min", report.AverageTime)

	wantCategories := []statistics.IssueCategory{
		{Category: "Brakes", Count: 1, Percentage: 50},
		{Category: "Windshield Wipers", Count: 1, Percentage: 50},
	}
	if diff := cmp.Diff(wantCategories, report.IssuesByCategory); diff != "" {
		t.Errorf("issue categories mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, report.TopIssue)
	assert.Equal(t, "Brakes", report.TopIssue.Category)

	wantVehicles := []statistics.Performance{
		{Ref: "TRK-101", Inspections: 1, Completed: 1, CompletionRate: 100, AvgMinutes: 12, Band: statistics.BandGood},
		{Ref: "TRK-103", Inspections: 1, Band: statistics.BandPoor},
		{Ref: "TRK-107", Inspections: 1, Band: statistics.BandPoor},
		{Ref: "VAN-205", Inspections: 1, Completed: 1, CompletionRate: 100, Issues: 2, AvgMinutes: 18, Band: statistics.BandGood},
	}
	if diff := cmp.Diff(wantVehicles, report.VehiclePerformance, cmpopts.IgnoreFields(statistics.Performance{}, "AvgTime")); diff != "" {
		t.Errorf("vehicle performance mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, report.DriverPerformance, 4)
	assert.Equal(t, "Emily Davis", report.DriverPerformance[0].Ref)
}

func TestReport_RangeExcludesOlderSessions(t *testing.T) {
	ctx := context.Background()
	svc, f := newSeeded(t)

	old := &inspection.Session{
		VehicleRef: "TRK-101",
		DriverRef:  "John Doe",
		Status:     inspection.StatusPending,
		DueAt:      testNow.AddDate(0, 0, -39),
		CreatedAt:  testNow.AddDate(0, 0, -40),
		Checklist:  inspection.NewChecklist(inspection.DefaultChecklist),
	}
	require.NoError(t, f.Sessions.Create(ctx, old))

	report, err := svc.Report(ctx, statistics.Range30Days)
	require.NoError(t, err)
	assert.Equal(t, 4, report.TotalInspections)

	report, err = svc.Report(ctx, statistics.Range90Days)
	require.NoError(t, err)
	assert.Equal(t, 5, report.TotalInspections)
	assert.Equal(t, 2, report.OverdueInspections)
	assert.Equal(t, 40.0, report.ComplianceRate)
}

func TestReport_Empty(t *testing.T) {
	svc := NewStatisticsService(memory.NewInspectionRepository(), nil, nil, zap.NewNop())

	report, err := svc.Report(context.Background(), statistics.Range7Days)
	require.NoError(t, err)
	assert.Zero(t, report.ComplianceRate)
	assert.False(t, report.MeetsTarget)
	assert.Nil(t, report.TopIssue)
	assert.Empty(t, report.IssuesByCategory)
}

func TestDashboard(t *testing.T) {
	svc, _ := newSeeded(t)

	summary, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalDrivers)
	assert.Equal(t, 3, summary.ActiveVehicles)
	assert.Equal(t, 1, summary.PendingInspections)
	assert.Equal(t, 2, summary.CompletedInspections)
	assert.Equal(t, 1, summary.OverdueInspections)

	require.Len(t, summary.RecentActivity, recentActivityLimit)
	first := summary.RecentActivity[0]
	assert.Equal(t, statistics.ActivityIssueReported, first.Type)
	assert.Equal(t, "Van #205: 2 issues reported by Sarah Smith", first.Message)
	for i := 1; i < len(summary.RecentActivity); i++ {
		assert.False(t, summary.RecentActivity[i].Timestamp.After(summary.RecentActivity[i-1].Timestamp))
	}
}

func TestWriteCSV(t *testing.T) {
	svc, _ := newSeeded(t)

	report, err := svc.Report(context.Background(), statistics.Range30Days)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, report))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	values := map[string]string{}
	for _, rec := range records {
		if len(rec) == 2 {
			values[rec[0]] = rec[1]
		}
	}
	assert.Equal(t, "30d", values["range"])
	assert.Equal(t, "4", values["total_inspections"])
	assert.Equal(t, "50.0", values["compliance_rate"])
	assert.Equal(t, "false", values["meets_target"])

	assert.Contains(t, records, []string{"Brakes", "1", "50.0"})
	assert.Contains(t, records, []string{"VAN-205", "1", "1", "100.0", "2", "18.0"})
	assert.Contains(t, records, []string{"driver", "inspections", "completed", "completion_rate", "issues", "avg_minutes"})

	assert.Equal(t, "pti-statistics-30d-2025-06-01.csv", ExportFilename(report))
}
