// internal/service/statistics/export.go
package statistics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"ptieasy-service/internal/domain/statistics"
)

// ExportFilename names the CSV attachment for a report.
func ExportFilename(report *statistics.Report) string {
	return fmt.Sprintf("pti-statistics-%s-%s.csv", report.Range, report.GeneratedAt.Format("2006-01-02"))
}

// WriteCSV renders a report as CSV: a summary block followed by one block
// each for issue categories, vehicles and drivers.
func WriteCSV(w io.Writer, report *statistics.Report) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"metric", "value"},
		{"range", string(report.Range)},
		{"from", report.From.Format(time.RFC3339)},
		{"generated_at", report.GeneratedAt.Format(time.RFC3339)},
		{"total_inspections", strconv.Itoa(report.TotalInspections)},
		{"completed_inspections", strconv.Itoa(report.CompletedInspections)},
		{"in_progress_inspections", strconv.Itoa(report.InProgressInspections)},
		{"pending_inspections", strconv.Itoa(report.PendingInspections)},
		{"overdue_inspections", strconv.Itoa(report.OverdueInspections)},
		{"compliance_rate", ftoa(report.ComplianceRate)},
		{"compliance_target", ftoa(report.ComplianceTarget)},
		{"meets_target", strconv.FormatBool(report.MeetsTarget)},
		{"total_issues", strconv.Itoa(report.TotalIssues)},
		{"average_minutes", ftoa(report.AverageMinutes)},
		{},
		{"issue_category", "count", "percentage"},
	}
	for _, c := range report.IssuesByCategory {
		records = append(records, []string{c.Category, strconv.Itoa(c.Count), ftoa(c.Percentage)})
	}

	records = append(records, []string{})
	records = append(records, performanceRecords("vehicle", report.VehiclePerformance)...)
	records = append(records, []string{})
	records = append(records, performanceRecords("driver", report.DriverPerformance)...)

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func performanceRecords(kind string, rows []statistics.Performance) [][]string {
	out := [][]string{{kind, "inspections", "completed", "completion_rate", "issues", "avg_minutes"}}
	for _, p := range rows {
		out = append(out, []string{
			p.Ref,
			strconv.Itoa(p.Inspections),
			strconv.Itoa(p.Completed),
			ftoa(p.CompletionRate),
			strconv.Itoa(p.Issues),
			ftoa(p.AvgMinutes),
		})
	}
	return out
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
