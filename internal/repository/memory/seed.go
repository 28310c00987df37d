// internal/repository/memory/seed.go
package memory

import (
	"context"
	"fmt"
	"time"

	"ptieasy-service/internal/domain/employee"
	"ptieasy-service/internal/domain/inspection"
	"ptieasy-service/internal/domain/vehicle"
)

// Fleet groups the repositories the demo fleet is loaded into.
type Fleet struct {
	Employees employee.Repository
	Vehicles  vehicle.Repository
	Sessions  inspection.Repository
}

// SeedFleet loads the demo directory and inspection history relative to now.
// Sessions are built from checklist; issue answers land on the items with
// matching names.
func SeedFleet(ctx context.Context, f Fleet, checklist []string, now time.Time) error {
	for _, e := range seedEmployees(now) {
		if err := f.Employees.Create(ctx, &e); err != nil {
			return fmt.Errorf("failed to seed employee %s: %w", e.Name, err)
		}
	}

	for _, v := range seedVehicles(now) {
		if err := f.Vehicles.Create(ctx, &v); err != nil {
			return fmt.Errorf("failed to seed vehicle %s: %w", v.VehicleID, err)
		}
	}

	for _, s := range seedSessions(checklist, now) {
		if err := f.Sessions.Create(ctx, s); err != nil {
			return fmt.Errorf("failed to seed session for %s: %w", s.VehicleRef, err)
		}
	}

	return nil
}

func seedEmployees(now time.Time) []employee.Employee {
	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	return []employee.Employee{
		{
			Name:               "John Doe",
			Email:              "john.doe@company.com",
			Role:               employee.RoleDriver,
			Phone:              "+1 (555) 123-4567",
			AssignedVehicleRef: "Truck #101",
			Status:             employee.StatusActive,
			LastActiveAt:       now.Add(-2 * time.Minute),
			CreatedAt:          created,
			UpdatedAt:          created,
		},
		{
			Name:               "Sarah Smith",
			Email:              "sarah.smith@company.com",
			Role:               employee.RoleDriver,
			Phone:              "+1 (555) 234-5678",
			AssignedVehicleRef: "Van #205",
			Status:             employee.StatusActive,
			LastActiveAt:       now.Add(-15 * time.Minute),
			CreatedAt:          created,
			UpdatedAt:          created,
		},
		{
			Name:         "Mike Johnson",
			Email:        "mike.johnson@company.com",
			Role:         employee.RoleDispatcher,
			Phone:        "+1 (555) 345-6789",
			Status:       employee.StatusActive,
			LastActiveAt: now.Add(-30 * time.Minute),
			CreatedAt:    created,
			UpdatedAt:    created,
		},
		{
			Name:               "Emily Davis",
			Email:              "emily.davis@company.com",
			Role:               employee.RoleDriver,
			Phone:              "+1 (555) 456-7890",
			AssignedVehicleRef: "Truck #107",
			Status:             employee.StatusInactive,
			LastActiveAt:       now.Add(-48 * time.Hour),
			CreatedAt:          created,
			UpdatedAt:          created,
		},
	}
}

func seedVehicles(now time.Time) []vehicle.Vehicle {
	return []vehicle.Vehicle{
		{
			VehicleID:         "TRK-101",
			Type:              vehicle.TypeTruck,
			Make:              "Freightliner",
			Model:             "Cascadia",
			Year:              2022,
			LicensePlate:      "ABC-1234",
			AssignedDriverRef: "John Doe",
			Status:            vehicle.StatusActive,
			Mileage:           45000,
			LastPTIAt:         now.Add(-2 * time.Hour),
			NextPTIAt:         now.Add(22 * time.Hour),
			Location:          "Los Angeles, CA",
			CreatedAt:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			VehicleID:         "VAN-205",
			Type:              vehicle.TypeVan,
			Make:              "Ford",
			Model:             "Transit",
			Year:              2023,
			LicensePlate:      "XYZ-5678",
			AssignedDriverRef: "Sarah Smith",
			Status:            vehicle.StatusActive,
			Mileage:           23000,
			LastPTIAt:         now.Add(-15 * time.Minute),
			NextPTIAt:         now.Add(8 * time.Hour),
			Location:          "San Francisco, CA",
			CreatedAt:         time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			VehicleID:    "TRK-103",
			Type:         vehicle.TypeTruck,
			Make:         "Peterbilt",
			Model:        "579",
			Year:         2021,
			LicensePlate: "DEF-9012",
			Status:       vehicle.StatusMaintenance,
			Mileage:      67000,
			LastPTIAt:    now.Add(-48 * time.Hour),
			NextPTIAt:    now.Add(5 * 24 * time.Hour),
			Location:     "Phoenix, AZ",
			CreatedAt:    time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			VehicleID:         "TRK-107",
			Type:              vehicle.TypeTruck,
			Make:              "Kenworth",
			Model:             "T680",
			Year:              2023,
			LicensePlate:      "GHI-3456",
			AssignedDriverRef: "Emily Davis",
			Status:            vehicle.StatusActive,
			Mileage:           12000,
			LastPTIAt:         now.Add(-4 * time.Hour),
			NextPTIAt:         now.Add(20 * time.Hour),
			Location:          "Denver, CO",
			CreatedAt:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func seedSessions(checklist []string, now time.Time) []*inspection.Session {
	at := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}

	clean := completedChecklist(checklist, nil)
	issues := completedChecklist(checklist, map[string]string{
		"Brakes":            "Brake pads worn, need replacement",
		"Windshield Wipers": "Wipers leaving streaks",
	})

	return []*inspection.Session{
		{
			VehicleRef: "TRK-107",
			DriverRef:  "Emily Davis",
			Status:     inspection.StatusPending,
			DueAt:      now.Add(-2 * time.Hour),
			CreatedAt:  now.Add(-24 * time.Hour),
			Checklist:  inspection.NewChecklist(checklist),
			Priority:   inspection.PriorityHigh,
		},
		{
			VehicleRef:  "TRK-101",
			DriverRef:   "John Doe",
			Status:      inspection.StatusCompleted,
			DueAt:       now.Add(2 * time.Hour),
			CreatedAt:   now.Add(-24 * time.Hour),
			StartedAt:   at(-2*time.Hour - 12*time.Minute),
			CompletedAt: at(-2 * time.Hour),
			Checklist:   clean,
			IssueCount:  inspection.CountIssues(clean),
			Priority:    inspection.PriorityMedium,
		},
		{
			VehicleRef:  "VAN-205",
			DriverRef:   "Sarah Smith",
			Status:      inspection.StatusCompleted,
			DueAt:       now.Add(8 * time.Hour),
			CreatedAt:   now.Add(-12 * time.Hour),
			StartedAt:   at(-48 * time.Minute),
			CompletedAt: at(-30 * time.Minute),
			Checklist:   issues,
			IssueCount:  inspection.CountIssues(issues),
			Priority:    inspection.PriorityHigh,
		},
		{
			VehicleRef: "TRK-103",
			DriverRef:  "Mike Johnson",
			Status:     inspection.StatusPending,
			DueAt:      now.Add(4 * time.Hour),
			CreatedAt:  now.Add(-2 * time.Hour),
			Checklist:  inspection.NewChecklist(checklist),
			Priority:   inspection.PriorityMedium,
		},
	}
}

// completedChecklist answers every item ok except those named in notOK.
func completedChecklist(template []string, notOK map[string]string) []inspection.ChecklistItem {
	items := inspection.NewChecklist(template)
	for i := range items {
		if comment, bad := notOK[items[i].Name]; bad {
			items[i].Status = inspection.ItemNotOK
			items[i].Comment = comment
			continue
		}
		items[i].Status = inspection.ItemOK
	}
	return items
}
