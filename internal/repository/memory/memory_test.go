package memory

import (
	"context"
	"testing"
	"time"

	"ptieasy-service/internal/domain/auth"
	"ptieasy-service/internal/domain/employee"
	"ptieasy-service/internal/domain/inspection"
	"ptieasy-service/internal/domain/vehicle"
	xerrors "ptieasy-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository()

	ann := &employee.Employee{Name: "Ann", Email: "ann@x.com", Role: employee.RoleDriver, Status: employee.StatusActive}
	require.NoError(t, repo.Create(ctx, ann))
	require.NotEmpty(t, ann.ID)

	bob := &employee.Employee{Name: "Bob", Email: "bob@x.com", Role: employee.RoleDispatcher, Status: employee.StatusActive}
	require.NoError(t, repo.Create(ctx, bob))

	got, err := repo.FindByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)

	got.Name = "mutated"
	again, _ := repo.FindByID(ctx, ann.ID)
	assert.Equal(t, "Ann", again.Name, "callers get copies")

	list, err := repo.List(ctx, &employee.EmployeeListFilters{Search: "ANN"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ann.ID, list[0].ID)

	list, err = repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{ann.ID, bob.ID}, []string{list[0].ID, list[1].ID})

	n, err := repo.CountByRole(ctx, employee.RoleDriver)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.Delete(ctx, ann.ID))
	_, err = repo.FindByID(ctx, ann.ID)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, ann.ID), xerrors.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, ann), xerrors.ErrNotFound)
}

func TestVehicleRepository_UniqueVehicleID(t *testing.T) {
	ctx := context.Background()
	repo := NewVehicleRepository()

	a := &vehicle.Vehicle{VehicleID: "TRK-101", Make: "Freightliner", Model: "Cascadia"}
	require.NoError(t, repo.Create(ctx, a))

	dup := &vehicle.Vehicle{VehicleID: " TRK-101 ", Make: "Volvo", Model: "VNL"}
	assert.ErrorIs(t, repo.Create(ctx, dup), xerrors.ErrDuplicateEntry)

	b := &vehicle.Vehicle{VehicleID: "TRK-102", Make: "Volvo", Model: "VNL"}
	require.NoError(t, repo.Create(ctx, b))

	// Editing a vehicle may keep its own code.
	a.Mileage = 100
	require.NoError(t, repo.Update(ctx, a))

	b.VehicleID = "TRK-101"
	assert.ErrorIs(t, repo.Update(ctx, b), xerrors.ErrDuplicateEntry)

	exists, err := repo.ExistsByVehicleID(ctx, "TRK-101", a.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	found, err := repo.FindByVehicleID(ctx, "TRK-101")
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)
	assert.Equal(t, int64(100), found.Mileage)
}

func TestInspectionRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewInspectionRepository()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	older := &inspection.Session{VehicleRef: "TRK-101", CreatedAt: now.Add(-time.Hour), Checklist: inspection.NewChecklist([]string{"Brakes"})}
	first := &inspection.Session{VehicleRef: "TRK-102", CreatedAt: now}
	second := &inspection.Session{VehicleRef: "TRK-103", CreatedAt: now}

	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"TRK-103", "TRK-102", "TRK-101"},
		[]string{list[0].VehicleRef, list[1].VehicleRef, list[2].VehicleRef})

	// Stored checklists are isolated from the caller's slice.
	older.Checklist[0].Status = inspection.ItemNotOK
	got, err := repo.FindByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, inspection.ItemPending, got.Checklist[0].Status)
}

func TestAccountRepository_EmailIgnoresCase(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	require.NoError(t, repo.Create(ctx, &auth.Account{Email: "manager@ptieasy.com", Role: auth.RoleManager}))
	assert.ErrorIs(t, repo.Create(ctx, &auth.Account{Email: "MANAGER@ptieasy.com"}), xerrors.ErrDuplicateEntry)

	a, err := repo.FindByEmail(ctx, "Manager@PTIeasy.com")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleManager, a.Role)

	_, err = repo.FindByEmail(ctx, "nobody@ptieasy.com")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestSeedFleet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f := Fleet{
		Employees: NewEmployeeRepository(),
		Vehicles:  NewVehicleRepository(),
		Sessions:  NewInspectionRepository(),
	}

	require.NoError(t, SeedFleet(ctx, f, inspection.DefaultChecklist, now))

	drivers, err := f.Employees.CountByRole(ctx, employee.RoleDriver)
	require.NoError(t, err)
	assert.Equal(t, 3, drivers)

	active, err := f.Vehicles.CountByStatus(ctx, vehicle.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, 3, active)

	sessions, err := f.Sessions.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 4)

	byVehicle := map[string]inspection.Session{}
	for _, s := range sessions {
		byVehicle[s.VehicleRef] = s
	}
	assert.Equal(t, 2, byVehicle["VAN-205"].IssueCount)
	assert.Equal(t, 0, byVehicle["TRK-101"].IssueCount)
	overdue := byVehicle["TRK-107"]
	assert.Equal(t, inspection.StatusOverdue, inspection.DeriveStatus(&overdue, now))
	pending := byVehicle["TRK-103"]
	assert.Equal(t, inspection.StatusPending, inspection.DeriveStatus(&pending, now))
}
