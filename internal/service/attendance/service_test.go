package attendance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetanhq/payroll-backend-go/internal/domain/attendance"
	"github.com/vetanhq/payroll-backend-go/internal/domain/employee"
	"github.com/vetanhq/payroll-backend-go/internal/domain/punch"
)

type fakeAttendanceRepo struct {
	days      map[string]attendance.Day
	failDates map[string]error
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		days:      make(map[string]attendance.Day),
		failDates: make(map[string]error),
	}
}

func dayMapKey(tenantID, employeeID string, date time.Time) string {
	return tenantID + "/" + employeeID + "/" + DayKey(date)
}

func (f *fakeAttendanceRepo) Upsert(_ context.Context, day attendance.Day) (bool, error) {
	if err, ok := f.failDates[DayKey(day.Date)]; ok {
		return false, err
	}
	key := dayMapKey(day.TenantID, day.EmployeeID, day.Date)
	_, exists := f.days[key]
	f.days[key] = day
	return !exists, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, tenantID, employeeID string, date time.Time) (attendance.Day, error) {
	day, ok := f.days[dayMapKey(tenantID, employeeID, date)]
	if !ok {
		return attendance.Day{}, attendance.ErrDayNotFound
	}
	return day, nil
}

func (f *fakeAttendanceRepo) ListByEmployeeRange(_ context.Context, tenantID, employeeID string, from, to time.Time) ([]attendance.Day, error) {
	var days []attendance.Day
	for _, day := range f.days {
		if day.TenantID == tenantID && day.EmployeeID == employeeID && !day.Date.Before(from) && !day.Date.After(to) {
			days = append(days, day)
		}
	}
	return days, nil
}

type fakePunchRepo struct {
	punches   []punch.Raw
	processed []string
}

func (f *fakePunchRepo) ListWindow(_ context.Context, tenantID string, from, to time.Time, deviceUserIDs []string) ([]punch.Raw, error) {
	filter := make(map[string]struct{}, len(deviceUserIDs))
	for _, id := range deviceUserIDs {
		filter[id] = struct{}{}
	}

	var out []punch.Raw
	for _, p := range f.punches {
		if p.TenantID != tenantID || p.PunchTime.Before(from) || p.PunchTime.After(to) {
			continue
		}
		if len(filter) > 0 {
			if _, ok := filter[p.DeviceUserID]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePunchRepo) MarkProcessed(_ context.Context, _ string, ids []string) error {
	f.processed = append(f.processed, ids...)
	return nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
	lookups   int
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, tenantID, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.TenantID == tenantID && e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) FindByIdentifier(_ context.Context, tenantID string, candidates []string) (employee.Employee, error) {
	f.lookups++
	for _, e := range f.employees {
		if e.TenantID != tenantID || !e.IsActive {
			continue
		}
		for _, c := range candidates {
			if e.EmployeeCode == c ||
				(e.DeviceUserID != nil && *e.DeviceUserID == c) ||
				(e.SourceEmployeeID != nil && *e.SourceEmployeeID == c) {
				return e, nil
			}
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListActive(_ context.Context, tenantID string, _ []string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.TenantID == tenantID && e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) GetLocation(_ context.Context, _, _ string) (employee.Location, error) {
	return employee.Location{}, employee.ErrLocationNotFound
}

func (f *fakeEmployeeRepo) GetBranch(_ context.Context, _, _ string) (employee.Branch, error) {
	return employee.Branch{}, employee.ErrBranchNotFound
}

func strPtr(s string) *string { return &s }

func newTestService(punches []punch.Raw, employees []employee.Employee) (Service, *fakeAttendanceRepo, *fakePunchRepo, *fakeEmployeeRepo) {
	attRepo := newFakeAttendanceRepo()
	punchRepo := &fakePunchRepo{punches: punches}
	empRepo := &fakeEmployeeRepo{employees: employees}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewAttendanceService(attRepo, punchRepo, empRepo, NewIdentityCache(), logger)
	return svc, attRepo, punchRepo, empRepo
}

func testEmployee() employee.Employee {
	return employee.Employee{
		ID:           "emp-1",
		TenantID:     "t1",
		EmployeeCode: "HO017",
		DeviceUserID: strPtr("17"),
		IsActive:     true,
	}
}

func TestReprocessRangeBuildsDays(t *testing.T) {
	punches := []punch.Raw{
		{ID: "p1", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{ID: "p2", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)},
		{ID: "p3", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)},
	}
	svc, attRepo, punchRepo, _ := newTestService(punches, []employee.Employee{testEmployee()})

	stats, err := svc.ReprocessRange(context.Background(), "t1", attendance.ReprocessRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-11",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 2, stats.Created)
	assert.Equal(t, 0, stats.Updated)
	assert.Equal(t, 0, stats.Errors)

	full, err := attRepo.GetByEmployeeAndDate(context.Background(), "t1", "emp-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, full.Status)
	assert.Equal(t, 9.0, full.WorkingHours)
	assert.Equal(t, 2, full.TotalPunches)
	require.NotNil(t, full.FirstIn)
	require.NotNil(t, full.LastOut)

	single, err := attRepo.GetByEmployeeAndDate(context.Background(), "t1", "emp-1", time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusShiftIncomplete, single.Status)
	assert.Nil(t, single.LastOut)
	assert.Equal(t, 0.0, single.WorkingHours)

	assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, punchRepo.processed)
}

func TestReprocessRangeNightShift(t *testing.T) {
	// Clock-in 21:00, clock-out 02:00 next morning: one day, five hours.
	punches := []punch.Raw{
		{ID: "p1", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)},
		{ID: "p2", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 11, 2, 0, 0, 0, time.UTC)},
	}
	svc, attRepo, _, _ := newTestService(punches, []employee.Employee{testEmployee()})

	stats, err := svc.ReprocessRange(context.Background(), "t1", attendance.ReprocessRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-10",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)

	day, err := attRepo.GetByEmployeeAndDate(context.Background(), "t1", "emp-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, day.Status)
	assert.Equal(t, 5.0, day.WorkingHours)
}

func TestReprocessRangeHalfDay(t *testing.T) {
	punches := []punch.Raw{
		{ID: "p1", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{ID: "p2", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)},
	}
	svc, attRepo, _, _ := newTestService(punches, []employee.Employee{testEmployee()})

	_, err := svc.ReprocessRange(context.Background(), "t1", attendance.ReprocessRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-10",
	})
	require.NoError(t, err)

	day, err := attRepo.GetByEmployeeAndDate(context.Background(), "t1", "emp-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHalfDay, day.Status)
	assert.Equal(t, 3.0, day.WorkingHours)
}

func TestReprocessRangeIsIdempotent(t *testing.T) {
	punches := []punch.Raw{
		{ID: "p1", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{ID: "p2", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)},
	}
	svc, attRepo, _, _ := newTestService(punches, []employee.Employee{testEmployee()})
	req := attendance.ReprocessRequest{StartDate: "2025-03-10", EndDate: "2025-03-10"}

	first, err := svc.ReprocessRange(context.Background(), "t1", req)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := svc.ReprocessRange(context.Background(), "t1", req)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Updated)

	// Still exactly one row with the same derived values.
	assert.Len(t, attRepo.days, 1)
	day, err := attRepo.GetByEmployeeAndDate(context.Background(), "t1", "emp-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, day.Status)
	assert.Equal(t, 9.0, day.WorkingHours)
}

func TestReprocessRangeUnresolvedIdentifier(t *testing.T) {
	punches := []punch.Raw{
		{ID: "p1", TenantID: "t1", DeviceUserID: "999999", PunchTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{ID: "p2", TenantID: "t1", DeviceUserID: "999999", PunchTime: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)},
	}
	svc, attRepo, punchRepo, _ := newTestService(punches, []employee.Employee{testEmployee()})

	stats, err := svc.ReprocessRange(context.Background(), "t1", attendance.ReprocessRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-10",
	})
	require.NoError(t, err)

	// Unknown identifiers are skipped, not counted as errors; nothing marked.
	assert.Equal(t, 0, stats.Errors)
	assert.Equal(t, 0, stats.Processed)
	assert.Empty(t, attRepo.days)
	assert.Empty(t, punchRepo.processed)
}

func TestReprocessRangeKeepsFailedDaysUnprocessed(t *testing.T) {
	punches := []punch.Raw{
		{ID: "p1", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{ID: "p2", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)},
		{ID: "p3", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)},
		{ID: "p4", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 11, 18, 0, 0, 0, time.UTC)},
	}
	svc, attRepo, punchRepo, _ := newTestService(punches, []employee.Employee{testEmployee()})
	attRepo.failDates["2025-03-11"] = errors.New("deadlock detected")

	stats, err := svc.ReprocessRange(context.Background(), "t1", attendance.ReprocessRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-11",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 1, stats.Errors)

	// Only the stored day's punches are marked; the failed day's stay
	// unprocessed for the next run.
	assert.ElementsMatch(t, []string{"p1", "p2"}, punchRepo.processed)
}

func TestAggregate(t *testing.T) {
	punches := []punch.Raw{
		{ID: "p1", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{ID: "p2", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)},
		{ID: "p3", TenantID: "t1", DeviceUserID: "999999", PunchTime: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)},
	}
	svc, _, _, _ := newTestService(nil, []employee.Employee{testEmployee()})

	days, err := svc.Aggregate(context.Background(), "t1", punches)
	require.NoError(t, err)

	require.Len(t, days, 1)
	assert.Equal(t, "emp-1", days[0].EmployeeID)
	assert.Equal(t, attendance.StatusPresent, days[0].Status)
	assert.Equal(t, 9.0, days[0].WorkingHours)
}

func TestReprocessRangeUsesIdentityCache(t *testing.T) {
	punches := []punch.Raw{
		{ID: "p1", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{ID: "p2", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)},
		{ID: "p3", TenantID: "t1", DeviceUserID: "17", PunchTime: time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)},
	}
	svc, _, _, empRepo := newTestService(punches, []employee.Employee{testEmployee()})

	_, err := svc.ReprocessRange(context.Background(), "t1", attendance.ReprocessRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-11",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, empRepo.lookups)

	// After invalidation the next run resolves again.
	svc.InvalidateCache("t1")
	_, err = svc.ReprocessRange(context.Background(), "t1", attendance.ReprocessRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-11",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, empRepo.lookups)
}

func TestReprocessRangeValidation(t *testing.T) {
	svc, _, _, _ := newTestService(nil, nil)

	_, err := svc.ReprocessRange(context.Background(), "t1", attendance.ReprocessRequest{
		StartDate: "2025-03-15",
		EndDate:   "2025-03-10",
	})
	assert.Error(t, err)
}

func TestSyncRealtimeMergesPunches(t *testing.T) {
	svc, attRepo, _, _ := newTestService(nil, []employee.Employee{testEmployee()})

	first, err := svc.SyncRealtime(context.Background(), "t1", attendance.SyncRequest{
		DeviceUserID: "17",
		PunchTime:    "2025-03-10T09:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusShiftIncomplete), first.Status)
	assert.Equal(t, 1, first.TotalPunches)

	second, err := svc.SyncRealtime(context.Background(), "t1", attendance.SyncRequest{
		DeviceUserID: "17",
		PunchTime:    "2025-03-10T18:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusPresent), second.Status)
	assert.Equal(t, 2, second.TotalPunches)
	assert.Equal(t, 9.0, second.WorkingHours)

	assert.Len(t, attRepo.days, 1)
}

func TestSyncRealtimeDuplicatePunchCollapses(t *testing.T) {
	svc, _, _, _ := newTestService(nil, []employee.Employee{testEmployee()})

	req := attendance.SyncRequest{DeviceUserID: "17", PunchTime: "2025-03-10T09:00:00Z"}
	_, err := svc.SyncRealtime(context.Background(), "t1", req)
	require.NoError(t, err)

	resp, err := svc.SyncRealtime(context.Background(), "t1", req)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalPunches)
	assert.Equal(t, string(attendance.StatusShiftIncomplete), resp.Status)
}

func TestSyncRealtimeUnknownDevice(t *testing.T) {
	svc, _, _, _ := newTestService(nil, []employee.Employee{testEmployee()})

	_, err := svc.SyncRealtime(context.Background(), "t1", attendance.SyncRequest{
		DeviceUserID: "999999",
		PunchTime:    "2025-03-10T09:00:00Z",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
