package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/vetanhq/payroll-backend-go/internal/domain/attendance"
	"github.com/vetanhq/payroll-backend-go/internal/domain/employee"
	"github.com/vetanhq/payroll-backend-go/internal/domain/punch"
)

// Aggregation widens the requested date range when reading raw punches so
// shifts spilling over midnight are captured whole: a punch at 01:30 belongs
// to the previous logical day, a clock-out the next morning to this one.
const (
	windowBefore = 12 * time.Hour
	windowAfter  = 36 * time.Hour

	// A single punch cannot bound a shift; under this many worked hours the
	// day counts as half.
	halfDayThresholdHours = 4.0
)

type Service interface {
	// Aggregate derives attendance days from a batch of raw punches. Punches
	// whose identifier cannot be resolved to an employee are skipped.
	Aggregate(ctx context.Context, tenantID string, punches []punch.Raw) ([]attendance.Day, error)

	// ReprocessRange rebuilds attendance days from raw punches for every day
	// in the request's date range. Safe to run repeatedly; days are upserted.
	ReprocessRange(ctx context.Context, tenantID string, req attendance.ReprocessRequest) (attendance.ReprocessStatsResponse, error)

	// SyncRealtime folds one live punch into the employee's attendance day.
	SyncRealtime(ctx context.Context, tenantID string, req attendance.SyncRequest) (attendance.DayResponse, error)

	// ListDays returns the employee's attendance days in [from, to].
	ListDays(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]attendance.DayResponse, error)

	// InvalidateCache drops cached identity resolutions for the tenant.
	InvalidateCache(tenantID string)
}

type ServiceImpl struct {
	attendanceRepo attendance.Repository
	punchRepo      punch.Repository
	employeeRepo   employee.Repository
	cache          *IdentityCache
	logger         *slog.Logger
}

func NewAttendanceService(
	attendanceRepo attendance.Repository,
	punchRepo punch.Repository,
	employeeRepo employee.Repository,
	cache *IdentityCache,
	logger *slog.Logger,
) Service {
	return &ServiceImpl{
		attendanceRepo: attendanceRepo,
		punchRepo:      punchRepo,
		employeeRepo:   employeeRepo,
		cache:          cache,
		logger:         logger,
	}
}

// Aggregate implements Service.
func (s *ServiceImpl) Aggregate(ctx context.Context, tenantID string, punches []punch.Raw) ([]attendance.Day, error) {
	days, _, err := s.aggregate(ctx, tenantID, punches, nil, time.Time{}, time.Time{})
	return days, err
}

// aggregate groups punches by resolved employee and logical day and derives
// one attendance day per group. The second return value holds the source
// punch IDs behind each day, index-aligned with the days. A non-zero
// start/end narrows the derived days to that date range; employeeID narrows
// to one employee. Punches with an unresolvable identifier are skipped, not
// failed.
func (s *ServiceImpl) aggregate(ctx context.Context, tenantID string, punches []punch.Raw, employeeID *string, start, end time.Time) ([]attendance.Day, [][]string, error) {
	type dayGroup struct {
		employeeID string
		date       time.Time
		times      []time.Time
		punchIDs   []string
	}
	groups := make(map[string]*dayGroup)
	var order []string
	unresolved := make(map[string]struct{})

	for _, p := range punches {
		emp, err := s.resolveEmployee(ctx, tenantID, p.DeviceUserID)
		if err != nil {
			if !errors.Is(err, employee.ErrEmployeeNotFound) {
				return nil, nil, err
			}
			if _, seen := unresolved[p.DeviceUserID]; !seen {
				unresolved[p.DeviceUserID] = struct{}{}
				s.logger.Debug("unresolved device identifier, punches skipped",
					slog.String("tenant_id", tenantID),
					slog.String("device_user_id", p.DeviceUserID))
			}
			continue
		}
		if employeeID != nil && emp.ID != *employeeID {
			continue
		}

		date := LogicalDate(p.PunchTime)
		if !start.IsZero() && (date.Before(start) || date.After(end)) {
			continue
		}

		key := emp.ID + "/" + DayKey(date)
		g, ok := groups[key]
		if !ok {
			g = &dayGroup{employeeID: emp.ID, date: date}
			groups[key] = g
			order = append(order, key)
		}
		g.times = append(g.times, p.PunchTime)
		g.punchIDs = append(g.punchIDs, p.ID)
	}

	days := make([]attendance.Day, 0, len(order))
	punchIDs := make([][]string, 0, len(order))
	for _, key := range order {
		g := groups[key]
		days = append(days, buildDay(tenantID, g.employeeID, g.date, g.times))
		punchIDs = append(punchIDs, g.punchIDs)
	}
	return days, punchIDs, nil
}

// ReprocessRange implements Service.
func (s *ServiceImpl) ReprocessRange(ctx context.Context, tenantID string, req attendance.ReprocessRequest) (attendance.ReprocessStatsResponse, error) {
	var stats attendance.ReprocessStatsResponse

	if err := req.Validate(); err != nil {
		return stats, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	var deviceFilter []string
	if req.EmployeeID != nil {
		emp, err := s.employeeRepo.GetByID(ctx, tenantID, *req.EmployeeID)
		if err != nil {
			return stats, fmt.Errorf("failed to load employee for reprocess filter: %w", err)
		}
		deviceFilter = employeeIdentifiers(emp)
	}

	punches, err := s.punchRepo.ListWindow(ctx, tenantID, start.Add(-windowBefore), end.Add(windowAfter), deviceFilter)
	if err != nil {
		return stats, err
	}

	days, punchIDs, err := s.aggregate(ctx, tenantID, punches, req.EmployeeID, start, end)
	if err != nil {
		return stats, err
	}

	// Punches behind a failed upsert stay unprocessed so a later run picks
	// them up again.
	var consumedIDs []string
	for i, day := range days {
		created, err := s.attendanceRepo.Upsert(ctx, day)
		if err != nil {
			stats.Errors++
			s.logger.Error("failed to upsert attendance day",
				slog.String("employee_id", day.EmployeeID),
				slog.String("date", DayKey(day.Date)),
				slog.Any("error", err))
			continue
		}

		consumedIDs = append(consumedIDs, punchIDs[i]...)
		stats.Processed++
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}

	if err := s.punchRepo.MarkProcessed(ctx, tenantID, consumedIDs); err != nil {
		return stats, fmt.Errorf("failed to mark punches processed: %w", err)
	}

	return stats, nil
}

// SyncRealtime implements Service.
func (s *ServiceImpl) SyncRealtime(ctx context.Context, tenantID string, req attendance.SyncRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}
	punchTime, _ := time.Parse(time.RFC3339, req.PunchTime)

	emp, err := s.resolveEmployee(ctx, tenantID, req.DeviceUserID)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	date := LogicalDate(punchTime)

	times := []time.Time{punchTime}
	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, tenantID, emp.ID, date)
	if err != nil && !errors.Is(err, attendance.ErrDayNotFound) {
		return attendance.DayResponse{}, err
	}
	if err == nil {
		times = append(times, parseLogs(existing.Logs)...)
	}

	day := buildDay(tenantID, emp.ID, date, times)
	if _, err := s.attendanceRepo.Upsert(ctx, day); err != nil {
		return attendance.DayResponse{}, err
	}

	return toDayResponse(day), nil
}

// ListDays implements Service.
func (s *ServiceImpl) ListDays(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]attendance.DayResponse, error) {
	days, err := s.attendanceRepo.ListByEmployeeRange(ctx, tenantID, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.DayResponse, 0, len(days))
	for _, day := range days {
		responses = append(responses, toDayResponse(day))
	}
	return responses, nil
}

// InvalidateCache implements Service.
func (s *ServiceImpl) InvalidateCache(tenantID string) {
	s.cache.Invalidate(tenantID)
}

func (s *ServiceImpl) resolveEmployee(ctx context.Context, tenantID, deviceUserID string) (employee.Employee, error) {
	if emp, ok := s.cache.Get(tenantID, deviceUserID); ok {
		return emp, nil
	}

	emp, err := s.employeeRepo.FindByIdentifier(ctx, tenantID, IdentifierCandidates(deviceUserID))
	if err != nil {
		return employee.Employee{}, err
	}

	s.cache.Put(tenantID, deviceUserID, emp)
	return emp, nil
}

func employeeIdentifiers(emp employee.Employee) []string {
	ids := []string{emp.EmployeeCode}
	if emp.DeviceUserID != nil {
		ids = append(ids, *emp.DeviceUserID)
	}
	if emp.SourceEmployeeID != nil {
		ids = append(ids, *emp.SourceEmployeeID)
	}
	return ids
}

// buildDay derives one attendance day from its punch timestamps. Duplicate
// timestamps collapse; a single punch cannot prove a completed shift.
func buildDay(tenantID, employeeID string, date time.Time, times []time.Time) attendance.Day {
	times = dedupeTimes(times)
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	firstIn := times[0]
	day := attendance.Day{
		TenantID:     tenantID,
		EmployeeID:   employeeID,
		Date:         date,
		FirstIn:      &firstIn,
		TotalPunches: len(times),
		Logs:         formatLogs(times),
	}

	if len(times) == 1 {
		day.Status = attendance.StatusShiftIncomplete
		return day
	}

	lastOut := times[len(times)-1]
	day.LastOut = &lastOut
	day.WorkingHours = math.Round(lastOut.Sub(firstIn).Hours()*100) / 100

	if day.WorkingHours < halfDayThresholdHours {
		day.Status = attendance.StatusHalfDay
	} else {
		day.Status = attendance.StatusPresent
	}

	return day
}

func dedupeTimes(times []time.Time) []time.Time {
	seen := make(map[int64]struct{}, len(times))
	out := times[:0]
	for _, t := range times {
		key := t.Unix()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

func formatLogs(times []time.Time) string {
	stamps := make([]string, len(times))
	for i, t := range times {
		stamps[i] = t.Format(time.RFC3339)
	}
	b, _ := json.Marshal(stamps)
	return string(b)
}

func parseLogs(logs string) []time.Time {
	var stamps []string
	if err := json.Unmarshal([]byte(logs), &stamps); err != nil {
		return nil
	}
	times := make([]time.Time, 0, len(stamps))
	for _, s := range stamps {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			continue
		}
		times = append(times, t)
	}
	return times
}

func toDayResponse(day attendance.Day) attendance.DayResponse {
	resp := attendance.DayResponse{
		EmployeeID:     day.EmployeeID,
		Date:           DayKey(day.Date),
		WorkingHours:   day.WorkingHours,
		TotalPunches:   day.TotalPunches,
		LateArrival:    day.LateArrival,
		EarlyDeparture: day.EarlyDeparture,
		Status:         string(day.Status),
	}
	if day.FirstIn != nil {
		v := day.FirstIn.Format(time.RFC3339)
		resp.FirstIn = &v
	}
	if day.LastOut != nil {
		v := day.LastOut.Format(time.RFC3339)
		resp.LastOut = &v
	}
	resp.Punches = nil
	if stamps := parseLogs(day.Logs); len(stamps) > 0 {
		for _, t := range stamps {
			resp.Punches = append(resp.Punches, t.Format(time.RFC3339))
		}
	}
	return resp
}
