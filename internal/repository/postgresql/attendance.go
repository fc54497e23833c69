package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vetanhq/payroll-backend-go/internal/domain/attendance"
	"github.com/vetanhq/payroll-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

// Upsert implements attendance.Repository.
func (a *attendanceRepository) Upsert(ctx context.Context, day attendance.Day) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_days (
			tenant_id, employee_id, date, first_in, last_out, working_hours,
			total_punches, late_arrival, early_departure, status, logs,
			shift_start, shift_end
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (employee_id, date, tenant_id) DO UPDATE SET
			first_in = EXCLUDED.first_in,
			last_out = EXCLUDED.last_out,
			working_hours = EXCLUDED.working_hours,
			total_punches = EXCLUDED.total_punches,
			late_arrival = EXCLUDED.late_arrival,
			early_departure = EXCLUDED.early_departure,
			status = EXCLUDED.status,
			logs = EXCLUDED.logs,
			shift_start = EXCLUDED.shift_start,
			shift_end = EXCLUDED.shift_end,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted
	`

	var id string
	var inserted bool
	err := q.QueryRow(ctx, query,
		day.TenantID,
		day.EmployeeID,
		day.Date,
		day.FirstIn,
		day.LastOut,
		day.WorkingHours,
		day.TotalPunches,
		day.LateArrival,
		day.EarlyDeparture,
		day.Status,
		day.Logs,
		day.ShiftStart,
		day.ShiftEnd,
	).Scan(&id, &inserted)

	if err != nil {
		return false, fmt.Errorf("failed to upsert attendance day: %w", err)
	}

	return inserted, nil
}

// GetByEmployeeAndDate implements attendance.Repository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, tenantID, employeeID string, date time.Time) (attendance.Day, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, tenant_id, employee_id, date, first_in, last_out, working_hours,
			   total_punches, late_arrival, early_departure, status, logs,
			   shift_start, shift_end, created_at, updated_at
		FROM attendance_days
		WHERE tenant_id = $1
		  AND employee_id = $2
		  AND date = $3
		LIMIT 1
	`

	var day attendance.Day
	err := q.QueryRow(ctx, query, tenantID, employeeID, date).Scan(
		&day.ID, &day.TenantID, &day.EmployeeID, &day.Date, &day.FirstIn, &day.LastOut, &day.WorkingHours,
		&day.TotalPunches, &day.LateArrival, &day.EarlyDeparture, &day.Status, &day.Logs,
		&day.ShiftStart, &day.ShiftEnd, &day.CreatedAt, &day.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Day{}, attendance.ErrDayNotFound
		}
		return attendance.Day{}, fmt.Errorf("failed to get attendance day: %w", err)
	}

	return day, nil
}

// ListByEmployeeRange implements attendance.Repository.
func (a *attendanceRepository) ListByEmployeeRange(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]attendance.Day, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, tenant_id, employee_id, date, first_in, last_out, working_hours,
			   total_punches, late_arrival, early_departure, status, logs,
			   shift_start, shift_end, created_at, updated_at
		FROM attendance_days
		WHERE tenant_id = $1
		  AND employee_id = $2
		  AND date >= $3
		  AND date <= $4
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, tenantID, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance days: %w", err)
	}
	defer rows.Close()

	var days []attendance.Day
	for rows.Next() {
		var day attendance.Day
		err := rows.Scan(
			&day.ID, &day.TenantID, &day.EmployeeID, &day.Date, &day.FirstIn, &day.LastOut, &day.WorkingHours,
			&day.TotalPunches, &day.LateArrival, &day.EarlyDeparture, &day.Status, &day.Logs,
			&day.ShiftStart, &day.ShiftEnd, &day.CreatedAt, &day.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance day: %w", err)
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance days: %w", err)
	}

	return days, nil
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}
