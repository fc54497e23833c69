package attendance

import "time"

// nightShiftCutoffHour splits the wall-clock day for attendance purposes.
// Punches before 05:00 belong to the previous day's shift, so a night worker
// clocking out at 02:30 lands on the same attendance day as their clock-in.
const nightShiftCutoffHour = 5

// LogicalDate maps a punch timestamp to the attendance day it belongs to.
// The result is a day marker: midnight UTC with no time component, regardless
// of the punch's own zone.
func LogicalDate(t time.Time) time.Time {
	if t.Hour() < nightShiftCutoffHour {
		t = t.AddDate(0, 0, -1)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey formats a day marker for grouping and JSON output.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
