package schedule

import (
	"time"

	"github.com/stitchsync/stitchsync-backend/pkg/enums"
)

// Off-peak hour for daily and weekly cadences.
const quietHour = 3

// ComputeNextRun returns the next fire time for a cadence, relative to from.
// Hourly jobs fire at the top of the next hour. Daily jobs fire the next day
// at the quiet hour. Weekly jobs fire on Sunday at the quiet hour, which can
// be the same day when from is a Sunday before that hour.
func ComputeNextRun(kind enums.ScheduleKind, from time.Time) time.Time {
	switch kind {
	case enums.ScheduleKindHourly:
		return from.Truncate(time.Hour).Add(time.Hour)
	case enums.ScheduleKindDaily:
		next := from.AddDate(0, 0, 1)
		return time.Date(next.Year(), next.Month(), next.Day(), quietHour, 0, 0, 0, from.Location())
	case enums.ScheduleKindWeekly:
		daysAhead := (int(time.Sunday) - int(from.Weekday()) + 7) % 7
		if daysAhead == 0 && from.Hour() >= quietHour {
			daysAhead = 7
		}
		next := from.AddDate(0, 0, daysAhead)
		return time.Date(next.Year(), next.Month(), next.Day(), quietHour, 0, 0, 0, from.Location())
	default:
		return from.Truncate(time.Hour).Add(time.Hour)
	}
}
