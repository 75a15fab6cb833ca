package enums

import "fmt"

// ScheduleKind is the cadence of a scheduled job.
type ScheduleKind string

const (
	ScheduleKindHourly ScheduleKind = "hourly"
	ScheduleKindDaily  ScheduleKind = "daily"
	ScheduleKindWeekly ScheduleKind = "weekly"
)

var validScheduleKinds = []ScheduleKind{
	ScheduleKindHourly,
	ScheduleKindDaily,
	ScheduleKindWeekly,
}

// String implements fmt.Stringer.
func (s ScheduleKind) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ScheduleKind.
func (s ScheduleKind) IsValid() bool {
	for _, candidate := range validScheduleKinds {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseScheduleKind converts raw input into a ScheduleKind.
func ParseScheduleKind(value string) (ScheduleKind, error) {
	for _, candidate := range validScheduleKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid schedule kind %q", value)
}
