package enums

import "fmt"

// JobRunStatus guards the run state of a scheduled job. Only a job that is not
// currently running may be started; the transition to running is a
// compare-and-swap over this field.
type JobRunStatus string

const (
	JobRunStatusPending JobRunStatus = "pending"
	JobRunStatusRunning JobRunStatus = "running"
	JobRunStatusSuccess JobRunStatus = "success"
	JobRunStatusFailed  JobRunStatus = "failed"
)

var validJobRunStatuses = []JobRunStatus{
	JobRunStatusPending,
	JobRunStatusRunning,
	JobRunStatusSuccess,
	JobRunStatusFailed,
}

// String implements fmt.Stringer.
func (j JobRunStatus) String() string {
	return string(j)
}

// IsValid reports whether the value is a known JobRunStatus.
func (j JobRunStatus) IsValid() bool {
	for _, candidate := range validJobRunStatuses {
		if candidate == j {
			return true
		}
	}
	return false
}

// ParseJobRunStatus converts raw input into a JobRunStatus.
func ParseJobRunStatus(value string) (JobRunStatus, error) {
	for _, candidate := range validJobRunStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job run status %q", value)
}
