package enums

import "fmt"

// OrderJobStatus tracks the lifecycle of a relayed supplier order.
type OrderJobStatus string

const (
	OrderJobStatusPendingApproval OrderJobStatus = "pending_approval"
	OrderJobStatusSubmitted       OrderJobStatus = "submitted"
	OrderJobStatusShipped         OrderJobStatus = "shipped"
	OrderJobStatusDelivered       OrderJobStatus = "delivered"
	OrderJobStatusError           OrderJobStatus = "error"
)

var validOrderJobStatuses = []OrderJobStatus{
	OrderJobStatusPendingApproval,
	OrderJobStatusSubmitted,
	OrderJobStatusShipped,
	OrderJobStatusDelivered,
	OrderJobStatusError,
}

// String implements fmt.Stringer.
func (o OrderJobStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderJobStatus.
func (o OrderJobStatus) IsValid() bool {
	for _, candidate := range validOrderJobStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the job lifecycle.
func (o OrderJobStatus) IsTerminal() bool {
	return o == OrderJobStatusDelivered
}

// ParseOrderJobStatus converts raw input into an OrderJobStatus.
func ParseOrderJobStatus(value string) (OrderJobStatus, error) {
	for _, candidate := range validOrderJobStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order job status %q", value)
}
