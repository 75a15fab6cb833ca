package enums

import "fmt"

// JobType enumerates the scheduled job kinds the worker knows how to run.
type JobType string

const (
	JobTypeCatalogSync   JobType = "catalog_sync"
	JobTypeInventorySync JobType = "inventory_sync"
	JobTypePriceUpdate   JobType = "price_update"
	JobTypeOrderStatus   JobType = "order_status"
	JobTypeCleanup       JobType = "cleanup"
)

var validJobTypes = []JobType{
	JobTypeCatalogSync,
	JobTypeInventorySync,
	JobTypePriceUpdate,
	JobTypeOrderStatus,
	JobTypeCleanup,
}

// String implements fmt.Stringer.
func (j JobType) String() string {
	return string(j)
}

// IsValid reports whether the value is a known JobType.
func (j JobType) IsValid() bool {
	for _, candidate := range validJobTypes {
		if candidate == j {
			return true
		}
	}
	return false
}

// ParseJobType converts raw input into a JobType.
func ParseJobType(value string) (JobType, error) {
	for _, candidate := range validJobTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job type %q", value)
}
