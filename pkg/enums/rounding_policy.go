package enums

import "fmt"

// RoundingPolicy is applied after a bulk price transform.
type RoundingPolicy string

const (
	RoundingPolicyNone       RoundingPolicy = "none"
	RoundingPolicyNinetyNine RoundingPolicy = ".99"
	RoundingPolicyNinetyFive RoundingPolicy = ".95"
	RoundingPolicyNearest    RoundingPolicy = "nearest"
	RoundingPolicyUp         RoundingPolicy = "up"
)

var validRoundingPolicies = []RoundingPolicy{
	RoundingPolicyNone,
	RoundingPolicyNinetyNine,
	RoundingPolicyNinetyFive,
	RoundingPolicyNearest,
	RoundingPolicyUp,
}

// String implements fmt.Stringer.
func (r RoundingPolicy) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RoundingPolicy.
func (r RoundingPolicy) IsValid() bool {
	for _, candidate := range validRoundingPolicies {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRoundingPolicy converts raw input into a RoundingPolicy.
func ParseRoundingPolicy(value string) (RoundingPolicy, error) {
	if value == "" {
		return RoundingPolicyNone, nil
	}
	for _, candidate := range validRoundingPolicies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rounding policy %q", value)
}
