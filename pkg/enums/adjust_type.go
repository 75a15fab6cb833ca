package enums

import "fmt"

// AdjustType is the transform applied by a bulk price adjustment.
type AdjustType string

const (
	AdjustTypePercentIncrease AdjustType = "percent_increase"
	AdjustTypePercentDecrease AdjustType = "percent_decrease"
	AdjustTypeFixedIncrease   AdjustType = "fixed_increase"
	AdjustTypeFixedDecrease   AdjustType = "fixed_decrease"
	AdjustTypeMultiplier      AdjustType = "multiplier"
	AdjustTypeSetFixed        AdjustType = "set_fixed"
)

var validAdjustTypes = []AdjustType{
	AdjustTypePercentIncrease,
	AdjustTypePercentDecrease,
	AdjustTypeFixedIncrease,
	AdjustTypeFixedDecrease,
	AdjustTypeMultiplier,
	AdjustTypeSetFixed,
}

// String implements fmt.Stringer.
func (a AdjustType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdjustType.
func (a AdjustType) IsValid() bool {
	for _, candidate := range validAdjustTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdjustType converts raw input into an AdjustType.
func ParseAdjustType(value string) (AdjustType, error) {
	for _, candidate := range validAdjustTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid adjust type %q", value)
}
