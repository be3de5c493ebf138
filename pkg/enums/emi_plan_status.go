package enums

import "fmt"

// EmiPlanStatus is the derived completion state of an EMI plan. It is
// recomputed from the installment list on every payment and never set
// independently.
type EmiPlanStatus string

const (
	EmiPlanStatusPending   EmiPlanStatus = "pending"
	EmiPlanStatusCompleted EmiPlanStatus = "completed"
)

var validEmiPlanStatuses = []EmiPlanStatus{
	EmiPlanStatusPending,
	EmiPlanStatusCompleted,
}

// String implements fmt.Stringer.
func (e EmiPlanStatus) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EmiPlanStatus.
func (e EmiPlanStatus) IsValid() bool {
	for _, candidate := range validEmiPlanStatuses {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEmiPlanStatus converts raw input into an EmiPlanStatus.
func ParseEmiPlanStatus(value string) (EmiPlanStatus, error) {
	for _, candidate := range validEmiPlanStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid emi plan status %q", value)
}
