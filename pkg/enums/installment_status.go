package enums

import "fmt"

// InstallmentStatus tracks whether a single EMI installment has been settled.
type InstallmentStatus string

const (
	InstallmentStatusUnpaid InstallmentStatus = "unpaid"
	InstallmentStatusPaid   InstallmentStatus = "paid"
)

var validInstallmentStatuses = []InstallmentStatus{
	InstallmentStatusUnpaid,
	InstallmentStatusPaid,
}

// String implements fmt.Stringer.
func (i InstallmentStatus) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InstallmentStatus.
func (i InstallmentStatus) IsValid() bool {
	for _, candidate := range validInstallmentStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInstallmentStatus converts raw input into an InstallmentStatus.
func ParseInstallmentStatus(value string) (InstallmentStatus, error) {
	for _, candidate := range validInstallmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid installment status %q", value)
}
