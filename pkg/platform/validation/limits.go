package validation

import dErrors "healthbridge/pkg/domain-errors"

const (
	// MaxBodySize is the maximum accepted request body (64 KB).
	MaxBodySize = 64 * 1024

	// MaxReasonLength bounds the free-text justification of an emergency grant.
	MaxReasonLength = 500

	// MaxIdentifierLength bounds patient/doctor/hospital external identifiers.
	MaxIdentifierLength = 32
)

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.Newf(dErrors.CodeValidation, "%s exceeds max length of %d", fieldName, max)
	}
	return nil
}
