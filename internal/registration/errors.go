// Package registration assembles and validates complete registration
// aggregates from raw form submissions, embedding the authoritative
// pricing snapshot on success.
package registration

import (
	"fmt"
	"strings"

	"github.com/William2897/aoy-registration-form/internal/pricing"
)

// FieldError is one field-keyed validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the full set of failures for a submission. It is a
// caller error, never a system fault.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Field + ": " + e.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// eligibilityMessage explains why a category cannot be selected and lists
// the valid alternatives for the person's age.
func eligibilityMessage(c pricing.Category, age int, alternatives []pricing.Category) string {
	names := make([]string, len(alternatives))
	for i, a := range alternatives {
		names[i] = string(a)
	}
	return fmt.Sprintf("category %q is not valid for age %d; valid categories: %s",
		c, age, strings.Join(names, ", "))
}
