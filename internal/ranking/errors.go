package ranking

import "fmt"

// ValidationError is returned when a candidate or criteria value cannot be scored at all.
// Callers must not display a score for the record.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}
