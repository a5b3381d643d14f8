package report

import "fmt"

// FindingsError signals that validation completed but produced
// findings. It maps to the validation-failure exit status.
type FindingsError struct {
	Count int
}

// Error implements the error interface
func (e *FindingsError) Error() string {
	return fmt.Sprintf("validation failed with %d finding(s)", e.Count)
}

// FatalError signals that the run aborted before validation could
// complete. It maps to the fatal exit status.
type FatalError struct {
	Finding Finding
}

// Error implements the error interface
func (e *FatalError) Error() string {
	return e.Finding.String()
}
