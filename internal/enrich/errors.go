// internal/enrich/errors.go
package enrich

import (
	"errors"
	"fmt"
)

// Classification buckets every lookup failure into one of four stable
// categories. Exactly one classification attaches to each failure.
type Classification string

const (
	// ClassAPIError covers transport and provider failures.
	ClassAPIError Classification = "api_error"

	// ClassJSONDecodeError covers responses that are not valid JSON.
	ClassJSONDecodeError Classification = "json_decode_error"

	// ClassBusinessNotFound covers well-formed "not found" responses.
	ClassBusinessNotFound Classification = "business_not_found"

	// ClassMissingFields covers responses (or inputs) lacking required fields.
	ClassMissingFields Classification = "missing_fields"
)

// String returns the classification as its wire value.
func (c Classification) String() string {
	return string(c)
}

// LookupError is a classified enrichment failure.
type LookupError struct {
	Class Classification
	Err   error
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %v", e.Class, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LookupError) Unwrap() error {
	return e.Err
}

// newLookupError wraps err with a classification.
func newLookupError(class Classification, err error) *LookupError {
	return &LookupError{Class: class, Err: err}
}

// Classify returns the classification for err. Unclassified errors
// (including context cancellation during the call) count as api_error.
func Classify(err error) Classification {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Class
	}
	return ClassAPIError
}
