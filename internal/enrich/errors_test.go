package enrich

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Classification
	}{
		{"api error", newLookupError(ClassAPIError, errors.New("timeout")), ClassAPIError},
		{"json decode", newLookupError(ClassJSONDecodeError, errors.New("bad json")), ClassJSONDecodeError},
		{"not found", newLookupError(ClassBusinessNotFound, errors.New("no such company")), ClassBusinessNotFound},
		{"missing fields", newLookupError(ClassMissingFields, errors.New("no city")), ClassMissingFields},
		{"wrapped", fmt.Errorf("enriching: %w", newLookupError(ClassBusinessNotFound, errors.New("nope"))), ClassBusinessNotFound},
		{"unclassified defaults to api_error", errors.New("connection refused"), ClassAPIError},
		{"nil defaults to api_error", nil, ClassAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestLookupError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := newLookupError(ClassAPIError, cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "api_error")
	assert.Contains(t, err.Error(), "boom")
}

func TestClassification_String(t *testing.T) {
	assert.Equal(t, "api_error", ClassAPIError.String())
	assert.Equal(t, "json_decode_error", ClassJSONDecodeError.String())
	assert.Equal(t, "business_not_found", ClassBusinessNotFound.String())
	assert.Equal(t, "missing_fields", ClassMissingFields.String())
}
