package abtest

import (
	"errors"
	"fmt"
)

// Validation failure kinds. Match them with errors.Is.
var (
	ErrInvalidSampleSize           = errors.New("sample size must be greater than 0")
	ErrInvalidConversionCount      = errors.New("conversions must not be negative")
	ErrConversionsExceedSampleSize = errors.New("conversions must not exceed sample size")
	ErrInvalidSignificanceLevel    = errors.New("alpha must be strictly between 0 and 1")
	ErrInvalidAlternative          = errors.New("alternative must be one of two-sided, larger, smaller")
)

// Input field names used in ValidationError.Field.
const (
	FieldSampleSizeA  = "sample_size_a"
	FieldConversionsA = "conversions_a"
	FieldSampleSizeB  = "sample_size_b"
	FieldConversionsB = "conversions_b"
	FieldAlpha        = "alpha"
	FieldAlternative  = "alternative"
)

// ValidationError reports the first input field that broke a rule.
type ValidationError struct {
	Field string
	Value any
	Kind  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("abtest: %s: %v, got %v", e.Field, e.Kind, e.Value)
}

// Unwrap exposes Kind so errors.Is(err, ErrInvalidSampleSize) and friends work.
func (e *ValidationError) Unwrap() error { return e.Kind }

// Code returns a stable upper-case identifier for the failure kind, suitable
// for API payloads.
func (e *ValidationError) Code() string {
	return KindCode(e.Kind)
}

// KindCode maps a validation kind to its stable identifier.
func KindCode(kind error) string {
	switch {
	case errors.Is(kind, ErrInvalidSampleSize):
		return "INVALID_SAMPLE_SIZE"
	case errors.Is(kind, ErrInvalidConversionCount):
		return "INVALID_CONVERSION_COUNT"
	case errors.Is(kind, ErrConversionsExceedSampleSize):
		return "CONVERSIONS_EXCEED_SAMPLE_SIZE"
	case errors.Is(kind, ErrInvalidSignificanceLevel):
		return "INVALID_SIGNIFICANCE_LEVEL"
	case errors.Is(kind, ErrInvalidAlternative):
		return "INVALID_ALTERNATIVE"
	default:
		return "INVALID_INPUT"
	}
}
