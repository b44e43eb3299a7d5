package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrMalformedRow  = errors.New("malformed dataset row")
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptyDataset  = errors.New("dataset contains no usable rows")
	ErrNotFound      = errors.New("record not found")

	// ErrMissingThreshold is the invalid-input case where a filter needs a
	// bound it was not given.
	ErrMissingThreshold = fmt.Errorf("%w: missing threshold", ErrInvalidInput)
)
