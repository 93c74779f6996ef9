package appointment

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrSlotNoLongerAvailable   = errors.New("slot no longer available")
	ErrNotFound                = errors.New("appointment not found")
	ErrAlreadyCancelled        = errors.New("appointment already cancelled")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrStatusChanged           = errors.New("appointment status changed concurrently")
	ErrValidation              = errors.New("validation error")
)

// ValidationError lists request fields that are missing or malformed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
