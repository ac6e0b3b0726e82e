package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when the requested schedule version does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrInvalidArgument is returned when a service is built or called with
	// arguments that can never succeed, such as malformed configured time slots.
	ErrInvalidArgument = errors.New("application: invalid argument")
)

// ValidationError collects per-field problems with a request. Keys are request
// field names such as "version_id", "kind" or "time_blocks.<id>".
type ValidationError struct {
	FieldErrors map[string]string
}

func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	fields := v.Fields()
	if len(fields) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// HasErrors reports whether any field was rejected.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// Fields returns the rejected field names in sorted order.
func (v *ValidationError) Fields() []string {
	if v == nil || len(v.FieldErrors) == 0 {
		return nil
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// add keeps the first message recorded for a field.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	if _, exists := v.FieldErrors[field]; exists {
		return
	}
	v.FieldErrors[field] = message
}
