// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
)

// Violation describes one field that failed validation.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// ValidationError is returned when input fails one or more field rules.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	fields := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		fields[i] = v.Field
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// Violations accumulates field violations in the order they are found.
type Violations []Violation

// Add records a violation.
func (vs *Violations) Add(field, message, value string) {
	*vs = append(*vs, Violation{Field: field, Message: message, Value: value})
}

// Require records a violation when value is blank.
func (vs *Violations) Require(field, value, message string) {
	if strings.TrimSpace(value) == "" {
		vs.Add(field, message, value)
	}
}

// Err returns a *ValidationError, or nil when nothing was recorded.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	return &ValidationError{Violations: vs}
}
