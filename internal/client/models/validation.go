package models

import (
	"fmt"
	"net/mail"
	"strings"
)

// ValidationError is a client-side field error. It never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every failed rule of one form.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = v.Error()
	}
	return strings.Join(parts, "; ")
}

// Validator accumulates field errors through chained rules.
type Validator struct {
	errors ValidationErrors
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) add(field, msg string) *Validator {
	v.errors = append(v.errors, ValidationError{Field: field, Message: msg})
	return v
}

// Required fails on blank values.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.add(field, "is required")
	}
	return v
}

// Email fails on values that are not a bare address. Blank values are left
// to Required.
func (v *Validator) Email(field, value string) *Validator {
	value = strings.TrimSpace(value)
	if value == "" {
		return v
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return v.add(field, "must be a valid email address")
	}
	return v
}

// MinLength fails when value has fewer than n runes.
func (v *Validator) MinLength(field, value string, n int) *Validator {
	if len([]rune(value)) < n {
		return v.add(field, fmt.Sprintf("must be at least %d characters", n))
	}
	return v
}

// Range fails when value lies outside [min, max].
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		return v.add(field, fmt.Sprintf("must be between %d and %d", min, max))
	}
	return v
}

// Err returns nil or the collected ValidationErrors.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}
	return v.errors
}
