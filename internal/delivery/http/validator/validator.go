// Package validator adapts go-playground/validator to Echo's Validator
// interface so handlers can call c.Validate on bound input.
package validator

import (
	"github.com/go-playground/validator/v10"
)

// Validator wraps a shared validator instance.
type Validator struct {
	validate *validator.Validate
}

// New creates the Echo request validator.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}
