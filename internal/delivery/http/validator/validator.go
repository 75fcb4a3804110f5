// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	validatorlib "github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// EchoValidator wraps a validator instance for use as echo.Validator.
type EchoValidator struct {
	validate *validatorlib.Validate
}

// New creates a validator with struct tag validation enabled.
func New() *EchoValidator {
	return &EchoValidator{validate: validatorlib.New()}
}

// Validate implements echo.Validator.
func (v *EchoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
