// Package validator adapts struct-tag validation to Echo's Validator hook.
package validator

import (
	domainerrors "github.com/Manuufarina/gestion-zoonosis/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// EchoValidator wraps the struct-tag validator for echo.Echo.Validator.
type EchoValidator struct {
	validate *validator.Validate
}

// New builds the validator used by request binding.
func New() *EchoValidator {
	return &EchoValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator.
func (v *EchoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
