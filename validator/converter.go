// Package validator validates requests with ozzo-validation and converts failures to errcode errors
package validator

import (
	"errors"

	"github.com/KOMKZ/go-yogan-httplog/errcode"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validatable is implemented by requests that can check themselves
type Validatable interface {
	Validate() error
}

// ValidateRequest runs req.Validate and converts ozzo field errors to errcode.ErrValidation.
// Other errors are returned as is.
func ValidateRequest(req Validatable) error {
	err := req.Validate()
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return ConvertValidationError(fieldErrs)
	}
	return err
}

// ConvertValidationError builds a 400 error whose data carries the per-field messages
func ConvertValidationError(fieldErrs validation.Errors) error {
	fields := make(map[string]string, len(fieldErrs))
	for field, fieldErr := range fieldErrs {
		if fieldErr != nil {
			fields[field] = fieldErr.Error()
		}
	}
	return errcode.ErrValidation.WithData("fields", fields)
}
