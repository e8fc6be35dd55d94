package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks struct tags on request DTOs.
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator exposes the underlying instance for custom registrations.
func GetValidator() *validator.Validate {
	return validate
}
