package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct validates a struct using its `validate` tags and returns per-field
// error messages keyed by the lowercased field name. A nil map means the
// struct passed validation.
func Struct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[strings.ToLower(fe.Field())] = message(fe)
	}
	return fields
}

// message builds a human-readable message for a single field error
func message(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address", field)
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("The %s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("The %s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid", field)
	}
}
