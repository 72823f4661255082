package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
	// bcryptmax caps a password at the 72 bytes bcrypt accepts
	validate.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= 72
	})
	// notblank rejects strings made only of whitespace
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "request", Tag: "invalid"}}
		}
		for _, err := range validationErrs {
			var element ErrorResponse
			element.FailedField = err.Namespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// Message renders the first failure as a sentence suitable for API clients.
func Message(errs []*ErrorResponse) string {
	if len(errs) == 0 {
		return ""
	}
	first := errs[0]
	field := first.FailedField
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}
	switch first.Tag {
	case "required", "notblank", "uuid_required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, first.Value)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, first.Value)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, first.Value)
	case "bcryptmax":
		return fmt.Sprintf("%s must be at most 72 bytes", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, first.Value)
	default:
		return fmt.Sprintf("%s failed on '%s'", field, first.Tag)
	}
}
