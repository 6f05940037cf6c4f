package dto

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Jow12560/bizlens-backend/pkg/util"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report the json field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct tags and returns field-level errors, nil when the
// payload is well-formed. Runs before any store access so failures never
// cost a query.
func Validate(payload any) []util.FieldError {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []util.FieldError{{Field: "", Message: err.Error()}}
	}

	fields := make([]util.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, util.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return fields
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", titleCase(fe.Field()))
	case "email":
		return fmt.Sprintf("%s must be a valid email", titleCase(fe.Field()))
	case "min":
		return fmt.Sprintf("%s must not be empty", titleCase(fe.Field()))
	default:
		return fmt.Sprintf("%s is invalid", titleCase(fe.Field()))
	}
}

func titleCase(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
