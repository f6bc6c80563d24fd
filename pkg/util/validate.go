package util

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("maxbytes", maxBytes)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

var tagMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"min":      "must be at least %s characters long",
	"max":      "must be no longer than %s characters",
	"maxbytes": "must be no longer than %s bytes",
	"e164":     "must be an E.164 phone number",
}

// ValidateStruct runs validator tags on s and returns a VALIDATION_FAILED error
// with one detail per offending JSON field.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(fieldErrs))
	first := ""
	for _, fe := range fieldErrs {
		msg := fieldMessage(fe)
		details[fe.Field()] = msg
		if first == "" {
			first = fe.Field() + " " + msg
		}
	}
	return NewValidationError(first, details)
}

// ValidateVar validates a single value against a tag expression.
func ValidateVar(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			msg := fieldMessage(fieldErrs[0])
			return NewValidationError(field+" "+msg, map[string]any{field: msg})
		}
		return NewValidationError(field+" is invalid", map[string]any{field: "is invalid"})
	}
	return nil
}

// maxBytes bounds the encoded length of a string, unlike max which counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func fieldMessage(fe validator.FieldError) string {
	tmpl, ok := tagMessages[fe.Tag()]
	if !ok {
		return "is invalid"
	}
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, fe.Param())
	}
	return tmpl
}
