// Package validation runs struct-tag validation and reports failures as
// field-level domain.ValidationErrors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"m-cosmetics/internal/domain"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// Validator instance
var validate *validator.Validate

func init() {
	v, err := newValidator()
	if err != nil {
		panic("validation: " + err.Error())
	}
	validate = v
}

func newValidator() (*validator.Validate, error) {
	v := validator.New()

	// Report fields by their form name rather than the Go field name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	if err := v.RegisterValidation("username", validUsername); err != nil {
		return nil, fmt.Errorf("register username tag: %w", err)
	}
	return v, nil
}

func validUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// Struct validates v and converts any failures into domain.ValidationErrors
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	return FormatValidationErrors(ve)
}

// FormatValidationErrors converts validator errors to a readable format
func FormatValidationErrors(err error) domain.ValidationErrors {
	var errs domain.ValidationErrors

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, e := range ve {
			errs.Add(e.Field(), getErrorMessage(e))
		}
	}

	return errs
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "eqfield":
		return "The two password fields didn't match."
	case "min":
		return "Ensure this value has at least " + e.Param() + " characters."
	case "max":
		return "Ensure this value has at most " + e.Param() + " characters."
	case "gte":
		return "Ensure this value is greater than or equal to " + e.Param() + "."
	case "lte":
		return "Ensure this value is less than or equal to " + e.Param() + "."
	default:
		return "Invalid value."
	}
}
