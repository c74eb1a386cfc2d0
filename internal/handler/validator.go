package handler

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	apperrors "authservice/internal/errors"
)

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator with the service's custom rules registered.
func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("password", validatePassword)
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &apperrors.ValidationError{Message: err.Error()}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return &apperrors.ValidationError{Message: strings.Join(msgs, "; ")}
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be an email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "password":
		return field + " must have an uppercase letter, a lowercase letter and a number or symbol"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// validatePassword requires an upper-case letter, a lower-case letter and a digit or
// non-word character. Spaces count as non-word; underscore does not.
func validatePassword(fl validator.FieldLevel) bool {
	var upper, lower, digitOrSymbol bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case r == '_':
		case unicode.IsDigit(r), !unicode.IsLetter(r):
			digitOrSymbol = true
		}
	}
	return upper && lower && digitOrSymbol
}
