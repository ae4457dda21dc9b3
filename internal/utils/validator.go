// internal/utils/validator.go
package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/javajoker/taxonomy-admin/internal/models"
)

var validate *validator.Validate

var fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("field_name", validateFieldName)
	validate.RegisterValidation("data_type", validateDataType)
	validate.RegisterValidation("operator", validateOperator)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Field names double as form value keys and condition targets, so they stay
// identifier shaped.
func validateFieldName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if len(name) > 100 {
		return false
	}
	return fieldNamePattern.MatchString(name)
}

func validateDataType(fl validator.FieldLevel) bool {
	return models.DataType(fl.Field().String()).IsValid()
}

func validateOperator(fl validator.FieldLevel) bool {
	op := fl.Field().String()
	return op == "" || models.Operator(op).IsValid()
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   lowerFirst(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "field_name":
		return "FieldName must start with a letter or underscore and contain only letters, numbers, and underscores"
	case "data_type":
		return "DataType is not a supported data type"
	case "operator":
		return "Operator is not a supported operator"
	default:
		return e.Field() + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
