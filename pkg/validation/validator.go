package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string `json:"field"`
	Value   any    `json:"value"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// validate is the shared go-playground instance with the custom tags
// registered below.
var validate *validator.Validate

var nodeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func init() {
	validate = validator.New()

	validate.RegisterValidation("node_id", validateNodeID)

	// Use JSON tags for field names in error reports.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// validateNodeID checks the node identifier format: alphanumeric with
// underscores and hyphens, at most 100 characters.
func validateNodeID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	return id != "" && len(id) <= 100 && nodeIDPattern.MatchString(id)
}

// ValidateDefinition runs the tag-level rules and the cross-field rules on
// a graph definition. It returns ValidationErrors on failure.
func ValidateDefinition(gd *GraphDefinition) error {
	if gd == nil {
		return fmt.Errorf("definition is nil")
	}
	if err := validate.Struct(gd); err != nil {
		return formatValidationErrors(err)
	}
	return gd.Validate()
}

// formatValidationErrors converts validator errors to our custom format
func formatValidationErrors(err error) error {
	var errs ValidationErrors
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			errs = append(errs, ValidationError{
				Field:   fe.Field(),
				Value:   fe.Value(),
				Message: errorMessage(fe),
			})
		}
		return errs
	}
	return err
}

// errorMessage returns a human-readable message for a field error.
func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "field is required"
	case "min":
		return fmt.Sprintf("minimum value/length is %s", fe.Param())
	case "max":
		return fmt.Sprintf("maximum value/length is %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "node_id":
		return "must be a valid node identifier (alphanumeric, underscore, hyphen)"
	default:
		return fmt.Sprintf("validation failed: %s", fe.Tag())
	}
}
