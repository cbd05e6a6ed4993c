package common

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// ValidationErrors is returned by ValidateStruct; it matches ErrValidation.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

var (
	validateOnce sync.Once
	validate     *validator.Validate

	jobNumberRe = regexp.MustCompile(`^0\w{6}$`)
	poNumberRe  = regexp.MustCompile(`^[A-Za-z]\w{7}$`)
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("jobnumber", func(fl validator.FieldLevel) bool {
			return jobNumberRe.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("ponumber", func(fl validator.FieldLevel) bool {
			return poNumberRe.MatchString(fl.Field().String())
		})
	})
	return validate
}

// ValidateStruct applies `validate` struct tags. Besides the stock rules it
// knows "jobnumber" (0 + six word characters) and "ponumber" (letter + seven).
func ValidateStruct(s interface{}) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Value:   fe.Value(),
			Message: ruleMessage(fe),
		})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be an email address"
	case "gt":
		return "must be greater than " + fe.Param()
	case "jobnumber":
		return "must be 0 followed by six alphanumerics"
	case "ponumber":
		return "must be a letter followed by seven alphanumerics"
	default:
		return "failed " + fe.Tag()
	}
}
