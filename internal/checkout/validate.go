package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"dresses/storefront/internal/domain"

	"github.com/go-playground/validator/v10"
)

// ValidationErrors maps a form field name to the message shown next to it.
// An empty map means the step is valid.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Matches "nonspace@nonspace.nonspace" anywhere in the value. Non-space
// excludes Unicode separators and BOM as well as ASCII whitespace.
var emailPattern = regexp.MustCompile(`[^\s\v\p{Z}\x{FEFF}]+@[^\s\v\p{Z}\x{FEFF}]+\.[^\s\v\p{Z}\x{FEFF}]+`)

type personalDetails struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,storefront_email"`
}

type addressDetails struct {
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
}

type paymentDetails struct {
	CardNumber string `json:"cardNumber" validate:"required"`
	ExpiryDate string `json:"expiryDate" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
}

type stepValidator struct {
	validate *validator.Validate
}

func newStepValidator() *stepValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("storefront_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	return &stepValidator{validate: v}
}

// Validate checks the fields required by the given step. A nil result means the step passes.
func (sv *stepValidator) Validate(step domain.Step, form domain.FormData) (ValidationErrors, error) {
	var target any
	switch step {
	case domain.StepPersonal:
		target = personalDetails{FirstName: form.FirstName, LastName: form.LastName, Email: form.Email}
	case domain.StepAddress:
		target = addressDetails{Address: form.Address, City: form.City, ZipCode: form.ZipCode}
	case domain.StepPayment:
		target = paymentDetails{CardNumber: form.CardNumber, ExpiryDate: form.ExpiryDate, CVV: form.CVV}
	default:
		return nil, fmt.Errorf("no validator for step %d", step)
	}

	err := sv.validate.Struct(target)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("failed to validate step %d: %w", step, err)
	}

	result := make(ValidationErrors, len(fieldErrs))
	for _, fe := range fieldErrs {
		result[fe.Field()] = formatFieldError(fe)
	}
	return result, nil
}

func formatFieldError(fe validator.FieldError) string {
	label := domain.Field(fe.Field()).Label()
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "storefront_email":
		return label + " is invalid"
	default:
		return fmt.Sprintf("%s failed on %s", label, fe.Tag())
	}
}
