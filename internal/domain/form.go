package domain

import (
	"errors"
	"fmt"
)

var ErrUnknownField = errors.New("unknown form field")

// FormData holds the buyer-entered checkout fields
type FormData struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	ZipCode    string `json:"zipCode"`
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

type Field string

func (f Field) String() string {
	return string(f)
}

const (
	FieldFirstName  Field = "firstName"
	FieldLastName   Field = "lastName"
	FieldEmail      Field = "email"
	FieldAddress    Field = "address"
	FieldCity       Field = "city"
	FieldZipCode    Field = "zipCode"
	FieldCardNumber Field = "cardNumber"
	FieldExpiryDate Field = "expiryDate"
	FieldCVV        Field = "cvv"
)

// Label is the human-readable name used in validation messages
func (f Field) Label() string {
	switch f {
	case FieldFirstName:
		return "First name"
	case FieldLastName:
		return "Last name"
	case FieldEmail:
		return "Email"
	case FieldAddress:
		return "Address"
	case FieldCity:
		return "City"
	case FieldZipCode:
		return "Zip code"
	case FieldCardNumber:
		return "Card number"
	case FieldExpiryDate:
		return "Expiry date"
	case FieldCVV:
		return "CVV"
	default:
		return string(f)
	}
}

// Set overwrites exactly one field
func (d *FormData) Set(field Field, value string) error {
	switch field {
	case FieldFirstName:
		d.FirstName = value
	case FieldLastName:
		d.LastName = value
	case FieldEmail:
		d.Email = value
	case FieldAddress:
		d.Address = value
	case FieldCity:
		d.City = value
	case FieldZipCode:
		d.ZipCode = value
	case FieldCardNumber:
		d.CardNumber = value
	case FieldExpiryDate:
		d.ExpiryDate = value
	case FieldCVV:
		d.CVV = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Step is a checkout stage, 1 through 3
type Step int

const (
	StepPersonal Step = 1
	StepAddress  Step = 2
	StepPayment  Step = 3
)

func (s Step) Name() string {
	switch s {
	case StepPersonal:
		return "Personal Details"
	case StepAddress:
		return "Address"
	case StepPayment:
		return "Payment Details"
	default:
		return "Unknown"
	}
}

// StepState is the read-only view of the checkout flow
type StepState struct {
	Step      Step              `json:"step"`
	StepName  string            `json:"step_name"`
	Errors    map[string]string `json:"errors"`
	Submitted bool              `json:"submitted"`
	Form      FormData          `json:"form"`
}
