package checkout

import (
	"errors"
	"fmt"
	"maps"

	"dresses/storefront/internal/domain"

	log "github.com/sirupsen/logrus"
)

var (
	ErrSubmitted      = errors.New("checkout already submitted")
	ErrNoNextStep     = errors.New("no step after payment, submit instead")
	ErrNoPreviousStep = errors.New("already at the first step")
	ErrNotFinalStep   = errors.New("submit is only allowed from the payment step")
)

var defaultValidator = newStepValidator()

// Flow steps a buyer through personal details, address and payment.
// Once submitted it never returns to a step.
type Flow struct {
	validator *stepValidator
	step      domain.Step
	form      domain.FormData
	errors    ValidationErrors
	submitted bool
}

func NewFlow() *Flow {
	return &Flow{
		validator: defaultValidator,
		step:      domain.StepPersonal,
		errors:    ValidationErrors{},
	}
}

// State returns a copy of the current step, errors and form data
func (f *Flow) State() domain.StepState {
	return domain.StepState{
		Step:      f.step,
		StepName:  f.step.Name(),
		Errors:    maps.Clone(map[string]string(f.errors)),
		Submitted: f.submitted,
		Form:      f.form,
	}
}

func (f *Flow) Step() domain.Step {
	return f.step
}

func (f *Flow) Submitted() bool {
	return f.submitted
}

// SetField overwrites one form field. Errors are left untouched until the next Advance or Submit.
func (f *Flow) SetField(field domain.Field, value string) error {
	if f.submitted {
		return ErrSubmitted
	}
	return f.form.Set(field, value)
}

// Advance validates the current step and moves to the next one.
// A ValidationErrors value is returned when the step is incomplete.
func (f *Flow) Advance() error {
	if f.submitted {
		return ErrSubmitted
	}
	if f.step >= domain.StepPayment {
		return ErrNoNextStep
	}

	if err := f.validateCurrent(); err != nil {
		return err
	}

	f.step++
	log.Debugf("Checkout advanced to step %d (%s)", f.step, f.step.Name())
	return nil
}

func (f *Flow) Retreat() error {
	if f.submitted {
		return ErrSubmitted
	}
	if f.step <= domain.StepPersonal {
		return ErrNoPreviousStep
	}

	f.step--
	return nil
}

func (f *Flow) Submit() error {
	if f.submitted {
		return ErrSubmitted
	}
	if f.step != domain.StepPayment {
		return ErrNotFinalStep
	}

	if err := f.validateCurrent(); err != nil {
		return err
	}

	f.submitted = true
	log.Debug("Checkout submitted")
	return nil
}

func (f *Flow) validateCurrent() error {
	errs, err := f.validator.Validate(f.step, f.form)
	if err != nil {
		return fmt.Errorf("failed to validate step %d: %w", f.step, err)
	}

	if len(errs) > 0 {
		f.errors = errs
		return maps.Clone(errs)
	}

	f.errors = ValidationErrors{}
	return nil
}
