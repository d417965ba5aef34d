package model

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("datekey", func(fl validator.FieldLevel) bool {
		return dateKeyPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidationError is returned when a record violates one or more field
// constraints. Details holds one human-readable message per failing field.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Details, "; "))
}

// IsValidationError reports whether the cause of err is a ValidationError.
func IsValidationError(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}

const (
	phasePresence = iota
	phaseFormat
	phaseEnum
	numPhases
)

// Validator collects field violations. Messages are reported presence
// failures first, then type/format/range failures, then enumeration
// failures. Each field reports at most one message.
type Validator struct {
	phases [numPhases][]string
	failed map[string]bool
}

func NewValidator() *Validator {
	return &Validator{failed: make(map[string]bool)}
}

// Required records a missing required field.
func (v *Validator) Required(field, msg string) {
	v.add(phasePresence, field, msg)
}

// Invalid records a type, format or range violation.
func (v *Validator) Invalid(field, msg string) {
	v.add(phaseFormat, field, msg)
}

// NotAllowed records a value outside the field's enumeration.
func (v *Validator) NotAllowed(field, msg string) {
	v.add(phaseEnum, field, msg)
}

// Failed reports whether a violation was already recorded for field.
func (v *Validator) Failed(field string) bool {
	return v.failed[field]
}

// Err returns nil when nothing failed, otherwise a *ValidationError.
func (v *Validator) Err() error {
	var details []string
	for _, msgs := range v.phases {
		details = append(details, msgs...)
	}
	if len(details) == 0 {
		return nil
	}
	return &ValidationError{Details: details}
}

func (v *Validator) add(phase int, field, msg string) {
	if v.failed[field] {
		return
	}
	v.failed[field] = true
	v.phases[phase] = append(v.phases[phase], msg)
}

// checkStruct runs the struct tags of s and translates every failure with
// the messages table, keyed by "<Field>.<tag>".
func checkStruct(v *Validator, s interface{}, messages map[string]string) {
	err := validate.Struct(s)
	if err == nil {
		return
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		v.Invalid(reflect.TypeOf(s).String(), err.Error())
		return
	}

	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag())
		}

		switch fe.Tag() {
		case "required":
			v.Required(fe.Field(), msg)
		case "oneof":
			v.NotAllowed(fe.Field(), msg)
		default:
			v.Invalid(fe.Field(), msg)
		}
	}
}
