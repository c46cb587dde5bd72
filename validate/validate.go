// Package validate adapts a declarative validation engine to entity properties.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

// Constraint is one validation rule in validator tag syntax, e.g. "required"
// or "max=64".
type Constraint string

// Violation describes a constraint a value does not satisfy.
type Violation struct {
	Property   string
	Constraint Constraint
	Value      any
	Message    string
}

func (v Violation) Error() string {
	if v.Property == "" {
		return v.Message
	}

	return v.Property + ": " + v.Message
}

// Validator checks a value against constraints.
type Validator interface {
	Validate(value any, constraints []Constraint) []Violation
}

// Checker is implemented by validators that can reject unknown constraints
// before any value is validated. t is the type the constraints will be applied
// to, or nil when it isn't known.
type Checker interface {
	Check(t reflect.Type, constraints []Constraint) error
}

// Error aggregates the violations of one entity.
type Error struct {
	Contract   string
	Violations []Violation
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Error())
	}

	return fmt.Sprintf("%s: validation failed: %s", e.Contract, strings.Join(msgs, "; "))
}

// Errors returns every violation as its own error.
func (e *Error) Errors() []error {
	var err error
	for _, v := range e.Violations {
		err = multierr.Append(err, v)
	}

	return multierr.Errors(err)
}

// Nop accepts every value.
type Nop struct{}

func (Nop) Validate(any, []Constraint) []Violation { return nil }

// Engine validates with github.com/go-playground/validator.
type Engine struct {
	v *validator.Validate
}

// New returns an Engine with the default validator tags.
func New() *Engine {
	return &Engine{v: validator.New(validator.WithRequiredStructEnabled())}
}

// RegisterValidation adds a custom tag.
func (e *Engine) RegisterValidation(tag string, fn validator.Func) error {
	return e.v.RegisterValidation(tag, fn)
}

func join(constraints []Constraint) string {
	tags := make([]string, 0, len(constraints))
	for _, c := range constraints {
		tags = append(tags, string(c))
	}

	return strings.Join(tags, ",")
}

func (e *Engine) Validate(value any, constraints []Constraint) []Violation {
	if len(constraints) == 0 {
		return nil
	}

	err := e.v.Var(value, join(constraints))
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Violation{{Value: value, Message: err.Error()}}
	}

	out := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		tag := fe.Tag()
		if fe.Param() != "" {
			tag += "=" + fe.Param()
		}

		out = append(out, Violation{
			Constraint: Constraint(tag),
			Value:      value,
			Message:    fmt.Sprintf("value %v does not satisfy %q", value, tag),
		})
	}

	return out
}

// Check validates the constraint syntax by running the tags against the zero
// value of t. The underlying validator panics on unknown tags and on
// parameters it can't parse for the value's kind. Without a type only unknown
// tags are reported, since parameters can't be checked against a kind.
func (e *Engine) Check(t reflect.Type, constraints []Constraint) (err error) {
	if len(constraints) == 0 {
		return nil
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}

		msg := fmt.Sprint(r)
		if strings.Contains(msg, "Undefined validation function") || t != nil && strings.Contains(msg, "strconv.") {
			err = errors.New(msg)
		}
	}()

	var probe any = ""
	if t != nil {
		probe = reflect.Zero(t).Interface()
	}

	_ = e.v.Var(probe, join(constraints))

	return nil
}
