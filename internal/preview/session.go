// internal/preview/session.go
package preview

import (
	"github.com/javajoker/taxonomy-admin/internal/models"
	"github.com/javajoker/taxonomy-admin/internal/schema"
)

type State string

const (
	StatePristine State = "pristine"
	StateInvalid  State = "invalid"
	StateValid    State = "valid"
)

// Session is the throwaway form state behind a preview. It never owns the
// field definitions; callers pass the current set on every call.
// It is not safe for concurrent use.
type Session struct {
	values  models.FormValues
	touched bool
	result  schema.Result
}

func NewSession() *Session {
	return &Session{values: models.FormValues{}}
}

func (s *Session) Values() models.FormValues {
	return s.values.Clone()
}

// Touched reports whether Validate has run since the last Reset.
func (s *Session) Touched() bool {
	return s.touched
}

func (s *Session) State() State {
	switch {
	case !s.touched:
		return StatePristine
	case s.result.Success:
		return StateValid
	default:
		return StateInvalid
	}
}

// Errors returns the field messages currently shown, empty before the first
// Validate.
func (s *Session) Errors() map[string]string {
	out := make(map[string]string, len(s.result.Errors))
	if !s.touched {
		return out
	}
	for k, v := range s.result.Errors {
		out[k] = v
	}
	return out
}

func (s *Session) Result() schema.Result {
	return s.result
}

// SetValue stores one raw value. Once validated, every edit re-validates.
func (s *Session) SetValue(fields []models.FieldDefinition, name string, value any) {
	s.values[name] = value
	s.Sync(fields)
}

func (s *Session) SetValues(fields []models.FieldDefinition, values models.FormValues) {
	for k, v := range values {
		s.values[k] = v
	}
	s.Sync(fields)
}

// Validate runs the form validator over every stored value and switches the
// session to live validation.
func (s *Session) Validate(fields []models.FieldDefinition) schema.Result {
	s.touched = true
	s.result = schema.ValidateForm(fields, s.values)
	return s.result
}

// Sync re-validates after the values or the field set changed, but only once
// the session has been validated.
func (s *Session) Sync(fields []models.FieldDefinition) {
	if s.touched {
		s.result = schema.ValidateForm(fields, s.values)
	}
}

// Reset clears values, errors and the touched flag.
func (s *Session) Reset() {
	s.values = models.FormValues{}
	s.touched = false
	s.result = schema.Result{}
}

func (s *Session) Layout(fields []models.FieldDefinition) Layout {
	return BuildLayout(fields, s.values, s.Errors())
}
