// internal/schema/issues.go
package schema

import (
	"fmt"
	"strconv"
)

type IssueCode string

const (
	CodeRequired          IssueCode = "required"
	CodeNotANumber        IssueCode = "not_a_number"
	CodeTooSmall          IssueCode = "too_small"
	CodeTooBig            IssueCode = "too_big"
	CodeTooShort          IssueCode = "too_short"
	CodeTooLong           IssueCode = "too_long"
	CodeInvalidEmail      IssueCode = "invalid_email"
	CodeInvalidURL        IssueCode = "invalid_url"
	CodeInvalidFormat     IssueCode = "invalid_format"
	CodeInvalidOption     IssueCode = "invalid_option"
	CodeSelectionRequired IssueCode = "selection_required"
	CodeInvalidSelection  IssueCode = "invalid_selection"
)

// Issue is one failed check. Message is the English rendering; Code and
// Param let callers localize it.
type Issue struct {
	Field   string    `json:"field"`
	Label   string    `json:"-"`
	Code    IssueCode `json:"code"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`
}

// MessageKey is the i18n catalogue key for the issue.
func (i Issue) MessageKey() string {
	return "validation.field." + string(i.Code)
}

// MessageArgs are the format arguments matching MessageKey's template.
func (i Issue) MessageArgs() []interface{} {
	if i.Param == "" {
		return []interface{}{i.Label}
	}
	return []interface{}{i.Label, i.Param}
}

var templates = map[IssueCode]string{
	CodeRequired:          "%s is required",
	CodeNotANumber:        "%s must be a number",
	CodeTooSmall:          "%s must be at least %s",
	CodeTooBig:            "%s must be at most %s",
	CodeTooShort:          "%s must be at least %s characters",
	CodeTooLong:           "%s must be at most %s characters",
	CodeInvalidEmail:      "%s must be a valid email",
	CodeInvalidURL:        "%s must be a valid URL",
	CodeInvalidFormat:     "%s format is invalid",
	CodeInvalidOption:     "%s must be one of: %s",
	CodeSelectionRequired: "%s requires at least one selection",
	CodeInvalidSelection:  "%s contains invalid selections",
}

func newIssue(s *FieldSchema, code IssueCode, param string) Issue {
	issue := Issue{Field: s.Name, Label: s.Label, Code: code, Param: param}
	issue.Message = fmt.Sprintf(templates[code], issue.MessageArgs()...)
	return issue
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
