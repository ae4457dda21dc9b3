// internal/schema/validator.go
package schema

import (
	"github.com/javajoker/taxonomy-admin/internal/models"
)

// Result is the outcome of ValidateForm. Errors holds one message per field;
// Data is nil unless validation succeeded.
type Result struct {
	Success bool              `json:"success"`
	Errors  map[string]string `json:"errors"`
	Data    map[string]any    `json:"data"`
	Issues  map[string]Issue  `json:"-"`
}

// ValidateForm checks values against the fields visible for those same
// values and collapses the issues to the first one per field.
func ValidateForm(fields []models.FieldDefinition, values models.FormValues) Result {
	if values == nil {
		values = models.FormValues{}
	}
	parsed := BuildFormSchema(fields, values).Parse(values)

	if len(parsed.Issues) == 0 {
		return Result{
			Success: true,
			Errors:  map[string]string{},
			Data:    parsed.Data,
			Issues:  map[string]Issue{},
		}
	}

	result := Result{
		Errors: make(map[string]string),
		Issues: make(map[string]Issue),
	}
	for _, issue := range parsed.Issues {
		if issue.Field == "" {
			continue
		}
		if _, seen := result.Errors[issue.Field]; seen {
			continue
		}
		result.Errors[issue.Field] = issue.Message
		result.Issues[issue.Field] = issue
	}
	return result
}

// Localize rewrites every error message through translate, keeping the
// first-issue-per-field selection.
func (r Result) Localize(translate func(Issue) string) Result {
	if translate == nil || len(r.Issues) == 0 {
		return r
	}
	out := r
	out.Errors = make(map[string]string, len(r.Errors))
	for field, issue := range r.Issues {
		out.Errors[field] = translate(issue)
	}
	return out
}
