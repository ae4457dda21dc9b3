// internal/schema/form.go
package schema

import (
	"github.com/javajoker/taxonomy-admin/internal/models"
)

// FormSchema is the structural validator for a whole form, keyed by
// fieldName in first-declaration order.
type FormSchema struct {
	Fields []*FieldSchema `json:"fields"`
	// Hidden lists named fields left out because their condition is false.
	Hidden []string `json:"hidden"`

	index map[string]int
}

// ParseResult is the outcome of running a FormSchema over form values.
type ParseResult struct {
	Data   map[string]any
	Issues []Issue
}

// BuildFormSchema assembles the per-field validators of every usable and
// currently visible field. Unnamed fields are skipped silently and a repeated
// fieldName replaces the earlier validator in place.
func BuildFormSchema(fields []models.FieldDefinition, values models.FormValues) *FormSchema {
	fs := &FormSchema{
		Fields: []*FieldSchema{},
		Hidden: []string{},
		index:  make(map[string]int),
	}
	for _, field := range fields {
		if field.FieldName == "" {
			continue
		}
		if !EvaluateCondition(field.ConditionalRules, values) {
			fs.Hidden = append(fs.Hidden, field.FieldName)
			continue
		}

		fieldSchema := BuildFieldSchema(field)
		if i, ok := fs.index[field.FieldName]; ok {
			fs.Fields[i] = fieldSchema
			continue
		}
		fs.index[field.FieldName] = len(fs.Fields)
		fs.Fields = append(fs.Fields, fieldSchema)
	}
	return fs
}

// Field returns the validator for name, if the schema has one.
func (fs *FormSchema) Field(name string) (*FieldSchema, bool) {
	i, ok := fs.index[name]
	if !ok {
		return nil, false
	}
	return fs.Fields[i], true
}

// ConfigErrors collects the configuration diagnostics of every field.
func (fs *FormSchema) ConfigErrors() map[string][]string {
	out := make(map[string][]string)
	for _, f := range fs.Fields {
		if len(f.ConfigErrors) > 0 {
			out[f.Name] = append([]string{}, f.ConfigErrors...)
		}
	}
	return out
}

// Parse validates values field by field. Keys the schema does not know are
// dropped from the data.
func (fs *FormSchema) Parse(values models.FormValues) ParseResult {
	result := ParseResult{Data: make(map[string]any)}
	for _, f := range fs.Fields {
		raw, present := values[f.Name]
		value, keep, issues := f.Parse(raw, present)
		if keep {
			result.Data[f.Name] = value
		}
		result.Issues = append(result.Issues, issues...)
	}
	return result
}
