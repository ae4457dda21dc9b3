// internal/editor/problems.go
package editor

import (
	"fmt"

	"github.com/javajoker/taxonomy-admin/internal/schema"
)

type ProblemCode string

const (
	ProblemMissingName       ProblemCode = "missing_name"
	ProblemMissingLabel      ProblemCode = "missing_label"
	ProblemDuplicateName     ProblemCode = "duplicate_name"
	ProblemDuplicateOption   ProblemCode = "duplicate_option"
	ProblemInvalidDataType   ProblemCode = "invalid_data_type"
	ProblemInvalidPattern    ProblemCode = "invalid_pattern"
	ProblemSelfCondition     ProblemCode = "self_condition"
	ProblemDanglingCondition ProblemCode = "dangling_condition"
)

// Problem is a configuration defect that blocks saving the field set.
type Problem struct {
	Key     string      `json:"key"`
	Field   string      `json:"field,omitempty"`
	Label   string      `json:"-"`
	Code    ProblemCode `json:"code"`
	Param   string      `json:"param,omitempty"`
	Message string      `json:"message"`
}

// MessageKey is the i18n catalogue key for the problem.
func (p Problem) MessageKey() string {
	return "editor.problem." + string(p.Code)
}

// MessageArgs are the format arguments matching MessageKey's template.
func (p Problem) MessageArgs() []interface{} {
	switch p.Code {
	case ProblemDuplicateName:
		return []interface{}{p.Field}
	case ProblemInvalidDataType, ProblemDuplicateOption, ProblemDanglingCondition:
		return []interface{}{p.Label, p.Param}
	default:
		return []interface{}{p.Label}
	}
}

var problemTemplates = map[ProblemCode]string{
	ProblemMissingName:       "%s has no field name",
	ProblemMissingLabel:      "%s has no label",
	ProblemDuplicateName:     "Field name %s is used more than once",
	ProblemDuplicateOption:   "%s repeats option value %s",
	ProblemInvalidDataType:   "%s has unsupported data type %s",
	ProblemInvalidPattern:    "%s has an invalid pattern",
	ProblemSelfCondition:     "%s cannot depend on itself",
	ProblemDanglingCondition: "%s depends on unknown field %s",
}

// Problems lists every save-blocking defect in insertion order.
func (b *Builder) Problems() []Problem {
	problems := []Problem{}
	seen := make(map[string]int)
	for _, e := range b.entries {
		if e.Field.FieldName != "" {
			seen[e.Field.FieldName]++
		}
	}

	add := func(e Entry, code ProblemCode, param string) {
		p := Problem{
			Key:   e.Key,
			Field: e.Field.FieldName,
			Label: e.Field.Label(),
			Code:  code,
			Param: param,
		}
		p.Message = fmt.Sprintf(problemTemplates[code], p.MessageArgs()...)
		problems = append(problems, p)
	}

	for _, e := range b.entries {
		f := e.Field
		if f.FieldName == "" {
			add(e, ProblemMissingName, "")
		} else if seen[f.FieldName] > 1 {
			add(e, ProblemDuplicateName, "")
		}
		if f.FieldLabel == "" {
			add(e, ProblemMissingLabel, "")
		}
		if !f.DataType.IsValid() {
			add(e, ProblemInvalidDataType, string(f.DataType))
		}
		if f.ValidationRules != nil && f.ValidationRules.Pattern != "" {
			if _, err := schema.CompilePattern(f.ValidationRules.Pattern); err != nil {
				add(e, ProblemInvalidPattern, f.ValidationRules.Pattern)
			}
		}

		if f.DataType.NeedsOptions() {
			values := make(map[string]bool)
			for _, o := range f.Options {
				if o.OptionValue == "" {
					continue
				}
				if values[o.OptionValue] {
					add(e, ProblemDuplicateOption, o.OptionValue)
					continue
				}
				values[o.OptionValue] = true
			}
		}

		if rule := f.ConditionalRules; rule != nil && rule.ShowIf != "" {
			switch {
			case rule.ShowIf == f.FieldName:
				add(e, ProblemSelfCondition, rule.ShowIf)
			case seen[rule.ShowIf] == 0:
				add(e, ProblemDanglingCondition, rule.ShowIf)
			}
		}
	}
	return problems
}
