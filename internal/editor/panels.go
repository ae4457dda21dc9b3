// internal/editor/panels.go
package editor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/javajoker/taxonomy-admin/internal/models"
	"github.com/javajoker/taxonomy-admin/internal/schema"
)

// The panels are controlled editors over one sub-record of a field. Each Set
// returns a new record and never touches its input. An empty string, false
// or nil value removes the key, and a record left without keys becomes nil.

type ValidationRulesPanel struct {
	DataType models.DataType
}

func (p ValidationRulesPanel) Keys() []string {
	return models.ValidationRuleKeys(p.DataType)
}

func (p ValidationRulesPanel) Set(rules *models.ValidationRules, key string, value any) (*models.ValidationRules, error) {
	if !scoped(p.Keys(), key) {
		return rules, fmt.Errorf("%w: %s for %s", ErrKeyNotScoped, key, p.DataType)
	}
	out := rules.Clone()
	if out == nil {
		out = &models.ValidationRules{}
	}

	var err error
	switch key {
	case "minLength":
		out.MinLength, err = intValue(key, value, 0)
	case "maxLength":
		out.MaxLength, err = intValue(key, value, 0)
	case "minValue":
		out.MinValue, err = floatValue(key, value)
	case "maxValue":
		out.MaxValue, err = floatValue(key, value)
	case "pattern":
		out.Pattern = stringValue(value)
		if out.Pattern != "" {
			if _, compileErr := schema.CompilePattern(out.Pattern); compileErr != nil {
				err = fmt.Errorf("%w: %w", ErrInvalidPattern, compileErr)
			}
		}
	case "customValidation":
		out.CustomValidation = stringValue(value)
	}
	if err != nil {
		return rules, err
	}
	return models.Prune(out), nil
}

type FieldPropertiesPanel struct {
	DataType models.DataType
}

func (p FieldPropertiesPanel) Keys() []string {
	return models.FieldPropertyKeys(p.DataType)
}

func (p FieldPropertiesPanel) Set(props *models.FieldProperties, key string, value any) (*models.FieldProperties, error) {
	if !scoped(p.Keys(), key) {
		return props, fmt.Errorf("%w: %s for %s", ErrKeyNotScoped, key, p.DataType)
	}
	out := props.Clone()
	if out == nil {
		out = &models.FieldProperties{}
	}

	var err error
	switch key {
	case "step":
		out.Step, err = floatValue(key, value)
	case "min":
		out.Min, err = floatValue(key, value)
	case "max":
		out.Max, err = floatValue(key, value)
	case "isPassword":
		out.IsPassword, err = boolValue(key, value)
	case "isMultiline":
		out.IsMultiline, err = boolValue(key, value)
	case "rows":
		out.Rows, err = intValue(key, value, 1)
	case "acceptedFileTypes":
		out.AcceptedFileTypes = listValue(value)
	case "maxFileSize":
		out.MaxFileSize, err = wholeValue(key, value, 0, maxFileSize)
	case "isSearchable":
		out.IsSearchable, err = boolValue(key, value)
	case "allowCustomValue":
		out.AllowCustomValue, err = boolValue(key, value)
	case "cssClass":
		out.CSSClass = stringValue(value)
	case "width":
		out.Width = stringValue(value)
		if out.Width != "" && !scoped(models.Widths, out.Width) {
			err = fmt.Errorf("%w: width must be one of %s", ErrInvalidValue, strings.Join(models.Widths, ", "))
		}
	}
	if err != nil {
		return props, err
	}
	return models.Prune(out), nil
}

// ConditionalRulePanel edits a visibility rule. Candidates are the field
// names showIf may reference.
type ConditionalRulePanel struct {
	Candidates []Candidate
}

func (p ConditionalRulePanel) Keys() []string {
	return []string{"showIf", "operator", "value"}
}

func (p ConditionalRulePanel) Set(rule *models.ConditionalRule, key string, value any) (*models.ConditionalRule, error) {
	out := &models.ConditionalRule{}
	if rule != nil {
		*out = *rule
	}

	switch key {
	case "showIf":
		name := stringValue(value)
		if name != "" && !p.allows(name) {
			return rule, fmt.Errorf("%w: %s", ErrInvalidDependency, name)
		}
		out.ShowIf = name
	case "operator":
		op := models.Operator(stringValue(value))
		if op != "" && !op.IsValid() {
			return rule, fmt.Errorf("%w: unknown operator %q", ErrInvalidValue, op)
		}
		out.Operator = op
	case "value":
		out.Value = stringValue(value)
	default:
		return rule, fmt.Errorf("%w: %s", ErrKeyNotScoped, key)
	}
	return models.Prune(out), nil
}

func (p ConditionalRulePanel) allows(name string) bool {
	for _, c := range p.Candidates {
		if c.FieldName == name {
			return true
		}
	}
	return false
}

// OptionPatch is a partial option update; nil members are left alone.
type OptionPatch struct {
	OptionValue  *string `json:"optionValue"`
	OptionLabel  *string `json:"optionLabel"`
	DisplayOrder *int    `json:"displayOrder"`
}

type OptionsPanel struct{}

// Add appends a blank option ordered after the current highest one.
func (OptionsPanel) Add(options []models.Option) []models.Option {
	highest := 0
	for _, o := range options {
		if o.DisplayOrder > highest {
			highest = o.DisplayOrder
		}
	}
	out := append([]models.Option{}, options...)
	return append(out, models.Option{DisplayOrder: highest + 1})
}

func (OptionsPanel) Update(options []models.Option, index int, patch OptionPatch) ([]models.Option, error) {
	if index < 0 || index >= len(options) {
		return options, fmt.Errorf("%w: %d", ErrOptionNotFound, index)
	}
	out := append([]models.Option{}, options...)
	if patch.OptionValue != nil {
		out[index].OptionValue = *patch.OptionValue
	}
	if patch.OptionLabel != nil {
		out[index].OptionLabel = *patch.OptionLabel
	}
	if patch.DisplayOrder != nil {
		order := *patch.DisplayOrder
		if order < 1 {
			order = 1
		}
		out[index].DisplayOrder = order
	}
	return out, nil
}

func (OptionsPanel) Remove(options []models.Option, index int) ([]models.Option, error) {
	if index < 0 || index >= len(options) {
		return options, fmt.Errorf("%w: %d", ErrOptionNotFound, index)
	}
	out := make([]models.Option, 0, len(options)-1)
	out = append(out, options[:index]...)
	return append(out, options[index+1:]...), nil
}

// Builder-level wrappers apply a panel to the field at key (or the draft).

func (b *Builder) SetValidationRule(key, ruleKey string, value any) (models.FieldDefinition, error) {
	f, err := b.field(key)
	if err != nil {
		return models.FieldDefinition{}, err
	}
	rules, err := ValidationRulesPanel{DataType: f.DataType}.Set(f.ValidationRules, ruleKey, value)
	if err != nil {
		return f.Clone(), err
	}
	f = f.Clone()
	f.ValidationRules = rules
	b.store(key, f)
	return f.Clone(), nil
}

func (b *Builder) SetFieldProperty(key, propKey string, value any) (models.FieldDefinition, error) {
	f, err := b.field(key)
	if err != nil {
		return models.FieldDefinition{}, err
	}
	props, err := FieldPropertiesPanel{DataType: f.DataType}.Set(f.FieldProperties, propKey, value)
	if err != nil {
		return f.Clone(), err
	}
	f = f.Clone()
	f.FieldProperties = props
	b.store(key, f)
	return f.Clone(), nil
}

func (b *Builder) SetConditionalRule(key, ruleKey string, value any) (models.FieldDefinition, error) {
	f, err := b.field(key)
	if err != nil {
		return models.FieldDefinition{}, err
	}
	candidates, err := b.DependencyCandidates(key)
	if err != nil {
		return f.Clone(), err
	}
	rule, err := ConditionalRulePanel{Candidates: candidates}.Set(f.ConditionalRules, ruleKey, value)
	if err != nil {
		return f.Clone(), err
	}
	f = f.Clone()
	f.ConditionalRules = rule
	b.store(key, f)
	return f.Clone(), nil
}

func (b *Builder) AddOption(key string) (models.FieldDefinition, error) {
	return b.editOptions(key, func(options []models.Option) ([]models.Option, error) {
		return OptionsPanel{}.Add(options), nil
	})
}

func (b *Builder) UpdateOption(key string, index int, patch OptionPatch) (models.FieldDefinition, error) {
	return b.editOptions(key, func(options []models.Option) ([]models.Option, error) {
		return OptionsPanel{}.Update(options, index, patch)
	})
}

func (b *Builder) RemoveOption(key string, index int) (models.FieldDefinition, error) {
	return b.editOptions(key, func(options []models.Option) ([]models.Option, error) {
		return OptionsPanel{}.Remove(options, index)
	})
}

func (b *Builder) editOptions(key string, edit func([]models.Option) ([]models.Option, error)) (models.FieldDefinition, error) {
	f, err := b.field(key)
	if err != nil {
		return models.FieldDefinition{}, err
	}
	if !f.DataType.NeedsOptions() {
		return f.Clone(), fmt.Errorf("%w: %s", ErrOptionsNotSupported, f.DataType)
	}
	options, err := edit(f.Options)
	if err != nil {
		return f.Clone(), err
	}
	f = f.Clone()
	f.Options = options
	b.store(key, f)
	return f.Clone(), nil
}

func scoped(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func stringValue(value any) string {
	if value == nil {
		return ""
	}
	if b, ok := value.(bool); ok && !b {
		return ""
	}
	return models.Stringify(value)
}

// maxFileSize is the largest byte count a float64 holds exactly.
const maxFileSize = 1 << 53

func intValue(key string, value any, floor int) (*int, error) {
	n, err := wholeValue(key, value, int64(floor), math.MaxInt32)
	if err != nil || n == nil {
		return nil, err
	}
	v := int(*n)
	return &v, nil
}

// wholeValue parses a whole number in [floor, ceiling]. The range is checked
// before converting so huge inputs never wrap.
func wholeValue(key string, value any, floor, ceiling int64) (*int64, error) {
	f, err := floatValue(key, value)
	if err != nil || f == nil {
		return nil, err
	}
	if *f != math.Trunc(*f) {
		return nil, fmt.Errorf("%w: %s must be a whole number", ErrInvalidValue, key)
	}
	if *f < float64(floor) {
		return nil, fmt.Errorf("%w: %s must be at least %d", ErrInvalidValue, key, floor)
	}
	if *f > float64(ceiling) {
		return nil, fmt.Errorf("%w: %s is too large", ErrInvalidValue, key)
	}
	n := int64(*f)
	return &n, nil
}

func floatValue(key string, value any) (*float64, error) {
	s := strings.TrimSpace(stringValue(value))
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %s must be a number", ErrInvalidValue, key)
	}
	return &f, nil
}

func boolValue(key string, value any) (bool, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		if v == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
		}
		return b, nil
	}
	return false, fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
}

func listValue(value any) []string {
	var raw []string
	switch v := value.(type) {
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			raw = append(raw, models.Stringify(item))
		}
	default:
		raw = strings.Split(stringValue(value), ",")
	}

	var out []string
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
