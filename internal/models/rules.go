// internal/models/rules.go
package models

// ValidationRules holds the optional constraints of a field. Absent keys are
// nil pointers, empty strings or false.
type ValidationRules struct {
	MinLength        *int     `json:"minLength,omitempty" validate:"omitempty,min=0"`
	MaxLength        *int     `json:"maxLength,omitempty" validate:"omitempty,min=0"`
	MinValue         *float64 `json:"minValue,omitempty"`
	MaxValue         *float64 `json:"maxValue,omitempty"`
	Pattern          string   `json:"pattern,omitempty"`
	CustomValidation string   `json:"customValidation,omitempty"`
}

func (r *ValidationRules) IsZero() bool {
	return r == nil || (r.MinLength == nil && r.MaxLength == nil &&
		r.MinValue == nil && r.MaxValue == nil &&
		r.Pattern == "" && r.CustomValidation == "")
}

func (r *ValidationRules) Clone() *ValidationRules {
	if r == nil {
		return nil
	}
	out := *r
	out.MinLength = cloneInt(r.MinLength)
	out.MaxLength = cloneInt(r.MaxLength)
	out.MinValue = cloneFloat(r.MinValue)
	out.MaxValue = cloneFloat(r.MaxValue)
	return &out
}

// FieldProperties holds rendering and behaviour hints of a field.
type FieldProperties struct {
	Step              *float64 `json:"step,omitempty"`
	Min               *float64 `json:"min,omitempty"`
	Max               *float64 `json:"max,omitempty"`
	IsPassword        bool     `json:"isPassword,omitempty"`
	IsMultiline       bool     `json:"isMultiline,omitempty"`
	Rows              *int     `json:"rows,omitempty" validate:"omitempty,min=1"`
	AcceptedFileTypes []string `json:"acceptedFileTypes,omitempty"`
	MaxFileSize       *int64   `json:"maxFileSize,omitempty" validate:"omitempty,min=0"`
	IsSearchable      bool     `json:"isSearchable,omitempty"`
	AllowCustomValue  bool     `json:"allowCustomValue,omitempty"`
	CSSClass          string   `json:"cssClass,omitempty"`
	Width             string   `json:"width,omitempty" validate:"omitempty,oneof=25% 33% 50% 66% 75% 100%"`
}

func (p *FieldProperties) IsZero() bool {
	return p == nil || (p.Step == nil && p.Min == nil && p.Max == nil &&
		!p.IsPassword && !p.IsMultiline && p.Rows == nil &&
		len(p.AcceptedFileTypes) == 0 && p.MaxFileSize == nil &&
		!p.IsSearchable && !p.AllowCustomValue &&
		p.CSSClass == "" && p.Width == "")
}

func (p *FieldProperties) Clone() *FieldProperties {
	if p == nil {
		return nil
	}
	out := *p
	out.Step = cloneFloat(p.Step)
	out.Min = cloneFloat(p.Min)
	out.Max = cloneFloat(p.Max)
	out.Rows = cloneInt(p.Rows)
	if p.MaxFileSize != nil {
		v := *p.MaxFileSize
		out.MaxFileSize = &v
	}
	if p.AcceptedFileTypes != nil {
		out.AcceptedFileTypes = append([]string{}, p.AcceptedFileTypes...)
	}
	return &out
}

// Widths are the layout widths offered by the properties panel.
var Widths = []string{"25%", "33%", "50%", "66%", "75%", "100%"}

// Sparse is a record of optional keys where a falsy value means absent.
type Sparse interface {
	IsZero() bool
}

// Prune returns nil when no recognized key of the record carries a value, so
// "no constraint" serializes as an absent object.
func Prune[T any, P interface {
	*T
	Sparse
}](record P) P {
	if record == nil || record.IsZero() {
		return nil
	}
	return record
}

// PruneMap applies the same rule to a loosely typed record: nil, "" and
// false entries are dropped and an empty result becomes nil.
func PruneMap(record map[string]any) map[string]any {
	if record == nil {
		return nil
	}
	cleaned := make(map[string]any, len(record))
	for key, value := range record {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			if v == "" {
				continue
			}
		case bool:
			if !v {
				continue
			}
		}
		cleaned[key] = value
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}

// ValidationRuleKeys names the rule keys meaningful for a data type.
func ValidationRuleKeys(dt DataType) []string {
	var keys []string
	if dt.IsTextual() {
		keys = append(keys, "minLength", "maxLength")
	}
	if dt.IsNumeric() {
		keys = append(keys, "minValue", "maxValue")
	}
	return append(keys, "pattern", "customValidation")
}

// FieldPropertyKeys names the property keys meaningful for a data type.
func FieldPropertyKeys(dt DataType) []string {
	var keys []string
	switch {
	case dt.IsNumeric():
		keys = append(keys, "step", "min", "max")
	case dt.IsTextual():
		keys = append(keys, "isPassword", "isMultiline", "rows")
	case dt.IsFile():
		keys = append(keys, "acceptedFileTypes", "maxFileSize")
	case dt.NeedsOptions():
		keys = append(keys, "isSearchable", "allowCustomValue")
	}
	return append(keys, "cssClass", "width")
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
