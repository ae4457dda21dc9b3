// internal/models/field_definition.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type DataType string

const (
	DataTypeText        DataType = "Text"
	DataTypeNumber      DataType = "Number"
	DataTypeDecimal     DataType = "Decimal"
	DataTypeDate        DataType = "Date"
	DataTypeDateTime    DataType = "DateTime"
	DataTypeBoolean     DataType = "Boolean"
	DataTypeDropdown    DataType = "Dropdown"
	DataTypeMultiSelect DataType = "MultiSelect"
	DataTypeTextArea    DataType = "TextArea"
	DataTypeEmail       DataType = "Email"
	DataTypePhone       DataType = "Phone"
	DataTypeURL         DataType = "Url"
	DataTypeCurrency    DataType = "Currency"
	DataTypePercentage  DataType = "Percentage"
	DataTypeFile        DataType = "File"
	DataTypeImage       DataType = "Image"
)

// DataTypes lists every supported kind in editor display order.
var DataTypes = []DataType{
	DataTypeText, DataTypeNumber, DataTypeDecimal, DataTypeDate, DataTypeDateTime, DataTypeBoolean,
	DataTypeDropdown, DataTypeMultiSelect, DataTypeTextArea, DataTypeEmail, DataTypePhone,
	DataTypeURL, DataTypeCurrency, DataTypePercentage, DataTypeFile, DataTypeImage,
}

func (d DataType) IsValid() bool {
	for _, dt := range DataTypes {
		if dt == d {
			return true
		}
	}
	return false
}

// NeedsOptions reports whether the kind carries an option list.
func (d DataType) NeedsOptions() bool {
	return d == DataTypeDropdown || d == DataTypeMultiSelect
}

func (d DataType) IsNumeric() bool {
	switch d {
	case DataTypeNumber, DataTypeDecimal, DataTypeCurrency, DataTypePercentage:
		return true
	}
	return false
}

func (d DataType) IsTextual() bool {
	switch d {
	case DataTypeText, DataTypeTextArea, DataTypeEmail, DataTypePhone, DataTypeURL:
		return true
	}
	return false
}

func (d DataType) IsFile() bool {
	return d == DataTypeFile || d == DataTypeImage
}

type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "notEquals"
	OperatorContains    Operator = "contains"
	OperatorGreaterThan Operator = "greaterThan"
	OperatorLessThan    Operator = "lessThan"
)

var Operators = []Operator{
	OperatorEquals, OperatorNotEquals, OperatorContains, OperatorGreaterThan, OperatorLessThan,
}

func (o Operator) IsValid() bool {
	for _, op := range Operators {
		if op == o {
			return true
		}
	}
	return false
}

// FieldDefinition is one schema entry of a product type.
type FieldDefinition struct {
	ID               string           `json:"id,omitempty"`
	FieldName        string           `json:"fieldName" validate:"required,field_name"`
	FieldLabel       string           `json:"fieldLabel" validate:"required,max=255"`
	FieldDescription string           `json:"fieldDescription"`
	Placeholder      string           `json:"placeholder"`
	DataType         DataType         `json:"dataType" validate:"required,data_type"`
	IsRequired       bool             `json:"isRequired"`
	IsUnique         bool             `json:"isUnique"`
	DisplayOrder     int              `json:"displayOrder" validate:"min=0"`
	FieldGroup       string           `json:"fieldGroup"`
	FieldGroupOrder  *int             `json:"fieldGroupOrder"`
	DefaultValue     string           `json:"defaultValue"`
	ValidationRules  *ValidationRules `json:"validationRules"`
	FieldProperties  *FieldProperties `json:"fieldProperties"`
	ConditionalRules *ConditionalRule `json:"conditionalRules"`
	Options          []Option         `json:"options" validate:"dive"`
}

// NewFieldDefinition returns the defaulted draft the editor starts from.
func NewFieldDefinition() FieldDefinition {
	return FieldDefinition{
		DataType:     DataTypeText,
		DisplayOrder: 1,
		Options:      []Option{},
	}
}

// Label is the name used in validation messages.
func (f FieldDefinition) Label() string {
	if f.FieldLabel != "" {
		return f.FieldLabel
	}
	if f.FieldName != "" {
		return f.FieldName
	}
	return "Field"
}

// OptionValues returns the non-empty option values in declaration order.
func (f FieldDefinition) OptionValues() []string {
	values := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		if o.OptionValue != "" {
			values = append(values, o.OptionValue)
		}
	}
	return values
}

// Clone returns a deep copy so editor snapshots never alias live state.
func (f FieldDefinition) Clone() FieldDefinition {
	out := f
	if f.FieldGroupOrder != nil {
		v := *f.FieldGroupOrder
		out.FieldGroupOrder = &v
	}
	out.ValidationRules = f.ValidationRules.Clone()
	out.FieldProperties = f.FieldProperties.Clone()
	if f.ConditionalRules != nil {
		r := *f.ConditionalRules
		out.ConditionalRules = &r
	}
	out.Options = append([]Option{}, f.Options...)
	return out
}

type Option struct {
	ID           string `json:"id,omitempty"`
	OptionValue  string `json:"optionValue" validate:"max=255"`
	OptionLabel  string `json:"optionLabel" validate:"max=255"`
	DisplayOrder int    `json:"displayOrder"`
}

type ConditionalRule struct {
	ShowIf   string   `json:"showIf,omitempty"`
	Operator Operator `json:"operator,omitempty"`
	Value    string   `json:"value,omitempty"`
}

func (r *ConditionalRule) IsZero() bool {
	return r == nil || (r.ShowIf == "" && r.Operator == "" && r.Value == "")
}

// FieldPatch is a shallow partial update keyed by JSON attribute name.
type FieldPatch map[string]any

// Merge applies patch over f the way an object spread would: named keys are
// replaced wholesale, everything else is preserved.
func (f FieldDefinition) Merge(patch FieldPatch) (FieldDefinition, error) {
	if len(patch) == 0 {
		return f.Clone(), nil
	}

	base, err := json.Marshal(f)
	if err != nil {
		return f, fmt.Errorf("failed to encode field definition: %w", err)
	}

	var merged map[string]any
	if err := json.Unmarshal(base, &merged); err != nil {
		return f, fmt.Errorf("failed to decode field definition: %w", err)
	}
	for key, value := range patch {
		merged[key] = value
	}

	body, err := json.Marshal(merged)
	if err != nil {
		return f, fmt.Errorf("failed to encode patch: %w", err)
	}

	var out FieldDefinition
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return f, fmt.Errorf("invalid field patch: %w", err)
	}
	if out.Options == nil {
		out.Options = []Option{}
	}
	return out, nil
}

// FormValues holds raw form input keyed by fieldName.
type FormValues map[string]any

// String returns the raw string form of a value the way a browser input
// would present it.
func (v FormValues) String(name string) string {
	raw, ok := v[name]
	if !ok {
		return ""
	}
	return Stringify(raw)
}

func Stringify(raw any) string {
	switch val := raw.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case []string:
		return joinComma(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, Stringify(item))
		}
		return joinComma(parts)
	default:
		return fmt.Sprint(val)
	}
}

func joinComma(parts []string) string {
	var buf bytes.Buffer
	for i, p := range parts {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(p)
	}
	return buf.String()
}

// Clone copies the map so callers can hand snapshots around safely.
func (v FormValues) Clone() FormValues {
	out := make(FormValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
