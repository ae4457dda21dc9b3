// internal/preview/widget.go
package preview

import (
	"sort"
	"strings"

	"github.com/javajoker/taxonomy-admin/internal/models"
)

type WidgetKind string

const (
	WidgetInput    WidgetKind = "input"
	WidgetTextArea WidgetKind = "textarea"
	WidgetSelect   WidgetKind = "select"
	WidgetCheckbox WidgetKind = "checkbox"
	WidgetFile     WidgetKind = "file"
)

// Widget describes the control a field renders as.
type Widget struct {
	Kind             WidgetKind      `json:"kind"`
	InputType        string          `json:"inputType,omitempty"`
	Placeholder      string          `json:"placeholder,omitempty"`
	DefaultValue     string          `json:"defaultValue,omitempty"`
	Step             *float64        `json:"step,omitempty"`
	Min              *float64        `json:"min,omitempty"`
	Max              *float64        `json:"max,omitempty"`
	Rows             *int            `json:"rows,omitempty"`
	Multiple         bool            `json:"multiple,omitempty"`
	Searchable       bool            `json:"searchable,omitempty"`
	AllowCustomValue bool            `json:"allowCustomValue,omitempty"`
	Accept           string          `json:"accept,omitempty"`
	MaxFileSize      *int64          `json:"maxFileSize,omitempty"`
	Options          []models.Option `json:"options,omitempty"`
	CSSClass         string          `json:"cssClass,omitempty"`
	Width            string          `json:"width,omitempty"`
}

// Fractional numeric kinds step in hundredths unless a step is configured.
const fractionStep = 0.01

// WidgetFor maps a field definition onto its control.
func WidgetFor(f models.FieldDefinition) Widget {
	props := f.FieldProperties
	if props == nil {
		props = &models.FieldProperties{}
	}
	w := Widget{
		Kind:         WidgetInput,
		InputType:    "text",
		Placeholder:  f.Placeholder,
		DefaultValue: f.DefaultValue,
		CSSClass:     props.CSSClass,
		Width:        props.Width,
	}

	switch f.DataType {
	case models.DataTypeNumber, models.DataTypeDecimal, models.DataTypeCurrency, models.DataTypePercentage:
		w.InputType = "number"
		w.Step = props.Step
		if w.Step == nil && f.DataType != models.DataTypeNumber {
			step := fractionStep
			w.Step = &step
		}
		w.Min = props.Min
		w.Max = props.Max
	case models.DataTypeDate:
		w.InputType = "date"
	case models.DataTypeDateTime:
		w.InputType = "datetime-local"
	case models.DataTypeEmail:
		w.InputType = "email"
	case models.DataTypePhone:
		w.InputType = "tel"
	case models.DataTypeURL:
		w.InputType = "url"
	case models.DataTypeBoolean:
		w.Kind = WidgetCheckbox
		w.InputType = "checkbox"
	case models.DataTypeDropdown, models.DataTypeMultiSelect:
		w.Kind = WidgetSelect
		w.InputType = ""
		w.Multiple = f.DataType == models.DataTypeMultiSelect
		w.Searchable = props.IsSearchable
		w.AllowCustomValue = props.AllowCustomValue
		w.Options = sortedOptions(f.Options)
	case models.DataTypeFile, models.DataTypeImage:
		w.Kind = WidgetFile
		w.InputType = "file"
		w.Accept = strings.Join(props.AcceptedFileTypes, ",")
		if w.Accept == "" && f.DataType == models.DataTypeImage {
			w.Accept = "image/*"
		}
		w.MaxFileSize = props.MaxFileSize
	case models.DataTypeTextArea:
		w.Kind = WidgetTextArea
		w.InputType = ""
		w.Rows = props.Rows
	}

	if f.DataType.IsTextual() && f.DataType != models.DataTypeTextArea {
		if props.IsMultiline {
			w.Kind = WidgetTextArea
			w.InputType = ""
			w.Rows = props.Rows
		} else if props.IsPassword {
			w.InputType = "password"
		}
	}
	return w
}

func sortedOptions(options []models.Option) []models.Option {
	out := append([]models.Option{}, options...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out
}
