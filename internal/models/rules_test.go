// internal/models/rules_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrune(t *testing.T) {
	assert.Nil(t, Prune((*ValidationRules)(nil)))
	assert.Nil(t, Prune(&ValidationRules{}))
	assert.Nil(t, Prune(&FieldProperties{}))
	assert.Nil(t, Prune(&ConditionalRule{}))

	zero := 0
	rules := &ValidationRules{MinLength: &zero}
	assert.Same(t, rules, Prune(rules))

	props := &FieldProperties{IsPassword: true}
	assert.Same(t, props, Prune(props))
}

func TestPruneMap(t *testing.T) {
	assert.Nil(t, PruneMap(nil))
	assert.Nil(t, PruneMap(map[string]any{"a": nil, "b": "", "c": false}))

	out := PruneMap(map[string]any{"a": nil, "b": "x", "c": true, "d": 0.0})
	assert.Equal(t, map[string]any{"b": "x", "c": true, "d": 0.0}, out)
}

func TestScopedKeys(t *testing.T) {
	assert.Equal(t, []string{"minLength", "maxLength", "pattern", "customValidation"}, ValidationRuleKeys(DataTypeEmail))
	assert.Equal(t, []string{"minValue", "maxValue", "pattern", "customValidation"}, ValidationRuleKeys(DataTypeCurrency))
	assert.Equal(t, []string{"pattern", "customValidation"}, ValidationRuleKeys(DataTypeDate))

	assert.Equal(t, []string{"step", "min", "max", "cssClass", "width"}, FieldPropertyKeys(DataTypeNumber))
	assert.Equal(t, []string{"isPassword", "isMultiline", "rows", "cssClass", "width"}, FieldPropertyKeys(DataTypeText))
	assert.Equal(t, []string{"acceptedFileTypes", "maxFileSize", "cssClass", "width"}, FieldPropertyKeys(DataTypeImage))
	assert.Equal(t, []string{"isSearchable", "allowCustomValue", "cssClass", "width"}, FieldPropertyKeys(DataTypeDropdown))
	assert.Equal(t, []string{"cssClass", "width"}, FieldPropertyKeys(DataTypeBoolean))
}

func TestRulesClone(t *testing.T) {
	var nilRules *ValidationRules
	assert.Nil(t, nilRules.Clone())

	max := 2.0
	props := &FieldProperties{Max: &max, AcceptedFileTypes: []string{".png"}}
	c := props.Clone()
	*c.Max = 5
	c.AcceptedFileTypes[0] = ".jpg"

	assert.Equal(t, 2.0, *props.Max)
	assert.Equal(t, ".png", props.AcceptedFileTypes[0])
}
