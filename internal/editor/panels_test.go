// internal/editor/panels_test.go
package editor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/taxonomy-admin/internal/models"
)

func TestValidationRulesPanel(t *testing.T) {
	panel := ValidationRulesPanel{DataType: models.DataTypeText}

	rules, err := panel.Set(nil, "minLength", float64(2))
	require.NoError(t, err)
	require.NotNil(t, rules.MinLength)
	assert.Equal(t, 2, *rules.MinLength)

	rules, err = panel.Set(rules, "pattern", "^[a-z]+$")
	require.NoError(t, err)
	assert.Equal(t, "^[a-z]+$", rules.Pattern)

	rules, err = panel.Set(rules, "minLength", "")
	require.NoError(t, err)
	assert.Nil(t, rules.MinLength)

	rules, err = panel.Set(rules, "pattern", "")
	require.NoError(t, err)
	assert.Nil(t, rules, "empty record prunes to nil")
}

func TestValidationRulesPanelScopesKeys(t *testing.T) {
	_, err := ValidationRulesPanel{DataType: models.DataTypeNumber}.Set(nil, "minLength", 1)
	assert.ErrorIs(t, err, ErrKeyNotScoped)

	rules, err := ValidationRulesPanel{DataType: models.DataTypeNumber}.Set(nil, "minValue", "0")
	require.NoError(t, err)
	assert.Equal(t, 0.0, *rules.MinValue)

	_, err = ValidationRulesPanel{DataType: models.DataTypeDate}.Set(nil, "maxValue", 1)
	assert.ErrorIs(t, err, ErrKeyNotScoped)
}

func TestValidationRulesPanelRejectsBadInput(t *testing.T) {
	panel := ValidationRulesPanel{DataType: models.DataTypePhone}
	original := &models.ValidationRules{Pattern: "^1"}

	out, err := panel.Set(original, "pattern", "([0-9")
	assert.ErrorIs(t, err, ErrInvalidPattern)
	assert.Same(t, original, out)
	assert.Equal(t, "^1", original.Pattern)

	_, err = panel.Set(nil, "minLength", 1.5)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = panel.Set(nil, "maxLength", -1)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = panel.Set(nil, "maxLength", "ten")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = panel.Set(nil, "maxLength", "1e30")
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.ErrorContains(t, err, "maxLength is too large")

	rules, err := panel.Set(nil, "maxLength", float64(math.MaxInt32))
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt32, *rules.MaxLength)
}

func TestFieldPropertiesPanelBoundsWholeNumbers(t *testing.T) {
	file := FieldPropertiesPanel{DataType: models.DataTypeFile}

	props, err := file.Set(nil, "maxFileSize", "5368709120")
	require.NoError(t, err)
	assert.Equal(t, int64(5368709120), *props.MaxFileSize)

	_, err = file.Set(nil, "maxFileSize", "1e300")
	assert.ErrorContains(t, err, "maxFileSize is too large")

	text := FieldPropertiesPanel{DataType: models.DataTypeTextArea}
	_, err = text.Set(nil, "rows", "1e30")
	assert.ErrorContains(t, err, "rows is too large")
}

func TestFieldPropertiesPanel(t *testing.T) {
	text := FieldPropertiesPanel{DataType: models.DataTypeTextArea}

	props, err := text.Set(nil, "isMultiline", true)
	require.NoError(t, err)
	assert.True(t, props.IsMultiline)

	props, err = text.Set(props, "rows", float64(4))
	require.NoError(t, err)
	assert.Equal(t, 4, *props.Rows)

	props, err = text.Set(props, "isMultiline", false)
	require.NoError(t, err)
	assert.False(t, props.IsMultiline)
	assert.NotNil(t, props)

	_, err = text.Set(props, "rows", 0)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = text.Set(props, "step", 1)
	assert.ErrorIs(t, err, ErrKeyNotScoped)

	_, err = text.Set(props, "width", "40%")
	assert.ErrorIs(t, err, ErrInvalidValue)

	props, err = text.Set(props, "width", "50%")
	require.NoError(t, err)
	assert.Equal(t, "50%", props.Width)
}

func TestFieldPropertiesPanelFileKeys(t *testing.T) {
	file := FieldPropertiesPanel{DataType: models.DataTypeImage}

	props, err := file.Set(nil, "acceptedFileTypes", ".png, .jpg,")
	require.NoError(t, err)
	assert.Equal(t, []string{".png", ".jpg"}, props.AcceptedFileTypes)

	props, err = file.Set(props, "maxFileSize", float64(10485760))
	require.NoError(t, err)
	assert.Equal(t, int64(10485760), *props.MaxFileSize)

	props, err = file.Set(props, "acceptedFileTypes", []any{})
	require.NoError(t, err)
	assert.Empty(t, props.AcceptedFileTypes)

	props, err = file.Set(props, "maxFileSize", nil)
	require.NoError(t, err)
	assert.Nil(t, props)
}

func TestConditionalRulePanel(t *testing.T) {
	panel := ConditionalRulePanel{Candidates: []Candidate{{FieldName: "country", Label: "Country"}}}

	rule, err := panel.Set(nil, "showIf", "country")
	require.NoError(t, err)
	assert.Equal(t, "country", rule.ShowIf)

	rule, err = panel.Set(rule, "operator", "greaterThan")
	require.NoError(t, err)
	assert.Equal(t, models.OperatorGreaterThan, rule.Operator)

	_, err = panel.Set(rule, "operator", "between")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = panel.Set(rule, "showIf", "state")
	assert.ErrorIs(t, err, ErrInvalidDependency)

	_, err = panel.Set(rule, "other", "x")
	assert.ErrorIs(t, err, ErrKeyNotScoped)

	rule, err = panel.Set(rule, "showIf", "")
	require.NoError(t, err)
	rule, err = panel.Set(rule, "operator", "")
	require.NoError(t, err)
	assert.Nil(t, rule)
}

func TestOptionsPanel(t *testing.T) {
	panel := OptionsPanel{}

	options := panel.Add(nil)
	require.Len(t, options, 1)
	assert.Equal(t, 1, options[0].DisplayOrder)

	options[0].DisplayOrder = 5
	options = panel.Add(options)
	assert.Equal(t, 6, options[1].DisplayOrder)

	value, zero := "sedan", 0
	updated, err := panel.Update(options, 1, OptionPatch{OptionValue: &value, DisplayOrder: &zero})
	require.NoError(t, err)
	assert.Equal(t, "sedan", updated[1].OptionValue)
	assert.Equal(t, 1, updated[1].DisplayOrder)
	assert.Equal(t, "", options[1].OptionValue)

	removed, err := panel.Remove(updated, 0)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "sedan", removed[0].OptionValue)
	assert.Len(t, updated, 2)

	_, err = panel.Remove(removed, 3)
	assert.ErrorIs(t, err, ErrOptionNotFound)
}

func TestBuilderPanelsOnDraftAndEntries(t *testing.T) {
	b := NewBuilder([]models.FieldDefinition{namedField("country", "Country", models.DataTypeDropdown, 1)})
	key := b.Entries()[0].Key

	b.OpenAdd()
	_, err := b.UpdateDraft(models.FieldPatch{"fieldName": "state", "fieldLabel": "State"})
	require.NoError(t, err)

	draft, err := b.SetConditionalRule(DraftKey, "showIf", "country")
	require.NoError(t, err)
	assert.Equal(t, "country", draft.ConditionalRules.ShowIf)

	_, err = b.SetConditionalRule(key, "showIf", "country")
	assert.ErrorIs(t, err, ErrInvalidDependency)

	_, err = b.AddOption(DraftKey)
	assert.ErrorIs(t, err, ErrOptionsNotSupported)

	f, err := b.AddOption(key)
	require.NoError(t, err)
	assert.Len(t, f.Options, 1)

	us := "us"
	f, err = b.UpdateOption(key, 0, OptionPatch{OptionValue: &us, OptionLabel: &us})
	require.NoError(t, err)
	assert.Equal(t, "us", f.Options[0].OptionValue)

	f, err = b.SetFieldProperty(key, "isSearchable", true)
	require.NoError(t, err)
	assert.True(t, f.FieldProperties.IsSearchable)

	_, err = b.SetValidationRule(key, "minLength", 3)
	assert.ErrorIs(t, err, ErrKeyNotScoped)

	entry, err := b.CommitAdd()
	require.NoError(t, err)
	assert.Equal(t, "country", entry.Field.ConditionalRules.ShowIf)

	f, err = b.RemoveOption(key, 0)
	require.NoError(t, err)
	assert.Empty(t, f.Options)
}
