// internal/models/product_type_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PayloadTestSuite struct {
	suite.Suite
	fields []FieldDefinition
}

func TestPayloadTestSuite(t *testing.T) {
	suite.Run(t, new(PayloadTestSuite))
}

func (suite *PayloadTestSuite) SetupTest() {
	minLen := 2
	groupOrder := 3

	size := NewFieldDefinition()
	size.ID = "f-1"
	size.FieldName = "size"
	size.FieldLabel = "Size"
	size.DataType = DataTypeDropdown
	size.FieldGroup = "Dimensions"
	size.FieldGroupOrder = &groupOrder
	size.Options = []Option{
		{ID: "o-1", OptionValue: "s", OptionLabel: "Small", DisplayOrder: 1},
		{OptionValue: "l", OptionLabel: "Large", DisplayOrder: 2},
	}

	note := NewFieldDefinition()
	note.FieldName = "note"
	note.FieldLabel = "Note"
	note.DisplayOrder = 2
	note.ValidationRules = &ValidationRules{MinLength: &minLen}
	note.FieldProperties = &FieldProperties{}
	note.ConditionalRules = &ConditionalRule{ShowIf: "size", Operator: OperatorEquals, Value: "l"}

	suite.fields = []FieldDefinition{size, note}
}

func (suite *PayloadTestSuite) TestSerializeUsesNullsForEmptyOptionals() {
	body, err := json.Marshal(SerializeFields(suite.fields))
	suite.Require().NoError(err)

	var out []map[string]any
	suite.Require().NoError(json.Unmarshal(body, &out))
	suite.Require().Len(out, 2)

	size, note := out[0], out[1]
	suite.Equal("f-1", size["id"])
	suite.Equal("Dimensions", size["fieldGroup"])
	suite.Equal(float64(3), size["fieldGroupOrder"])
	suite.Nil(size["validationRules"])
	suite.Contains(size, "validationRules")

	options := size["options"].([]any)
	suite.Equal("o-1", options[0].(map[string]any)["id"])
	suite.NotContains(options[1].(map[string]any), "id")

	suite.NotContains(note, "id")
	suite.Nil(note["fieldDescription"])
	suite.Contains(note, "fieldDescription")
	suite.Nil(note["placeholder"])
	suite.Nil(note["fieldGroup"])
	suite.Nil(note["fieldGroupOrder"])
	suite.Nil(note["defaultValue"])
	suite.Nil(note["fieldProperties"])
	suite.Equal(map[string]any{"minLength": float64(2)}, note["validationRules"])
	suite.Equal(map[string]any{"showIf": "size", "operator": "equals", "value": "l"}, note["conditionalRules"])
}

func (suite *PayloadTestSuite) TestRoundTripIsFixedPoint() {
	first, err := json.Marshal(SerializeFields(suite.fields))
	suite.Require().NoError(err)

	decoded, err := DecodeFieldDefinitions(first)
	suite.Require().NoError(err)

	second, err := json.Marshal(SerializeFields(decoded))
	suite.Require().NoError(err)

	suite.JSONEq(string(first), string(second))
}

func (suite *PayloadTestSuite) TestNewProductTypePayloadDefaultsOrder() {
	payload := NewProductTypePayload(ProductType{TypeName: "Shirt"}, suite.fields)

	suite.Equal(1, payload.DisplayOrder)
	suite.Len(payload.FieldDefinitions, 2)
}

func TestDecodeFieldDefinitionsNormalizesCasing(t *testing.T) {
	raw := []byte(`[{
		"FieldDefinitionId": 42,
		"FieldName": "weight",
		"FieldLabel": "Weight",
		"DataType": "Decimal",
		"IsRequired": true,
		"DisplayOrder": 4,
		"FieldGroupOrder": 0,
		"ValidationRules": {"MinValue": 0.5, "MaxValue": 10},
		"FieldProperties": {"Step": 0.1, "CssClass": "w-1/2"},
		"ConditionalRules": {"ShowIf": "kind", "Operator": "notEquals", "Value": "digital"},
		"Options": [],
		"Placeholder": null
	}]`)

	fields, err := DecodeFieldDefinitions(raw)
	require.NoError(t, err)
	require.Len(t, fields, 1)

	f := fields[0]
	assert.Equal(t, "42", f.ID)
	assert.Equal(t, "weight", f.FieldName)
	assert.Equal(t, DataTypeDecimal, f.DataType)
	assert.True(t, f.IsRequired)
	assert.Nil(t, f.FieldGroupOrder)
	assert.Equal(t, "", f.Placeholder)
	require.NotNil(t, f.ValidationRules)
	assert.Equal(t, 0.5, *f.ValidationRules.MinValue)
	assert.Equal(t, 10.0, *f.ValidationRules.MaxValue)
	require.NotNil(t, f.FieldProperties)
	assert.Equal(t, 0.1, *f.FieldProperties.Step)
	assert.Equal(t, "w-1/2", f.FieldProperties.CSSClass)
	assert.Equal(t, OperatorNotEquals, f.ConditionalRules.Operator)
	assert.NotNil(t, f.Options)
}

func TestDecodeFieldDefinitionsDefaults(t *testing.T) {
	fields, err := DecodeFieldDefinitions([]byte(`[{"id":"a","fieldName":"x"}]`))
	require.NoError(t, err)
	assert.Equal(t, DataTypeText, fields[0].DataType)
	assert.Equal(t, "a", fields[0].ID)

	fields, err = DecodeFieldDefinitions([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, fields)

	_, err = DecodeFieldDefinitions([]byte(`{`))
	assert.Error(t, err)
}

func TestNormalizeKeys(t *testing.T) {
	in := map[string]any{
		"FieldName": "a",
		"Nested":    map[string]any{"MinLength": 1, "already": true},
		"List":      []any{map[string]any{"OptionValue": "x"}},
		"":          "empty",
	}

	out := NormalizeKeys(in).(map[string]any)

	assert.Equal(t, "a", out["fieldName"])
	assert.Equal(t, map[string]any{"minLength": 1, "already": true}, out["nested"])
	assert.Equal(t, []any{map[string]any{"optionValue": "x"}}, out["list"])
	assert.Equal(t, "empty", out[""])
	assert.Equal(t, "a", in["FieldName"])
}

func TestExtractID(t *testing.T) {
	assert.Equal(t, "7", ExtractID([]byte(`{"id":7}`)))
	assert.Equal(t, "abc", ExtractID([]byte(`{"Id":"abc"}`)))
	assert.Equal(t, "p-1", ExtractID([]byte(`{"productTypeId":"p-1"}`)))
	assert.Equal(t, "p-2", ExtractID([]byte(`{"ProductTypeId":"p-2"}`)))
	assert.Equal(t, "d-1", ExtractID([]byte(`{"success":true,"data":{"Id":"d-1"}}`)))
	assert.Equal(t, "", ExtractID([]byte(`[]`)))
	assert.Equal(t, "", ExtractID([]byte(`not json`)))
}
