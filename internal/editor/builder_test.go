// internal/editor/builder_test.go
package editor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/taxonomy-admin/internal/models"
	"github.com/javajoker/taxonomy-admin/internal/preview"
)

func namedField(name, label string, dt models.DataType, order int) models.FieldDefinition {
	f := models.NewFieldDefinition()
	f.FieldName = name
	f.FieldLabel = label
	f.DataType = dt
	f.DisplayOrder = order
	return f
}

type BuilderTestSuite struct {
	suite.Suite
	builder *Builder
	keys    []string
}

func TestBuilderTestSuite(t *testing.T) {
	suite.Run(t, new(BuilderTestSuite))
}

func (suite *BuilderTestSuite) SetupTest() {
	suite.builder = NewBuilder([]models.FieldDefinition{
		namedField("color", "Color", models.DataTypeDropdown, 3),
		namedField("size", "Size", models.DataTypeText, 1),
		namedField("weight", "Weight", models.DataTypeNumber, 3),
	})
	suite.keys = nil
	for _, e := range suite.builder.Entries() {
		suite.keys = append(suite.keys, e.Key)
	}
}

func (suite *BuilderTestSuite) TestKeysAreStableAndUnique() {
	suite.Len(suite.keys, 3)
	suite.NotEqual(suite.keys[0], suite.keys[1])
	suite.NotEqual(suite.keys[1], suite.keys[2])
}

func (suite *BuilderTestSuite) TestSortedIsStableByDisplayOrder() {
	sorted := suite.builder.Sorted()

	names := []string{}
	for _, e := range sorted {
		names = append(names, e.Field.FieldName)
	}
	suite.Equal([]string{"size", "color", "weight"}, names)

	// insertion order is untouched
	suite.Equal("color", suite.builder.Fields()[0].FieldName)
}

func (suite *BuilderTestSuite) TestAddFlow() {
	draft := suite.builder.OpenAdd()
	suite.Equal(models.DataTypeText, draft.DataType)
	suite.Equal(1, draft.DisplayOrder)

	_, err := suite.builder.CommitAdd()
	suite.ErrorIs(err, ErrDraftInvalid)
	suite.Equal(3, suite.builder.Len())
	_, open := suite.builder.Draft()
	suite.True(open)

	_, err = suite.builder.UpdateDraft(models.FieldPatch{"fieldName": "material", "fieldLabel": "Material"})
	suite.Require().NoError(err)

	entry, err := suite.builder.CommitAdd()
	suite.Require().NoError(err)

	suite.Equal(4, entry.Field.DisplayOrder)
	suite.Equal(entry.Key, suite.builder.Expanded())
	suite.Equal(4, suite.builder.Len())
	_, open = suite.builder.Draft()
	suite.False(open)
}

func (suite *BuilderTestSuite) TestAddRequiresNameAndLabel() {
	_, err := suite.builder.Add(namedField("", "Label", models.DataTypeText, 1))
	suite.ErrorIs(err, ErrDraftInvalid)

	_, err = suite.builder.Add(namedField("name", "", models.DataTypeText, 1))
	suite.ErrorIs(err, ErrDraftInvalid)

	_, err = suite.builder.Add(namedField("has space", "Label", models.DataTypeText, 1))
	suite.ErrorIs(err, ErrDraftInvalid)

	suite.Equal(3, suite.builder.Len())
}

func (suite *BuilderTestSuite) TestAddOnEmptyBuilderStartsAtOne() {
	b := NewBuilder(nil)
	entry, err := b.Add(namedField("a", "A", models.DataTypeText, 9))
	suite.Require().NoError(err)
	suite.Equal(1, entry.Field.DisplayOrder)
}

func (suite *BuilderTestSuite) TestCancelAdd() {
	suite.builder.OpenAdd()
	suite.builder.CancelAdd()

	_, err := suite.builder.UpdateDraft(models.FieldPatch{"fieldName": "x"})
	suite.ErrorIs(err, ErrNoDraft)
	_, err = suite.builder.CommitAdd()
	suite.ErrorIs(err, ErrNoDraft)
}

func (suite *BuilderTestSuite) TestRemoveRequiresConfirmation() {
	_, err := suite.builder.Toggle(suite.keys[1])
	suite.Require().NoError(err)

	err = suite.builder.Remove(suite.keys[1], false)
	suite.ErrorIs(err, ErrConfirmationRequired)
	suite.Equal(3, suite.builder.Len())
	suite.Equal(suite.keys[1], suite.builder.Expanded())

	suite.Require().NoError(suite.builder.Remove(suite.keys[1], true))
	suite.Equal(2, suite.builder.Len())
	suite.Equal("", suite.builder.Expanded())

	_, err = suite.builder.Get(suite.keys[1])
	suite.ErrorIs(err, ErrFieldNotFound)

	// remaining keys still address the same fields
	entry, err := suite.builder.Get(suite.keys[2])
	suite.Require().NoError(err)
	suite.Equal("weight", entry.Field.FieldName)
}

func (suite *BuilderTestSuite) TestUpdateMergesShallowly() {
	entry, err := suite.builder.Update(suite.keys[1], models.FieldPatch{"isRequired": true, "placeholder": "M"})
	suite.Require().NoError(err)

	suite.True(entry.Field.IsRequired)
	suite.Equal("M", entry.Field.Placeholder)
	suite.Equal("Size", entry.Field.FieldLabel)
	suite.Equal(1, entry.Field.DisplayOrder)
}

func (suite *BuilderTestSuite) TestUpdateDataTypeOptionsRule() {
	_, err := suite.builder.AddOption(suite.keys[0])
	suite.Require().NoError(err)

	entry, err := suite.builder.Update(suite.keys[0], models.FieldPatch{"dataType": "MultiSelect"})
	suite.Require().NoError(err)
	suite.Len(entry.Field.Options, 1)

	entry, err = suite.builder.Update(suite.keys[0], models.FieldPatch{"dataType": "Text"})
	suite.Require().NoError(err)
	suite.Empty(entry.Field.Options)
	suite.NotNil(entry.Field.Options)
}

func (suite *BuilderTestSuite) TestUpdateRejectsBadInput() {
	_, err := suite.builder.Update(suite.keys[0], models.FieldPatch{"dataType": "Color"})
	suite.ErrorIs(err, ErrInvalidDataType)

	_, err = suite.builder.Update(suite.keys[0], models.FieldPatch{"nope": 1})
	suite.ErrorIs(err, ErrInvalidValue)

	_, err = suite.builder.Update("missing", models.FieldPatch{"isRequired": true})
	suite.ErrorIs(err, ErrFieldNotFound)

	entry, err := suite.builder.Get(suite.keys[0])
	suite.Require().NoError(err)
	suite.Equal(models.DataTypeDropdown, entry.Field.DataType)
}

func (suite *BuilderTestSuite) TestToggle() {
	expanded, err := suite.builder.Toggle(suite.keys[0])
	suite.Require().NoError(err)
	suite.Equal(suite.keys[0], expanded)

	expanded, err = suite.builder.Toggle(suite.keys[2])
	suite.Require().NoError(err)
	suite.Equal(suite.keys[2], expanded)

	expanded, err = suite.builder.Toggle(suite.keys[2])
	suite.Require().NoError(err)
	suite.Equal("", expanded)
}

func (suite *BuilderTestSuite) TestDependencyCandidatesExcludeSelfAndUnnamed() {
	_, err := suite.builder.Update(suite.keys[2], models.FieldPatch{"fieldName": ""})
	suite.Require().NoError(err)

	candidates, err := suite.builder.DependencyCandidates(suite.keys[0])
	suite.Require().NoError(err)
	suite.Equal([]Candidate{{FieldName: "size", Label: "Size"}}, candidates)

	suite.builder.OpenAdd()
	candidates, err = suite.builder.DependencyCandidates(DraftKey)
	suite.Require().NoError(err)
	suite.Len(candidates, 2)
}

func (suite *BuilderTestSuite) TestReturnedFieldsDoNotAlias() {
	fields := suite.builder.Fields()
	fields[0].FieldName = "changed"

	entry, err := suite.builder.Get(suite.keys[0])
	require.NoError(suite.T(), err)
	suite.Equal("color", entry.Field.FieldName)
}

func TestNewBuilderNormalizesLoadedFields(t *testing.T) {
	zero := 0
	f := models.FieldDefinition{FieldName: "a", FieldGroupOrder: &zero}

	b := NewBuilder([]models.FieldDefinition{f})

	got := b.Fields()[0]
	assert.Equal(t, models.DataTypeText, got.DataType)
	assert.Nil(t, got.FieldGroupOrder)
}

func groupNames(layout preview.Layout) []string {
	names := []string{}
	for _, g := range layout.Groups {
		names = append(names, g.Name)
	}
	return names
}

func TestZeroGroupOrderSurvivesSaveRoundTrip(t *testing.T) {
	one := 1
	a := namedField("a", "A", models.DataTypeText, 1)
	a.FieldGroup = "G1"
	b := namedField("b", "B", models.DataTypeText, 2)
	b.FieldGroup = "G2"
	b.FieldGroupOrder = &one

	builder := NewBuilder([]models.FieldDefinition{a, b})
	entry, err := builder.Update(builder.Entries()[0].Key, models.FieldPatch{"fieldGroupOrder": 0})
	require.NoError(t, err)
	assert.Nil(t, entry.Field.FieldGroupOrder)

	live := groupNames(preview.BuildLayout(builder.Fields(), models.FormValues{}, nil))
	assert.Equal(t, []string{"G2", "G1"}, live)

	raw, err := json.Marshal(models.SerializeFields(builder.Fields()))
	require.NoError(t, err)
	reloaded, err := models.DecodeFieldDefinitions(raw)
	require.NoError(t, err)

	after := groupNames(preview.BuildLayout(NewBuilder(reloaded).Fields(), models.FormValues{}, nil))
	assert.Equal(t, live, after)
}

func TestLayoutTreatsZeroGroupOrderAsUnset(t *testing.T) {
	zero, one := 0, 1
	a := namedField("a", "A", models.DataTypeText, 1)
	a.FieldGroup = "G1"
	a.FieldGroupOrder = &zero
	b := namedField("b", "B", models.DataTypeText, 2)
	b.FieldGroup = "G2"
	b.FieldGroupOrder = &one

	layout := preview.BuildLayout([]models.FieldDefinition{a, b}, models.FormValues{}, nil)
	assert.Equal(t, []string{"G2", "G1"}, groupNames(layout))
}
