// internal/models/product_type.go
package models

import (
	"encoding/json"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ProductType is the owner of a field definition set.
type ProductType struct {
	ID           string `json:"id,omitempty"`
	CategoryID   string `json:"categoryId,omitempty"`
	TypeName     string `json:"typeName" validate:"required,max=100"`
	Description  string `json:"description" validate:"max=500"`
	IconClass    string `json:"iconClass" validate:"max=50"`
	DisplayOrder int    `json:"displayOrder" validate:"min=0"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// ProductTypePayload is the body sent to the persistence API on save.
type ProductTypePayload struct {
	TypeName         string                   `json:"typeName"`
	Description      string                   `json:"description"`
	IconClass        string                   `json:"iconClass"`
	DisplayOrder     int                      `json:"displayOrder"`
	FieldDefinitions []FieldDefinitionPayload `json:"fieldDefinitions"`
}

// FieldDefinitionPayload mirrors FieldDefinition with explicit nulls for
// empty optional attributes.
type FieldDefinitionPayload struct {
	ID               string           `json:"id,omitempty"`
	FieldName        string           `json:"fieldName"`
	FieldLabel       string           `json:"fieldLabel"`
	FieldDescription *string          `json:"fieldDescription"`
	Placeholder      *string          `json:"placeholder"`
	DataType         DataType         `json:"dataType"`
	IsRequired       bool             `json:"isRequired"`
	IsUnique         bool             `json:"isUnique"`
	DisplayOrder     int              `json:"displayOrder"`
	FieldGroup       *string          `json:"fieldGroup"`
	FieldGroupOrder  *int             `json:"fieldGroupOrder"`
	DefaultValue     *string          `json:"defaultValue"`
	ValidationRules  *ValidationRules `json:"validationRules"`
	ConditionalRules *ConditionalRule `json:"conditionalRules"`
	FieldProperties  *FieldProperties `json:"fieldProperties"`
	Options          []Option         `json:"options"`
}

// NewProductTypePayload assembles the save body for a product type and its
// current field list.
func NewProductTypePayload(pt ProductType, fields []FieldDefinition) ProductTypePayload {
	order := pt.DisplayOrder
	if order <= 0 {
		order = 1
	}
	return ProductTypePayload{
		TypeName:         pt.TypeName,
		Description:      pt.Description,
		IconClass:        pt.IconClass,
		DisplayOrder:     order,
		FieldDefinitions: SerializeFields(fields),
	}
}

func SerializeFields(fields []FieldDefinition) []FieldDefinitionPayload {
	out := make([]FieldDefinitionPayload, 0, len(fields))
	for _, f := range fields {
		out = append(out, SerializeField(f))
	}
	return out
}

func SerializeField(f FieldDefinition) FieldDefinitionPayload {
	var groupOrder *int
	if f.FieldGroupOrder != nil && *f.FieldGroupOrder != 0 {
		v := *f.FieldGroupOrder
		groupOrder = &v
	}

	options := make([]Option, 0, len(f.Options))
	for _, o := range f.Options {
		options = append(options, Option{
			ID:           o.ID,
			OptionValue:  o.OptionValue,
			OptionLabel:  o.OptionLabel,
			DisplayOrder: o.DisplayOrder,
		})
	}

	return FieldDefinitionPayload{
		ID:               f.ID,
		FieldName:        f.FieldName,
		FieldLabel:       f.FieldLabel,
		FieldDescription: nullable(f.FieldDescription),
		Placeholder:      nullable(f.Placeholder),
		DataType:         f.DataType,
		IsRequired:       f.IsRequired,
		IsUnique:         f.IsUnique,
		DisplayOrder:     f.DisplayOrder,
		FieldGroup:       nullable(f.FieldGroup),
		FieldGroupOrder:  groupOrder,
		DefaultValue:     nullable(f.DefaultValue),
		ValidationRules:  Prune(f.ValidationRules.Clone()),
		ConditionalRules: Prune(cloneRule(f.ConditionalRules)),
		FieldProperties:  Prune(f.FieldProperties.Clone()),
		Options:          options,
	}
}

// storedField is the tolerant shape of a field record coming back from the
// persistence API after key normalization.
type storedField struct {
	ID                any              `json:"id"`
	FieldDefinitionID any              `json:"fieldDefinitionId"`
	FieldName         string           `json:"fieldName"`
	FieldLabel        string           `json:"fieldLabel"`
	FieldDescription  *string          `json:"fieldDescription"`
	Placeholder       *string          `json:"placeholder"`
	DataType          DataType         `json:"dataType"`
	IsRequired        bool             `json:"isRequired"`
	IsUnique          bool             `json:"isUnique"`
	DisplayOrder      int              `json:"displayOrder"`
	FieldGroup        *string          `json:"fieldGroup"`
	FieldGroupOrder   *int             `json:"fieldGroupOrder"`
	DefaultValue      *string          `json:"defaultValue"`
	ValidationRules   *ValidationRules `json:"validationRules"`
	ConditionalRules  *ConditionalRule `json:"conditionalRules"`
	FieldProperties   *FieldProperties `json:"fieldProperties"`
	Options           []storedOption   `json:"options"`
}

type storedOption struct {
	ID           any    `json:"id"`
	OptionValue  string `json:"optionValue"`
	OptionLabel  string `json:"optionLabel"`
	DisplayOrder int    `json:"displayOrder"`
}

// DecodeFieldDefinitions reconstitutes editor state from a persisted field
// list, lower-camel-casing any PascalCase keys first.
func DecodeFieldDefinitions(raw []byte) ([]FieldDefinition, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("failed to decode field definitions: %w", err)
	}
	if generic == nil {
		return []FieldDefinition{}, nil
	}

	normalized, err := json.Marshal(NormalizeKeys(generic))
	if err != nil {
		return nil, fmt.Errorf("failed to encode normalized field definitions: %w", err)
	}

	var stored []storedField
	if err := json.Unmarshal(normalized, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode field definitions: %w", err)
	}

	fields := make([]FieldDefinition, 0, len(stored))
	for _, s := range stored {
		fields = append(fields, s.toFieldDefinition())
	}
	return fields, nil
}

func (s storedField) toFieldDefinition() FieldDefinition {
	id := idString(s.FieldDefinitionID)
	if id == "" {
		id = idString(s.ID)
	}

	var groupOrder *int
	if s.FieldGroupOrder != nil && *s.FieldGroupOrder != 0 {
		v := *s.FieldGroupOrder
		groupOrder = &v
	}

	options := make([]Option, 0, len(s.Options))
	for _, o := range s.Options {
		options = append(options, Option{
			ID:           idString(o.ID),
			OptionValue:  o.OptionValue,
			OptionLabel:  o.OptionLabel,
			DisplayOrder: o.DisplayOrder,
		})
	}

	dataType := s.DataType
	if dataType == "" {
		dataType = DataTypeText
	}

	return FieldDefinition{
		ID:               id,
		FieldName:        s.FieldName,
		FieldLabel:       s.FieldLabel,
		FieldDescription: deref(s.FieldDescription),
		Placeholder:      deref(s.Placeholder),
		DataType:         dataType,
		IsRequired:       s.IsRequired,
		IsUnique:         s.IsUnique,
		DisplayOrder:     s.DisplayOrder,
		FieldGroup:       deref(s.FieldGroup),
		FieldGroupOrder:  groupOrder,
		DefaultValue:     deref(s.DefaultValue),
		ValidationRules:  s.ValidationRules,
		ConditionalRules: s.ConditionalRules,
		FieldProperties:  s.FieldProperties,
		Options:          options,
	}
}

type storedProductType struct {
	ID            any    `json:"id"`
	ProductTypeID any    `json:"productTypeId"`
	CategoryID    any    `json:"categoryId"`
	TypeName      string `json:"typeName"`
	Description   string `json:"description"`
	IconClass     string `json:"iconClass"`
	DisplayOrder  int    `json:"displayOrder"`
	ThumbnailURL  string `json:"thumbnailUrl"`
}

// DecodeProductTypes reads a product type list, bare or wrapped in a data
// envelope, with any key casing.
func DecodeProductTypes(raw []byte) ([]ProductType, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("failed to decode product types: %w", err)
	}
	generic = NormalizeKeys(generic)
	if envelope, ok := generic.(map[string]any); ok {
		generic = envelope["data"]
	}
	if generic == nil {
		return []ProductType{}, nil
	}

	normalized, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("failed to encode normalized product types: %w", err)
	}
	var stored []storedProductType
	if err := json.Unmarshal(normalized, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode product types: %w", err)
	}

	types := make([]ProductType, 0, len(stored))
	for _, s := range stored {
		id := idString(s.ID)
		if id == "" {
			id = idString(s.ProductTypeID)
		}
		types = append(types, ProductType{
			ID:           id,
			CategoryID:   idString(s.CategoryID),
			TypeName:     s.TypeName,
			Description:  s.Description,
			IconClass:    s.IconClass,
			DisplayOrder: s.DisplayOrder,
			ThumbnailURL: s.ThumbnailURL,
		})
	}
	return types, nil
}

// NormalizeKeys lowers the first rune of every object key, recursively.
func NormalizeKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, child := range val {
			out[lowerFirst(key)] = NormalizeKeys(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = NormalizeKeys(child)
		}
		return out
	default:
		return v
	}
}

// ExtractID reads the identifier of a created record, whatever casing the
// server used for it.
func ExtractID(raw []byte) string {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return ""
	}
	record, ok := NormalizeKeys(generic).(map[string]any)
	if !ok {
		return ""
	}
	if data, ok := record["data"].(map[string]any); ok {
		record = data
	}
	for _, key := range []string{"id", "productTypeId"} {
		if id := idString(record[key]); id != "" {
			return id
		}
	}
	return ""
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func idString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		if id == 0 {
			return ""
		}
		return Stringify(id)
	default:
		return fmt.Sprint(id)
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func cloneRule(r *ConditionalRule) *ConditionalRule {
	if r == nil {
		return nil
	}
	out := *r
	return &out
}
