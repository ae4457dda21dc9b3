// internal/preview/layout.go
package preview

import (
	"math"
	"sort"

	"github.com/javajoker/taxonomy-admin/internal/models"
	"github.com/javajoker/taxonomy-admin/internal/schema"
)

// FieldView is one rendered field of the preview form.
type FieldView struct {
	FieldName   string `json:"fieldName"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	Widget      Widget `json:"widget"`
	Value       any    `json:"value"`
	Error       string `json:"error,omitempty"`
}

type Group struct {
	Name   string      `json:"name"`
	Order  *int        `json:"order"`
	Fields []FieldView `json:"fields"`
}

// Layout is the render tree of the preview: ungrouped fields first, then
// groups by group order.
type Layout struct {
	Ungrouped []FieldView `json:"ungrouped"`
	Groups    []Group     `json:"groups"`
	Hidden    []string    `json:"hidden"`
}

// OrderFields sorts by displayOrder, keeping insertion order for ties.
func OrderFields(fields []models.FieldDefinition) []models.FieldDefinition {
	out := make([]models.FieldDefinition, len(fields))
	copy(out, fields)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out
}

// BuildLayout arranges the visible fields for values. Hidden fields are left
// out of the tree and listed by name; their values are not touched.
func BuildLayout(fields []models.FieldDefinition, values models.FormValues, errors map[string]string) Layout {
	layout := Layout{
		Ungrouped: []FieldView{},
		Groups:    []Group{},
		Hidden:    []string{},
	}

	type bucket struct {
		group Group
		rank  float64
		first int
	}
	var buckets []*bucket
	byName := make(map[string]*bucket)

	for _, f := range OrderFields(fields) {
		if !schema.EvaluateCondition(f.ConditionalRules, values) {
			if f.FieldName != "" {
				layout.Hidden = append(layout.Hidden, f.FieldName)
			}
			continue
		}

		view := newFieldView(f, values, errors)
		if f.FieldGroup == "" {
			layout.Ungrouped = append(layout.Ungrouped, view)
			continue
		}

		b, ok := byName[f.FieldGroup]
		if !ok {
			b = &bucket{group: Group{Name: f.FieldGroup, Fields: []FieldView{}}, rank: math.Inf(1), first: len(buckets)}
			byName[f.FieldGroup] = b
			buckets = append(buckets, b)
		}
		// A group order of 0 means unset, as it does in the save payload.
		if b.group.Order == nil && f.FieldGroupOrder != nil && *f.FieldGroupOrder != 0 {
			order := *f.FieldGroupOrder
			b.group.Order = &order
			b.rank = float64(order)
		}
		b.group.Fields = append(b.group.Fields, view)
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].rank != buckets[j].rank {
			return buckets[i].rank < buckets[j].rank
		}
		return buckets[i].first < buckets[j].first
	})
	for _, b := range buckets {
		layout.Groups = append(layout.Groups, b.group)
	}
	return layout
}

// Order flattens the layout into the rendered field name sequence.
func (l Layout) Order() []string {
	names := []string{}
	for _, v := range l.Ungrouped {
		names = append(names, v.FieldName)
	}
	for _, g := range l.Groups {
		for _, v := range g.Fields {
			names = append(names, v.FieldName)
		}
	}
	return names
}

func newFieldView(f models.FieldDefinition, values models.FormValues, errors map[string]string) FieldView {
	view := FieldView{
		FieldName:   f.FieldName,
		Label:       f.Label(),
		Description: f.FieldDescription,
		Required:    f.IsRequired,
		Widget:      WidgetFor(f),
		Value:       values[f.FieldName],
	}
	if f.FieldName != "" {
		view.Error = errors[f.FieldName]
	}
	return view
}
