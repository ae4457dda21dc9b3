// internal/editor/builder.go
package editor

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/javajoker/taxonomy-admin/internal/models"
	"github.com/javajoker/taxonomy-admin/internal/utils"
)

// DraftKey addresses the field of an open add flow in place of an entry key.
const DraftKey = "draft"

// Entry is one field of the builder together with its stable key.
type Entry struct {
	Key   string                 `json:"key"`
	Field models.FieldDefinition `json:"field"`
}

// Builder owns the ordered field list of one product type edit session.
// It is not safe for concurrent use.
type Builder struct {
	entries  []Entry
	expanded string
	draft    *models.FieldDefinition
}

type Candidate struct {
	FieldName string `json:"fieldName"`
	Label     string `json:"label"`
}

func NewBuilder(fields []models.FieldDefinition) *Builder {
	b := &Builder{entries: make([]Entry, 0, len(fields))}
	for _, f := range fields {
		b.entries = append(b.entries, Entry{Key: uuid.NewString(), Field: normalize(f)})
	}
	return b
}

// Entries returns the fields in insertion order.
func (b *Builder) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	for i, e := range b.entries {
		out[i] = Entry{Key: e.Key, Field: e.Field.Clone()}
	}
	return out
}

// Fields returns the field array handed to the preview and to save.
func (b *Builder) Fields() []models.FieldDefinition {
	out := make([]models.FieldDefinition, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Field.Clone()
	}
	return out
}

// Sorted returns the entries by displayOrder, ties in insertion order.
func (b *Builder) Sorted() []Entry {
	out := b.Entries()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Field.DisplayOrder < out[j].Field.DisplayOrder
	})
	return out
}

func (b *Builder) Len() int {
	return len(b.entries)
}

func (b *Builder) Get(key string) (Entry, error) {
	i, err := b.index(key)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Key: key, Field: b.entries[i].Field.Clone()}, nil
}

// Expanded returns the key of the entry open for editing, or "".
func (b *Builder) Expanded() string {
	return b.expanded
}

// Toggle expands key, or collapses it when it is already expanded.
func (b *Builder) Toggle(key string) (string, error) {
	if _, err := b.index(key); err != nil {
		return b.expanded, err
	}
	if b.expanded == key {
		b.expanded = ""
	} else {
		b.expanded = key
	}
	return b.expanded, nil
}

// Draft returns the field of the open add flow.
func (b *Builder) Draft() (models.FieldDefinition, bool) {
	if b.draft == nil {
		return models.FieldDefinition{}, false
	}
	return b.draft.Clone(), true
}

// OpenAdd starts an add flow from a blank field, discarding any previous draft.
func (b *Builder) OpenAdd() models.FieldDefinition {
	draft := models.NewFieldDefinition()
	b.draft = &draft
	return draft.Clone()
}

func (b *Builder) UpdateDraft(patch models.FieldPatch) (models.FieldDefinition, error) {
	if b.draft == nil {
		return models.FieldDefinition{}, ErrNoDraft
	}
	updated, err := applyPatch(*b.draft, patch)
	if err != nil {
		return b.draft.Clone(), err
	}
	b.draft = &updated
	return updated.Clone(), nil
}

// CommitAdd appends the draft and closes the add flow. An incomplete draft
// stays open and nothing is added.
func (b *Builder) CommitAdd() (Entry, error) {
	if b.draft == nil {
		return Entry{}, ErrNoDraft
	}
	entry, err := b.Add(*b.draft)
	if err != nil {
		return Entry{}, err
	}
	b.draft = nil
	return entry, nil
}

func (b *Builder) CancelAdd() {
	b.draft = nil
}

// Add appends a populated field after the current highest displayOrder and
// expands it.
func (b *Builder) Add(field models.FieldDefinition) (Entry, error) {
	field = normalize(field)
	if err := utils.ValidateStruct(field); err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrDraftInvalid, err)
	}

	field.DisplayOrder = b.maxDisplayOrder() + 1
	entry := Entry{Key: uuid.NewString(), Field: field}
	b.entries = append(b.entries, entry)
	b.expanded = entry.Key
	return Entry{Key: entry.Key, Field: field.Clone()}, nil
}

// Update shallow-merges patch into the field at key.
func (b *Builder) Update(key string, patch models.FieldPatch) (Entry, error) {
	i, err := b.index(key)
	if err != nil {
		return Entry{}, err
	}
	updated, err := applyPatch(b.entries[i].Field, patch)
	if err != nil {
		return Entry{}, err
	}
	b.entries[i].Field = updated
	return Entry{Key: key, Field: updated.Clone()}, nil
}

// Remove deletes the field at key. Nothing changes unless confirmed is set.
func (b *Builder) Remove(key string, confirmed bool) error {
	i, err := b.index(key)
	if err != nil {
		return err
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	b.entries = append(b.entries[:i], b.entries[i+1:]...)
	b.expanded = ""
	return nil
}

// DependencyCandidates lists the fields a conditional rule on key may point
// at: every named field except the one being edited.
func (b *Builder) DependencyCandidates(key string) ([]Candidate, error) {
	current, err := b.field(key)
	if err != nil {
		return nil, err
	}
	candidates := []Candidate{}
	for _, e := range b.entries {
		if e.Key == key || e.Field.FieldName == "" || e.Field.FieldName == current.FieldName {
			continue
		}
		candidates = append(candidates, Candidate{FieldName: e.Field.FieldName, Label: e.Field.Label()})
	}
	return candidates, nil
}

func (b *Builder) index(key string) (int, error) {
	for i, e := range b.entries {
		if e.Key == key {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrFieldNotFound, key)
}

// field resolves key, or the draft for DraftKey.
func (b *Builder) field(key string) (models.FieldDefinition, error) {
	if key == DraftKey {
		if b.draft == nil {
			return models.FieldDefinition{}, ErrNoDraft
		}
		return *b.draft, nil
	}
	i, err := b.index(key)
	if err != nil {
		return models.FieldDefinition{}, err
	}
	return b.entries[i].Field, nil
}

func (b *Builder) store(key string, f models.FieldDefinition) {
	if key == DraftKey {
		b.draft = &f
		return
	}
	if i, err := b.index(key); err == nil {
		b.entries[i].Field = f
	}
}

func (b *Builder) maxDisplayOrder() int {
	highest := 0
	for _, e := range b.entries {
		if e.Field.DisplayOrder > highest {
			highest = e.Field.DisplayOrder
		}
	}
	return highest
}

func applyPatch(f models.FieldDefinition, patch models.FieldPatch) (models.FieldDefinition, error) {
	updated, err := f.Merge(patch)
	if err != nil {
		return f, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	if _, ok := patch["dataType"]; ok {
		if !updated.DataType.IsValid() {
			return f, fmt.Errorf("%w: %q", ErrInvalidDataType, updated.DataType)
		}
		if !updated.DataType.NeedsOptions() {
			updated.Options = []models.Option{}
		}
	}
	if updated.FieldGroupOrder != nil && *updated.FieldGroupOrder == 0 {
		updated.FieldGroupOrder = nil
	}
	return updated, nil
}

func normalize(f models.FieldDefinition) models.FieldDefinition {
	f = f.Clone()
	if f.DataType == "" {
		f.DataType = models.DataTypeText
	}
	if f.FieldGroupOrder != nil && *f.FieldGroupOrder == 0 {
		f.FieldGroupOrder = nil
	}
	return f
}
