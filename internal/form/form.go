package form

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Form is an ordered collection of fields. Mutations keep every field's
// Order contiguous from 0 with no duplicates or gaps.
type Form struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// New creates an empty form with a fresh identifier.
func New(name string) *Form {
	return &Form{
		ID:     uuid.NewString(),
		Name:   name,
		Fields: []Field{},
	}
}

// AddField validates and appends a field at the end of the order sequence,
// assigning it a fresh identifier. Returns the stored field.
func (f *Form) AddField(field Field) (Field, error) {
	if err := field.Validate(); err != nil {
		return Field{}, err
	}
	field.ID = uuid.NewString()
	field.Order = len(f.Fields)
	f.Fields = append(f.Fields, field)
	return field, nil
}

// UpdateField replaces the attributes of an existing field in place. Order
// is not touched here; use MoveUp/MoveDown for reordering.
func (f *Form) UpdateField(id string, upd Field) (Field, error) {
	if err := upd.Validate(); err != nil {
		return Field{}, err
	}
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			upd.ID = id
			upd.Order = f.Fields[i].Order
			f.Fields[i] = upd
			return upd, nil
		}
	}
	return Field{}, fmt.Errorf("field not found: %s", id)
}

// RemoveField deletes a field and renumbers the remaining fields so their
// order positions stay contiguous from 0.
func (f *Form) RemoveField(id string) error {
	idx := -1
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("field not found: %s", id)
	}
	f.Fields = append(f.Fields[:idx], f.Fields[idx+1:]...)
	f.renumber()
	return nil
}

// MoveUp swaps the field with its predecessor in order. Moving the first
// field is a no-op.
func (f *Form) MoveUp(id string) error {
	return f.move(id, -1)
}

// MoveDown swaps the field with its successor in order. Moving the last
// field is a no-op.
func (f *Form) MoveDown(id string) error {
	return f.move(id, 1)
}

func (f *Form) move(id string, dir int) error {
	f.sortByOrder()
	idx := -1
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("field not found: %s", id)
	}
	other := idx + dir
	if other < 0 || other >= len(f.Fields) {
		return nil
	}
	// Swapping slice entries carries the old Order values along, so assign
	// them positionally instead of renumbering through a re-sort.
	f.Fields[idx], f.Fields[other] = f.Fields[other], f.Fields[idx]
	f.Fields[idx].Order = idx
	f.Fields[other].Order = other
	return nil
}

// FieldByID returns the field with the given identifier.
func (f *Form) FieldByID(id string) (Field, bool) {
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			return f.Fields[i], true
		}
	}
	return Field{}, false
}

// Ordered returns the fields sorted by order position.
func (f *Form) Ordered() []Field {
	f.sortByOrder()
	out := make([]Field, len(f.Fields))
	copy(out, f.Fields)
	return out
}

func (f *Form) sortByOrder() {
	sort.SliceStable(f.Fields, func(i, j int) bool {
		return f.Fields[i].Order < f.Fields[j].Order
	})
}

func (f *Form) renumber() {
	f.sortByOrder()
	for i := range f.Fields {
		f.Fields[i].Order = i
	}
}
