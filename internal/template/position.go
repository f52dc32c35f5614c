// Package template models a PDF template: a source document plus the set of
// positions mapping one form's fields onto its pages.
package template

import "github.com/google/uuid"

// Position binds one form field to one visual location on one page. X and Y
// are percentages of the page width/height in [0,100], origin top-left; the
// stored percentage is canonical. PageW/PageH record the pixel size of the
// page as rendered at placement time so a marker stays visually stable
// across zoom levels.
type Position struct {
	ID      string  `json:"id"`
	FieldID string  `json:"fieldId"`
	Page    int     `json:"page"` // 0-based
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	PageW   float64 `json:"pageWidth,omitempty"`
	PageH   float64 `json:"pageHeight,omitempty"`
}

// Patch carries the fields of a position update. Nil members are left
// untouched; drag updates typically patch only X and Y.
type Patch struct {
	X    *float64
	Y    *float64
	Page *int
}

// PositionStore holds the working set of positions for the template being
// authored, in insertion order.
type PositionStore struct {
	positions []Position
}

// NewPositionStore creates an empty store.
func NewPositionStore() *PositionStore {
	return &PositionStore{positions: []Position{}}
}

// NewPositionStoreFrom creates a store seeded with existing positions,
// preserving their identifiers and order.
func NewPositionStoreFrom(positions []Position) *PositionStore {
	s := NewPositionStore()
	s.positions = append(s.positions, positions...)
	return s
}

// Add assigns a fresh identifier, appends the position and returns the
// stored record.
func (s *PositionStore) Add(p Position) Position {
	p.ID = uuid.NewString()
	s.positions = append(s.positions, p)
	return p
}

// Update merges the patch into an existing record. Unknown ids are a no-op;
// the second return value reports whether a record was found.
func (s *PositionStore) Update(id string, patch Patch) (Position, bool) {
	for i := range s.positions {
		if s.positions[i].ID != id {
			continue
		}
		if patch.X != nil {
			s.positions[i].X = *patch.X
		}
		if patch.Y != nil {
			s.positions[i].Y = *patch.Y
		}
		if patch.Page != nil {
			s.positions[i].Page = *patch.Page
		}
		return s.positions[i], true
	}
	return Position{}, false
}

// Remove deletes a position by identifier.
func (s *PositionStore) Remove(id string) bool {
	for i := range s.positions {
		if s.positions[i].ID == id {
			s.positions = append(s.positions[:i], s.positions[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveForField deletes every position referencing the field and returns
// how many were removed. Called when the owning field is deleted.
func (s *PositionStore) RemoveForField(fieldID string) int {
	kept := s.positions[:0]
	removed := 0
	for _, p := range s.positions {
		if p.FieldID == fieldID {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	s.positions = kept
	return removed
}

// ByPage returns all positions on the given page in insertion order. The
// order carries no meaning but is stable across calls so rendered markers
// don't jump between re-renders.
func (s *PositionStore) ByPage(page int) []Position {
	var out []Position
	for _, p := range s.positions {
		if p.Page == page {
			out = append(out, p)
		}
	}
	return out
}

// ByField returns all positions referencing the field in insertion order.
func (s *PositionStore) ByField(fieldID string) []Position {
	var out []Position
	for _, p := range s.positions {
		if p.FieldID == fieldID {
			out = append(out, p)
		}
	}
	return out
}

// CountForField returns the number of positions referencing the field. The
// field list UI uses it for the placement badge.
func (s *PositionStore) CountForField(fieldID string) int {
	n := 0
	for _, p := range s.positions {
		if p.FieldID == fieldID {
			n++
		}
	}
	return n
}

// Get returns a position by identifier.
func (s *PositionStore) Get(id string) (Position, bool) {
	for _, p := range s.positions {
		if p.ID == id {
			return p, true
		}
	}
	return Position{}, false
}

// All returns a copy of every position in insertion order.
func (s *PositionStore) All() []Position {
	out := make([]Position, len(s.positions))
	copy(out, s.positions)
	return out
}

// Len returns the number of stored positions.
func (s *PositionStore) Len() int {
	return len(s.positions)
}
