// Package editor implements the field-placement editing session: pointer
// events arriving over the service boundary create, move and delete position
// markers for the currently selected field.
package editor

import (
	"fmt"
	"sync"

	"github.com/formfiller/formfiller/internal/geom"
	"github.com/formfiller/formfiller/internal/template"
)

// PageBox is the rendered pixel size of one document page, the surface
// pointer coordinates are measured against.
type PageBox struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Pointer is a pointer-event location in pixels relative to the top-left
// corner of a page box. Values outside the box are legal; coordinates are
// clamped, never extrapolated.
type Pointer struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Session holds the editing state for one template. Until SetLayout is
// called the session is inert: page clicks are ignored because the document
// is still loading and the page count is unknown.
type Session struct {
	mu            sync.Mutex
	store         *template.PositionStore
	layout        []PageBox
	selectedField string
	dragID        string
	dragPage      int
}

// NewSession creates a session over the template's position store.
func NewSession(store *template.PositionStore) *Session {
	return &Session{store: store}
}

// SetLayout records the rendered page boxes once the document has loaded,
// making the session interactive.
func (s *Session) SetLayout(pages []PageBox) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layout = pages
}

// SelectField sets the active field. Subsequent page clicks create
// positions for it.
func (s *Session) SelectField(fieldID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedField = fieldID
}

// ClearSelection deactivates field placement; page clicks become no-ops.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedField = ""
}

// SelectedField returns the active field identifier, empty if none.
func (s *Session) SelectedField() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedField
}

// ClickPage creates a new position for the selected field at the click
// location. Returns false without error when the click is a no-op: no field
// selected, layout not loaded yet, or page out of range.
func (s *Session) ClickPage(page int, ptr Pointer) (template.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedField == "" || s.layout == nil {
		return template.Position{}, false
	}
	if page < 0 || page >= len(s.layout) {
		return template.Position{}, false
	}

	box := s.layout[page]
	p := s.percentAt(box, ptr)
	stored := s.store.Add(template.Position{
		FieldID: s.selectedField,
		Page:    page,
		X:       p.X,
		Y:       p.Y,
		PageW:   box.Width,
		PageH:   box.Height,
	})
	return stored, true
}

// BeginDrag starts dragging an existing position. Only one drag may be
// active at a time.
func (s *Session) BeginDrag(positionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dragID != "" {
		return fmt.Errorf("drag already in progress for position %s", s.dragID)
	}
	pos, ok := s.store.Get(positionID)
	if !ok {
		return fmt.Errorf("position not found: %s", positionID)
	}
	s.dragID = positionID
	s.dragPage = pos.Page
	return nil
}

// UpdateDrag recomputes the dragged position's percentage coordinates from
// the live pointer location and writes them back to the store immediately,
// so the rendered marker tracks the pointer. O(1) arithmetic plus one store
// write per event.
func (s *Session) UpdateDrag(ptr Pointer) (template.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeDrag(ptr)
}

// EndDrag commits the final pointer location and ends the drag. There is no
// cancel path: releasing anywhere commits the last recomputed coordinate.
func (s *Session) EndDrag(ptr Pointer) (template.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.writeDrag(ptr)
	s.dragID = ""
	return pos, ok
}

// Dragging reports whether a drag is in progress.
func (s *Session) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragID != ""
}

// RemovePosition deletes a position by identifier. A marker's delete control
// is delivered as its own event, so removal never doubles as a page click.
func (s *Session) RemovePosition(positionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dragID == positionID {
		s.dragID = ""
	}
	return s.store.Remove(positionID)
}

// RemoveField deletes every position referencing the field, returning how
// many were removed. Called when the field is deleted from the form.
func (s *Session) RemoveField(fieldID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dragID != "" {
		if pos, ok := s.store.Get(s.dragID); ok && pos.FieldID == fieldID {
			s.dragID = ""
		}
	}
	if s.selectedField == fieldID {
		s.selectedField = ""
	}
	return s.store.RemoveForField(fieldID)
}

// CountForField reports how many markers the field currently has.
func (s *Session) CountForField(fieldID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.CountForField(fieldID)
}

// Snapshot returns a copy of the current positions, safe to read while
// pointer events keep mutating the session.
func (s *Session) Snapshot() *template.PositionStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return template.NewPositionStoreFrom(s.store.All())
}

func (s *Session) writeDrag(ptr Pointer) (template.Position, bool) {
	if s.dragID == "" {
		return template.Position{}, false
	}
	if s.dragPage < 0 || s.dragPage >= len(s.layout) {
		return template.Position{}, false
	}
	p := s.percentAt(s.layout[s.dragPage], ptr)
	return s.store.Update(s.dragID, template.Patch{X: &p.X, Y: &p.Y})
}

func (s *Session) percentAt(box PageBox, ptr Pointer) geom.Percent {
	p := geom.ToPercent(geom.Absolute{X: ptr.X, Y: box.Height - ptr.Y}, box.Width, box.Height)
	return geom.ClampPercent(p)
}
