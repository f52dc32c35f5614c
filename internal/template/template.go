package template

import "github.com/google/uuid"

// CoordUnitsPercent tags records whose coordinates are percentages of the
// page dimensions. Records written by this code always carry it; its absence
// marks legacy data that may hold absolute values.
const CoordUnitsPercent = "percent"

// Template is a source document plus the positions mapping it to one form's
// fields. DocumentRef is opaque to this package; the storage layer resolves
// it to bytes.
type Template struct {
	ID           string
	FormID       string
	DocumentRef  string
	OriginalName string
	PageW        float64 // rendered page size at authoring time, pixels
	PageH        float64
	CoordUnits   string
	Positions    *PositionStore
}

// New creates an empty template for a form and source document.
func New(formID, documentRef, originalName string) *Template {
	return &Template{
		ID:           uuid.NewString(),
		FormID:       formID,
		DocumentRef:  documentRef,
		OriginalName: originalName,
		CoordUnits:   CoordUnitsPercent,
		Positions:    NewPositionStore(),
	}
}

// Snapshot is the frozen view of a template captured inside a submission.
// Positions are keyed by field identifier for assembly-time lookup.
type Snapshot struct {
	DocumentRef  string                `json:"documentRef"`
	OriginalName string                `json:"originalFileName"`
	CoordUnits   string                `json:"coordUnits,omitempty"`
	Positions    map[string][]Position `json:"positions"`
}

// Snapshot freezes the template's current state.
func (t *Template) Snapshot() Snapshot {
	byField := make(map[string][]Position)
	for _, p := range t.Positions.All() {
		byField[p.FieldID] = append(byField[p.FieldID], p)
	}
	return Snapshot{
		DocumentRef:  t.DocumentRef,
		OriginalName: t.OriginalName,
		CoordUnits:   t.CoordUnits,
		Positions:    byField,
	}
}
