package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionStore_Add(t *testing.T) {
	s := NewPositionStore()

	p := s.Add(Position{FieldID: "f1", Page: 0, X: 10, Y: 20})

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 1, s.Len())

	stored, ok := s.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, p, stored)
}

func TestPositionStore_Update(t *testing.T) {
	s := NewPositionStore()
	p := s.Add(Position{FieldID: "f1", Page: 0, X: 10, Y: 20})

	x, y := 55.5, 66.6
	updated, ok := s.Update(p.ID, Patch{X: &x, Y: &y})

	require.True(t, ok)
	assert.Equal(t, 55.5, updated.X)
	assert.Equal(t, 66.6, updated.Y)
	assert.Equal(t, "f1", updated.FieldID)
	assert.Equal(t, 0, updated.Page)
}

func TestPositionStore_Update_UnknownIDIsNoop(t *testing.T) {
	s := NewPositionStore()
	s.Add(Position{FieldID: "f1"})

	x := 99.0
	_, ok := s.Update("missing", Patch{X: &x})

	assert.False(t, ok)
	assert.Equal(t, 0.0, s.All()[0].X)
}

func TestPositionStore_Remove(t *testing.T) {
	s := NewPositionStore()
	p1 := s.Add(Position{FieldID: "f1"})
	p2 := s.Add(Position{FieldID: "f2"})

	assert.True(t, s.Remove(p1.ID))
	assert.False(t, s.Remove(p1.ID))
	assert.Equal(t, 1, s.Len())

	_, ok := s.Get(p2.ID)
	assert.True(t, ok)
}

func TestPositionStore_ByPage_InsertionOrder(t *testing.T) {
	s := NewPositionStore()
	a := s.Add(Position{FieldID: "f1", Page: 1})
	s.Add(Position{FieldID: "f2", Page: 0})
	b := s.Add(Position{FieldID: "f3", Page: 1})
	c := s.Add(Position{FieldID: "f1", Page: 1})

	got := s.ByPage(1)
	require.Len(t, got, 3)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, []string{got[0].ID, got[1].ID, got[2].ID})

	// Stable across repeated calls.
	again := s.ByPage(1)
	assert.Equal(t, got, again)

	assert.Empty(t, s.ByPage(7))
}

func TestPositionStore_CountForField(t *testing.T) {
	s := NewPositionStore()
	assert.Equal(t, 0, s.CountForField("f1"))

	s.Add(Position{FieldID: "f1", Page: 0})
	p := s.Add(Position{FieldID: "f1", Page: 2})
	s.Add(Position{FieldID: "f2", Page: 0})
	assert.Equal(t, 2, s.CountForField("f1"))
	assert.Equal(t, 1, s.CountForField("f2"))

	s.Remove(p.ID)
	assert.Equal(t, 1, s.CountForField("f1"))
}

func TestPositionStore_RemoveForField(t *testing.T) {
	s := NewPositionStore()
	s.Add(Position{FieldID: "f1", Page: 0})
	s.Add(Position{FieldID: "f1", Page: 1})
	keep := s.Add(Position{FieldID: "f2", Page: 0})

	removed := s.RemoveForField("f1")

	assert.Equal(t, 2, removed)
	assert.Equal(t, 0, s.CountForField("f1"))
	assert.Equal(t, 1, s.Len())

	// Deleting positions never touches other fields' placements.
	got, ok := s.Get(keep.ID)
	require.True(t, ok)
	assert.Equal(t, "f2", got.FieldID)
}

func TestTemplate_Snapshot(t *testing.T) {
	tpl := New("form-1", "docs/contract.pdf", "contract.pdf")
	tpl.Positions.Add(Position{FieldID: "f1", Page: 0, X: 50, Y: 50})
	tpl.Positions.Add(Position{FieldID: "f1", Page: 1, X: 25, Y: 75})
	tpl.Positions.Add(Position{FieldID: "f2", Page: 0, X: 10, Y: 10})

	snap := tpl.Snapshot()

	assert.Equal(t, "docs/contract.pdf", snap.DocumentRef)
	assert.Equal(t, "contract.pdf", snap.OriginalName)
	assert.Equal(t, CoordUnitsPercent, snap.CoordUnits)
	assert.Len(t, snap.Positions["f1"], 2)
	assert.Len(t, snap.Positions["f2"], 1)
}
