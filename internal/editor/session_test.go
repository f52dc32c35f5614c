package editor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formfiller/formfiller/internal/template"
)

func newTestSession() (*Session, *template.PositionStore) {
	store := template.NewPositionStore()
	s := NewSession(store)
	s.SetLayout([]PageBox{
		{Width: 918, Height: 1188},
		{Width: 918, Height: 1188},
	})
	return s, store
}

func TestSession_ClickPage_CreatesPosition(t *testing.T) {
	s, store := newTestSession()
	s.SelectField("f1")

	pos, ok := s.ClickPage(0, Pointer{X: 459, Y: 594})

	require.True(t, ok)
	assert.Equal(t, "f1", pos.FieldID)
	assert.Equal(t, 0, pos.Page)
	assert.InDelta(t, 50, pos.X, 1e-9)
	assert.InDelta(t, 50, pos.Y, 1e-9)
	assert.Equal(t, 918.0, pos.PageW)
	assert.Equal(t, 1188.0, pos.PageH)
	assert.Equal(t, 1, store.Len())
}

func TestSession_ClickPage_NoSelectedFieldIsNoop(t *testing.T) {
	s, store := newTestSession()

	_, ok := s.ClickPage(0, Pointer{X: 100, Y: 100})

	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestSession_ClickPage_InertUntilLayoutKnown(t *testing.T) {
	store := template.NewPositionStore()
	s := NewSession(store)
	s.SelectField("f1")

	_, ok := s.ClickPage(0, Pointer{X: 10, Y: 10})

	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestSession_ClickPage_OutOfRangePageIsNoop(t *testing.T) {
	s, store := newTestSession()
	s.SelectField("f1")

	_, ok := s.ClickPage(2, Pointer{X: 10, Y: 10})
	assert.False(t, ok)

	_, ok = s.ClickPage(-1, Pointer{X: 10, Y: 10})
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestSession_Drag_TracksPointer(t *testing.T) {
	s, store := newTestSession()
	s.SelectField("f1")
	pos, _ := s.ClickPage(1, Pointer{X: 0, Y: 0})

	require.NoError(t, s.BeginDrag(pos.ID))
	assert.True(t, s.Dragging())

	moved, ok := s.UpdateDrag(Pointer{X: 229.5, Y: 891})
	require.True(t, ok)
	assert.InDelta(t, 25, moved.X, 1e-9)
	assert.InDelta(t, 75, moved.Y, 1e-9)

	// Every move event writes straight back into the store.
	stored, _ := store.Get(pos.ID)
	assert.InDelta(t, 25, stored.X, 1e-9)

	final, ok := s.EndDrag(Pointer{X: 918, Y: 0})
	require.True(t, ok)
	assert.InDelta(t, 100, final.X, 1e-9)
	assert.InDelta(t, 0, final.Y, 1e-9)
	assert.False(t, s.Dragging())
}

func TestSession_Drag_ClampsOutsidePageBounds(t *testing.T) {
	s, store := newTestSession()
	s.SelectField("f1")
	pos, _ := s.ClickPage(0, Pointer{X: 100, Y: 100})

	require.NoError(t, s.BeginDrag(pos.ID))

	// Dragging past the page edges must clamp, not extrapolate.
	moved, ok := s.UpdateDrag(Pointer{X: -250, Y: 5000})
	require.True(t, ok)
	assert.Equal(t, 0.0, moved.X)
	assert.Equal(t, 100.0, moved.Y)

	final, _ := s.EndDrag(Pointer{X: 99999, Y: -99999})
	assert.Equal(t, 100.0, final.X)
	assert.Equal(t, 0.0, final.Y)

	stored, _ := store.Get(pos.ID)
	assert.GreaterOrEqual(t, stored.X, 0.0)
	assert.LessOrEqual(t, stored.X, 100.0)
	assert.GreaterOrEqual(t, stored.Y, 0.0)
	assert.LessOrEqual(t, stored.Y, 100.0)
}

func TestSession_BeginDrag_OnlyOneActive(t *testing.T) {
	s, _ := newTestSession()
	s.SelectField("f1")
	a, _ := s.ClickPage(0, Pointer{X: 10, Y: 10})
	b, _ := s.ClickPage(0, Pointer{X: 20, Y: 20})

	require.NoError(t, s.BeginDrag(a.ID))
	assert.Error(t, s.BeginDrag(b.ID))

	s.EndDrag(Pointer{X: 10, Y: 10})
	assert.NoError(t, s.BeginDrag(b.ID))
}

func TestSession_BeginDrag_UnknownPosition(t *testing.T) {
	s, _ := newTestSession()
	assert.Error(t, s.BeginDrag("missing"))
}

func TestSession_UpdateDrag_WithoutActiveDrag(t *testing.T) {
	s, _ := newTestSession()
	_, ok := s.UpdateDrag(Pointer{X: 1, Y: 1})
	assert.False(t, ok)
}

func TestSession_RemovePosition(t *testing.T) {
	s, store := newTestSession()
	s.SelectField("f1")
	pos, _ := s.ClickPage(0, Pointer{X: 10, Y: 10})

	assert.True(t, s.RemovePosition(pos.ID))
	assert.Equal(t, 0, store.CountForField("f1"))
	assert.False(t, s.RemovePosition(pos.ID))
}

func TestSession_RemovePosition_CancelsItsDrag(t *testing.T) {
	s, _ := newTestSession()
	s.SelectField("f1")
	pos, _ := s.ClickPage(0, Pointer{X: 10, Y: 10})

	require.NoError(t, s.BeginDrag(pos.ID))
	s.RemovePosition(pos.ID)
	assert.False(t, s.Dragging())
}

func TestSession_RemoveField_CascadesToPositions(t *testing.T) {
	s, store := newTestSession()
	s.SelectField("f1")
	s.ClickPage(0, Pointer{X: 10, Y: 10})
	s.ClickPage(1, Pointer{X: 20, Y: 20})
	s.SelectField("f2")
	s.ClickPage(0, Pointer{X: 30, Y: 30})

	removed := s.RemoveField("f1")

	assert.Equal(t, 2, removed)
	assert.Equal(t, 0, store.CountForField("f1"))
	assert.Equal(t, 1, store.CountForField("f2"))
	assert.Equal(t, "f2", s.SelectedField())
}

func TestSession_Snapshot_IsCopy(t *testing.T) {
	s, store := newTestSession()
	s.SelectField("f1")
	s.ClickPage(0, Pointer{X: 10, Y: 10})

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Len())

	// Later edits never leak into an already-taken snapshot.
	s.ClickPage(1, Pointer{X: 20, Y: 20})
	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, 2, store.Len())
}

func TestSession_CountForField(t *testing.T) {
	s, _ := newTestSession()
	s.SelectField("f1")
	s.ClickPage(0, Pointer{X: 10, Y: 10})
	s.ClickPage(1, Pointer{X: 20, Y: 20})

	assert.Equal(t, 2, s.CountForField("f1"))
	assert.Equal(t, 0, s.CountForField("f2"))
}

func TestSession_ConcurrentReadsAndClicks(t *testing.T) {
	s, _ := newTestSession()
	s.SelectField("f1")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.ClickPage(i%2, Pointer{X: float64(i), Y: float64(i)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.Snapshot()
			s.CountForField("f1")
		}
	}()
	wg.Wait()

	assert.Equal(t, 100, s.CountForField("f1"))
}

func TestSession_RemoveField_ClearsSelection(t *testing.T) {
	s, _ := newTestSession()
	s.SelectField("f1")

	s.RemoveField("f1")

	assert.Empty(t, s.SelectedField())
	_, ok := s.ClickPage(0, Pointer{X: 10, Y: 10})
	assert.False(t, ok)
}
