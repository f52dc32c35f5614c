package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formfiller/formfiller/internal/config"
	"github.com/formfiller/formfiller/internal/form"
	"github.com/formfiller/formfiller/internal/pdftest"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := &config.Config{
		Mode:         config.ModeStdio,
		DocumentsDir: t.TempDir(),
		StoreDir:     t.TempDir(),
		RenderScale:  1.0,
		StampFont:    config.DefaultStampFont,
		StampSize:    config.DefaultStampSize,
		MaxFileSize:  config.DefaultMaxFileSize,
	}
	svc, err := NewService(cfg)
	require.NoError(t, err)
	return svc
}

// createFormWithFields seeds a form with a text and a required email field.
func createFormWithFields(t *testing.T, svc *Service) (formID string, fields []form.Field) {
	t.Helper()
	fr, err := svc.FormCreate(FormCreateRequest{Name: "Intake"})
	require.NoError(t, err)

	name, err := svc.FieldAdd(FieldAddRequest{
		FormID: fr.Form.ID,
		Field:  form.Field{Name: "Full Name", Type: form.FieldTypeText},
	})
	require.NoError(t, err)
	email, err := svc.FieldAdd(FieldAddRequest{
		FormID: fr.Form.ID,
		Field:  form.Field{Name: "Email", Type: form.FieldTypeEmail, Required: true},
	})
	require.NoError(t, err)
	return fr.Form.ID, []form.Field{name.Field, email.Field}
}

// openTemplate stores a two-page document, attaches it and opens the
// editing session.
func openTemplate(t *testing.T, svc *Service, formID string) *TemplateOpenResult {
	t.Helper()
	tr, err := svc.TemplateCreate(context.Background(), TemplateCreateRequest{
		FormID:           formID,
		OriginalFileName: "lease.pdf",
		Document:         pdftest.MinimalPDF(2, 200, 400),
	})
	require.NoError(t, err)

	opened, err := svc.TemplateOpen(context.Background(), TemplateOpenRequest{TemplateID: tr.Template.ID})
	require.NoError(t, err)
	return opened
}

func TestService_FormLifecycle(t *testing.T) {
	svc := newTestService(t)
	formID, fields := createFormWithFields(t, svc)

	t.Run("list_contains_created_form", func(t *testing.T) {
		list, err := svc.FormList()
		require.NoError(t, err)
		assert.Equal(t, []string{formID}, list.FormIDs)
	})

	t.Run("update_preserves_identity", func(t *testing.T) {
		res, err := svc.FieldUpdate(FieldUpdateRequest{
			FormID:  formID,
			FieldID: fields[0].ID,
			Field:   form.Field{Name: "Legal Name", Type: form.FieldTypeText},
		})
		require.NoError(t, err)
		assert.Equal(t, fields[0].ID, res.Field.ID)
		assert.Equal(t, "Legal Name", res.Field.Name)
		assert.Equal(t, 0, res.Field.Order)
	})

	t.Run("move_down_swaps_order", func(t *testing.T) {
		res, err := svc.FieldMove(FieldMoveRequest{FormID: formID, FieldID: fields[0].ID, Direction: "down"})
		require.NoError(t, err)
		ordered := res.Form.Ordered()
		assert.Equal(t, fields[1].ID, ordered[0].ID)
		assert.Equal(t, fields[0].ID, ordered[1].ID)
	})

	t.Run("invalid_direction_rejected", func(t *testing.T) {
		_, err := svc.FieldMove(FieldMoveRequest{FormID: formID, FieldID: fields[0].ID, Direction: "sideways"})
		assert.Error(t, err)
	})
}

func TestService_TemplateEditingFlow(t *testing.T) {
	svc := newTestService(t)
	formID, fields := createFormWithFields(t, svc)
	opened := openTemplate(t, svc, formID)
	tplID := opened.Template.ID

	require.Equal(t, 2, opened.View.PageCount)
	require.InDelta(t, 200.0, opened.View.Pages[0].Width, 0.01)

	t.Run("click_without_selection_is_noop", func(t *testing.T) {
		res, err := svc.EditorClick(EditorClickRequest{TemplateID: tplID, Page: 0, X: 50, Y: 50})
		require.NoError(t, err)
		assert.False(t, res.Applied)
	})

	t.Run("click_places_marker_for_selected_field", func(t *testing.T) {
		require.NoError(t, svc.EditorSelectField(EditorSelectFieldRequest{TemplateID: tplID, FieldID: fields[0].ID}))

		res, err := svc.EditorClick(EditorClickRequest{TemplateID: tplID, Page: 0, X: 100, Y: 200})
		require.NoError(t, err)
		require.True(t, res.Applied)
		assert.Equal(t, fields[0].ID, res.Position.FieldID)
		assert.InDelta(t, 50.0, res.Position.X, 0.01)
		assert.InDelta(t, 50.0, res.Position.Y, 0.01)
	})

	t.Run("selecting_unknown_field_rejected", func(t *testing.T) {
		err := svc.EditorSelectField(EditorSelectFieldRequest{TemplateID: tplID, FieldID: "nope"})
		assert.Error(t, err)
	})

	t.Run("drag_moves_marker", func(t *testing.T) {
		view, err := svc.TemplateView(context.Background(), TemplateOpenRequest{TemplateID: tplID})
		require.NoError(t, err)
		require.Len(t, view.View.Pages[0].Markers, 1)
		posID := view.View.Pages[0].Markers[0].PositionID

		require.NoError(t, svc.EditorDragBegin(EditorDragRequest{TemplateID: tplID, PositionID: posID}))
		_, err = svc.EditorDragMove(EditorDragRequest{TemplateID: tplID, X: 20, Y: 40})
		require.NoError(t, err)
		res, err := svc.EditorDragEnd(EditorDragRequest{TemplateID: tplID, X: 40, Y: 40})
		require.NoError(t, err)
		require.True(t, res.Applied)
		assert.InDelta(t, 20.0, res.Position.X, 0.01)
		assert.InDelta(t, 10.0, res.Position.Y, 0.01)
	})

	t.Run("placements_follow_field_order", func(t *testing.T) {
		res, err := svc.FieldPlacements(FieldPlacementsRequest{TemplateID: tplID})
		require.NoError(t, err)
		require.Len(t, res.Placements, 2)
		assert.Equal(t, 1, res.Placements[0].Count)
		assert.Equal(t, 0, res.Placements[1].Count)
	})

	t.Run("save_then_reopen_preserves_markers", func(t *testing.T) {
		_, err := svc.TemplateSave(TemplateSaveRequest{TemplateID: tplID})
		require.NoError(t, err)

		reopened, err := svc.TemplateOpen(context.Background(), TemplateOpenRequest{TemplateID: tplID})
		require.NoError(t, err)
		require.Len(t, reopened.Template.Positions, 1)
		assert.Equal(t, "percent", reopened.Template.CoordUnits)
		assert.Len(t, reopened.View.Pages[0].Markers, 1)
	})
}

func TestService_ConcurrentPlacementReads(t *testing.T) {
	svc := newTestService(t)
	formID, fields := createFormWithFields(t, svc)
	opened := openTemplate(t, svc, formID)
	tplID := opened.Template.ID

	require.NoError(t, svc.EditorSelectField(EditorSelectFieldRequest{TemplateID: tplID, FieldID: fields[0].ID}))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			svc.EditorClick(EditorClickRequest{TemplateID: tplID, Page: i % 2, X: float64(i), Y: float64(i)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if _, err := svc.FieldPlacements(FieldPlacementsRequest{TemplateID: tplID}); err != nil {
				t.Error(err)
				return
			}
			if _, err := svc.TemplateSave(TemplateSaveRequest{TemplateID: tplID}); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	wg.Wait()

	res, err := svc.FieldPlacements(FieldPlacementsRequest{TemplateID: tplID})
	require.NoError(t, err)
	assert.Equal(t, 50, res.Placements[0].Count)
}

func TestService_FieldRemoveCascades(t *testing.T) {
	svc := newTestService(t)
	formID, fields := createFormWithFields(t, svc)
	opened := openTemplate(t, svc, formID)

	require.NoError(t, svc.EditorSelectField(EditorSelectFieldRequest{TemplateID: opened.Template.ID, FieldID: fields[0].ID}))
	for _, y := range []float64{50, 150} {
		res, err := svc.EditorClick(EditorClickRequest{TemplateID: opened.Template.ID, Page: 0, X: 10, Y: y})
		require.NoError(t, err)
		require.True(t, res.Applied)
	}
	_, err := svc.TemplateSave(TemplateSaveRequest{TemplateID: opened.Template.ID})
	require.NoError(t, err)

	res, err := svc.FieldRemove(FieldRemoveRequest{FormID: formID, FieldID: fields[0].ID})
	require.NoError(t, err)
	assert.Equal(t, 2, res.RemovedPositions)

	// The persisted record no longer carries the removed field's markers.
	reopened, err := svc.TemplateOpen(context.Background(), TemplateOpenRequest{TemplateID: opened.Template.ID})
	require.NoError(t, err)
	assert.Empty(t, reopened.Template.Positions)
}

func TestService_BatchSave(t *testing.T) {
	svc := newTestService(t)
	formID, _ := createFormWithFields(t, svc)
	opened := openTemplate(t, svc, formID)

	res, err := svc.TemplateSaveBatch(TemplateSaveBatchRequest{
		TemplateIDs: []string{opened.Template.ID, "never-opened"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{opened.Template.ID}, res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "never-opened", res.Failed[0].ID)
	assert.Contains(t, res.Failed[0].Err, "not open")
}

func TestService_SubmissionLifecycle(t *testing.T) {
	svc := newTestService(t)
	formID, fields := createFormWithFields(t, svc)
	opened := openTemplate(t, svc, formID)

	require.NoError(t, svc.EditorSelectField(EditorSelectFieldRequest{TemplateID: opened.Template.ID, FieldID: fields[0].ID}))
	click, err := svc.EditorClick(EditorClickRequest{TemplateID: opened.Template.ID, Page: 1, X: 100, Y: 100})
	require.NoError(t, err)
	require.True(t, click.Applied)
	_, err = svc.TemplateSave(TemplateSaveRequest{TemplateID: opened.Template.ID})
	require.NoError(t, err)

	t.Run("missing_required_value_rejected", func(t *testing.T) {
		_, err := svc.SubmissionCreate(SubmissionCreateRequest{
			FormID: formID,
			Values: map[string]string{fields[0].ID: "Ada Lovelace", fields[1].ID: "  "},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Email")
	})

	values := map[string]string{
		fields[0].ID: "Ada Lovelace",
		fields[1].ID: "ada@example.com",
	}
	created, err := svc.SubmissionCreate(SubmissionCreateRequest{FormID: formID, Values: values})
	require.NoError(t, err)

	t.Run("fill_regenerates_named_document", func(t *testing.T) {
		res, err := svc.SubmissionFill(context.Background(), SubmissionFillRequest{SubmissionID: created.SubmissionID})
		require.NoError(t, err)
		assert.Equal(t, "filled_lease.pdf", res.FileName)
		assert.Equal(t, 1, res.Drawn)
		assert.Equal(t, 0, res.Skipped)
		assert.NotEmpty(t, res.Data)
	})

	t.Run("fill_survives_later_form_edits", func(t *testing.T) {
		_, err := svc.FieldRemove(FieldRemoveRequest{FormID: formID, FieldID: fields[0].ID})
		require.NoError(t, err)

		res, err := svc.SubmissionFill(context.Background(), SubmissionFillRequest{SubmissionID: created.SubmissionID})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Drawn)
	})

	t.Run("list_contains_submission", func(t *testing.T) {
		list, err := svc.SubmissionList()
		require.NoError(t, err)
		assert.Equal(t, []string{created.SubmissionID}, list.SubmissionIDs)
	})
}

func TestService_TemplateCreateValidation(t *testing.T) {
	svc := newTestService(t)
	formID, _ := createFormWithFields(t, svc)

	t.Run("unknown_form_rejected", func(t *testing.T) {
		_, err := svc.TemplateCreate(context.Background(), TemplateCreateRequest{
			FormID:   "missing",
			Document: pdftest.MinimalPDF(1, 100, 100),
		})
		assert.Error(t, err)
	})

	t.Run("dangling_document_ref_rejected", func(t *testing.T) {
		_, err := svc.TemplateCreate(context.Background(), TemplateCreateRequest{
			FormID:      formID,
			DocumentRef: "nowhere.pdf",
		})
		assert.Error(t, err)
	})
}
