package service

import (
	"github.com/formfiller/formfiller/internal/editor"
	"github.com/formfiller/formfiller/internal/form"
	"github.com/formfiller/formfiller/internal/render"
	"github.com/formfiller/formfiller/internal/storage"
	"github.com/formfiller/formfiller/internal/template"
)

// Request Types

// FormCreateRequest creates a new empty form.
type FormCreateRequest struct {
	Name string `json:"name"`
}

// FormGetRequest fetches a form definition.
type FormGetRequest struct {
	FormID string `json:"form_id"`
}

// FieldAddRequest appends a field to a form.
type FieldAddRequest struct {
	FormID string     `json:"form_id"`
	Field  form.Field `json:"field"`
}

// FieldUpdateRequest mutates a field's attributes in place.
type FieldUpdateRequest struct {
	FormID  string     `json:"form_id"`
	FieldID string     `json:"field_id"`
	Field   form.Field `json:"field"`
}

// FieldRemoveRequest deletes a field and every position referencing it.
type FieldRemoveRequest struct {
	FormID  string `json:"form_id"`
	FieldID string `json:"field_id"`
}

// FieldMoveRequest reorders a field one step up or down.
type FieldMoveRequest struct {
	FormID    string `json:"form_id"`
	FieldID   string `json:"field_id"`
	Direction string `json:"direction"` // "up" or "down"
}

// TemplateCreateRequest attaches a source document to a form. Document
// bytes, when present, are stored under the documents directory and
// DocumentRef is derived; otherwise DocumentRef must name an existing
// document.
type TemplateCreateRequest struct {
	FormID           string `json:"form_id"`
	OriginalFileName string `json:"original_file_name"`
	DocumentRef      string `json:"document_ref,omitempty"`
	Document         []byte `json:"-"`
}

// TemplateOpenRequest loads a template into an editing session and renders
// its document.
type TemplateOpenRequest struct {
	TemplateID string `json:"template_id"`
}

// TemplateSaveRequest persists the open editing session's template and
// positions as one atomic write.
type TemplateSaveRequest struct {
	TemplateID string `json:"template_id"`
}

// TemplateSaveBatchRequest persists several templates in one call. Each
// save succeeds or fails independently.
type TemplateSaveBatchRequest struct {
	TemplateIDs []string `json:"template_ids"`
}

// EditorSelectFieldRequest sets the active field for marker placement.
type EditorSelectFieldRequest struct {
	TemplateID string `json:"template_id"`
	FieldID    string `json:"field_id"` // empty clears the selection
}

// EditorClickRequest is a single click on a rendered page, in pixels
// relative to the page box's top-left corner.
type EditorClickRequest struct {
	TemplateID string  `json:"template_id"`
	Page       int     `json:"page"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// EditorDragRequest carries one pointer event of a drag gesture.
type EditorDragRequest struct {
	TemplateID string  `json:"template_id"`
	PositionID string  `json:"position_id,omitempty"` // begin only
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// EditorRemovePositionRequest deletes one marker.
type EditorRemovePositionRequest struct {
	TemplateID string `json:"template_id"`
	PositionID string `json:"position_id"`
}

// FieldPlacementsRequest asks for the per-field placement counts shown
// beside the field list while editing.
type FieldPlacementsRequest struct {
	TemplateID string `json:"template_id"`
}

// SubmissionCreateRequest captures a completed form.
type SubmissionCreateRequest struct {
	FormID string            `json:"form_id"`
	Values map[string]string `json:"values"`
}

// SubmissionFillRequest regenerates the filled document for a stored
// submission.
type SubmissionFillRequest struct {
	SubmissionID string `json:"submission_id"`
}

// Response Types

// FormResult wraps a form definition.
type FormResult struct {
	Form *form.Form `json:"form"`
}

// FormListResult lists stored form identifiers.
type FormListResult struct {
	FormIDs []string `json:"form_ids"`
}

// FieldResult wraps one field after a mutation.
type FieldResult struct {
	Field form.Field `json:"field"`
}

// FieldRemoveResult reports the cascade of a field deletion.
type FieldRemoveResult struct {
	RemovedPositions int `json:"removed_positions"`
}

// TemplateResult wraps a persisted template record.
type TemplateResult struct {
	Template *storage.TemplateRecord `json:"template"`
}

// TemplateOpenResult is an opened editing session: the rehydrated template
// and the rendered view the client draws.
type TemplateOpenResult struct {
	Template *storage.TemplateRecord `json:"template"`
	View     *render.View            `json:"view"`
}

// PositionResult wraps one position after an editor mutation. Moved is
// false when the event was a no-op (nothing selected, unknown id).
type PositionResult struct {
	Position template.Position `json:"position"`
	Applied  bool              `json:"applied"`
}

// PlacementCount is one field's placement badge.
type PlacementCount struct {
	FieldID string `json:"field_id"`
	Count   int    `json:"count"`
}

// FieldPlacementsResult lists placement counts in the form's field order.
type FieldPlacementsResult struct {
	Placements []PlacementCount `json:"placements"`
}

// BatchFailure identifies one failed save within a batch.
type BatchFailure struct {
	ID  string `json:"id"`
	Err string `json:"error"`
}

// BatchResult reports which independent saves succeeded and which failed.
// Retry and rollback policy belong to the caller.
type BatchResult struct {
	Succeeded []string       `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

// SubmissionResult wraps a captured submission.
type SubmissionResult struct {
	SubmissionID string `json:"submission_id"`
}

// SubmissionListResult lists stored submission identifiers.
type SubmissionListResult struct {
	SubmissionIDs []string `json:"submission_ids"`
}

// FillResult carries the regenerated document.
type FillResult struct {
	FileName string `json:"file_name"`
	Data     []byte `json:"-"`
	Drawn    int    `json:"drawn"`
	Skipped  int    `json:"skipped"`
}

// editingSession pairs a working template with its editor state. The
// template's scalar fields never change while open; its position store is
// only read or written through the session so every access takes the
// session lock.
type editingSession struct {
	tpl     *template.Template
	session *editor.Session
}

// record freezes the working template for persistence or display, copying
// the positions under the session lock.
func (es *editingSession) record() *storage.TemplateRecord {
	tpl := *es.tpl
	tpl.Positions = es.session.Snapshot()
	return storage.NewTemplateRecord(&tpl)
}
