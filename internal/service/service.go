// Package service orchestrates form definitions, template editing sessions,
// document rendering, submission capture and document filling over the
// storage layer.
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/formfiller/formfiller/internal/config"
	"github.com/formfiller/formfiller/internal/editor"
	"github.com/formfiller/formfiller/internal/fill"
	"github.com/formfiller/formfiller/internal/form"
	"github.com/formfiller/formfiller/internal/render"
	"github.com/formfiller/formfiller/internal/storage"
	"github.com/formfiller/formfiller/internal/submission"
	"github.com/formfiller/formfiller/internal/template"
)

// Service is the single entry point for all operations. Records go through
// the record store on every call; only editing sessions are held in memory,
// keyed by template identifier.
type Service struct {
	config   *config.Config
	docs     *storage.DocumentStore
	records  *storage.RecordStore
	renderer *render.Renderer
	engine   *fill.Engine

	mu       sync.Mutex
	sessions map[string]*editingSession
}

// NewService creates the service and its stores from configuration.
func NewService(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	docs, err := storage.NewDocumentStore(cfg.DocumentsDir, cfg.MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create document store: %w", err)
	}
	records, err := storage.NewRecordStore(cfg.StoreDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create record store: %w", err)
	}
	return &Service{
		config:   cfg,
		docs:     docs,
		records:  records,
		renderer: render.NewRenderer(docs, cfg.RenderScale),
		engine:   fill.NewEngine(docs, cfg.StampFont, cfg.StampSize),
		sessions: make(map[string]*editingSession),
	}, nil
}

// Form Operations

// FormCreate creates and persists a new empty form.
func (s *Service) FormCreate(req FormCreateRequest) (*FormResult, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("form name cannot be empty")
	}
	f := form.New(strings.TrimSpace(req.Name))
	if err := s.records.SaveForm(f); err != nil {
		return nil, err
	}
	return &FormResult{Form: f}, nil
}

// FormGet loads a form definition.
func (s *Service) FormGet(req FormGetRequest) (*FormResult, error) {
	f, err := s.records.LoadForm(req.FormID)
	if err != nil {
		return nil, err
	}
	return &FormResult{Form: f}, nil
}

// FormList lists all stored form identifiers.
func (s *Service) FormList() (*FormListResult, error) {
	ids, err := s.records.ListForms()
	if err != nil {
		return nil, err
	}
	return &FormListResult{FormIDs: ids}, nil
}

// FieldAdd appends a field to a form and persists the form.
func (s *Service) FieldAdd(req FieldAddRequest) (*FieldResult, error) {
	f, err := s.records.LoadForm(req.FormID)
	if err != nil {
		return nil, err
	}
	added, err := f.AddField(req.Field)
	if err != nil {
		return nil, err
	}
	if err := s.records.SaveForm(f); err != nil {
		return nil, err
	}
	return &FieldResult{Field: added}, nil
}

// FieldUpdate replaces a field's attributes and persists the form. Existing
// positions are untouched: they reference the field by identifier, which
// survives the update.
func (s *Service) FieldUpdate(req FieldUpdateRequest) (*FieldResult, error) {
	f, err := s.records.LoadForm(req.FormID)
	if err != nil {
		return nil, err
	}
	updated, err := f.UpdateField(req.FieldID, req.Field)
	if err != nil {
		return nil, err
	}
	if err := s.records.SaveForm(f); err != nil {
		return nil, err
	}
	return &FieldResult{Field: updated}, nil
}

// FieldRemove deletes a field from its form and cascades the deletion to
// every position referencing it, in the open editing session and the
// persisted template alike.
func (s *Service) FieldRemove(req FieldRemoveRequest) (*FieldRemoveResult, error) {
	f, err := s.records.LoadForm(req.FormID)
	if err != nil {
		return nil, err
	}
	if err := f.RemoveField(req.FieldID); err != nil {
		return nil, err
	}
	if err := s.records.SaveForm(f); err != nil {
		return nil, err
	}

	removed, err := s.cascadeFieldRemoval(req.FormID, req.FieldID)
	if err != nil {
		// The field itself is gone; stale positions are skipped as orphans
		// at render and fill time, so this is not fatal.
		log.Printf("service: field %s removed but position cascade failed: %v", req.FieldID, err)
	}
	return &FieldRemoveResult{RemovedPositions: removed}, nil
}

// FieldMove reorders a field one step within its form.
func (s *Service) FieldMove(req FieldMoveRequest) (*FormResult, error) {
	f, err := s.records.LoadForm(req.FormID)
	if err != nil {
		return nil, err
	}
	switch req.Direction {
	case "up":
		err = f.MoveUp(req.FieldID)
	case "down":
		err = f.MoveDown(req.FieldID)
	default:
		return nil, fmt.Errorf("invalid move direction: %q (expected up or down)", req.Direction)
	}
	if err != nil {
		return nil, err
	}
	if err := s.records.SaveForm(f); err != nil {
		return nil, err
	}
	return &FormResult{Form: f}, nil
}

// Template Operations

// TemplateCreate attaches a source document to a form. Uploaded bytes are
// stored first; a bare DocumentRef is verified to resolve before the
// template is written.
func (s *Service) TemplateCreate(ctx context.Context, req TemplateCreateRequest) (*TemplateResult, error) {
	if _, err := s.records.LoadForm(req.FormID); err != nil {
		return nil, err
	}

	ref := req.DocumentRef
	if len(req.Document) > 0 {
		name := req.OriginalFileName
		if name == "" {
			name = "document.pdf"
		}
		stored, err := s.docs.Put(name, req.Document)
		if err != nil {
			return nil, err
		}
		ref = stored
	} else if _, err := s.docs.Fetch(ctx, ref); err != nil {
		return nil, err
	}

	tpl := template.New(req.FormID, ref, req.OriginalFileName)
	rec := storage.NewTemplateRecord(tpl)
	if err := s.records.SaveTemplate(rec); err != nil {
		return nil, err
	}
	return &TemplateResult{Template: rec}, nil
}

// TemplateOpen loads a template into an editing session and renders the
// document. The rendered page boxes become the session's layout, making
// pointer events meaningful; reopening an already-open template discards
// unsaved edits.
func (s *Service) TemplateOpen(ctx context.Context, req TemplateOpenRequest) (*TemplateOpenResult, error) {
	rec, err := s.records.LoadTemplate(req.TemplateID)
	if err != nil {
		return nil, err
	}
	tpl := rec.ToTemplate()

	view, err := s.renderTemplate(ctx, tpl, tpl.Positions)
	if err != nil {
		return nil, err
	}

	sess := editor.NewSession(tpl.Positions)
	sess.SetLayout(pageBoxes(view))

	s.mu.Lock()
	s.sessions[tpl.ID] = &editingSession{tpl: tpl, session: sess}
	s.mu.Unlock()

	return &TemplateOpenResult{Template: rec, View: view}, nil
}

// TemplateView re-renders the open session's current state, markers
// included. Used after edits to refresh the client without reopening.
func (s *Service) TemplateView(ctx context.Context, req TemplateOpenRequest) (*TemplateOpenResult, error) {
	es, err := s.session(req.TemplateID)
	if err != nil {
		return nil, err
	}
	view, err := s.renderTemplate(ctx, es.tpl, es.session.Snapshot())
	if err != nil {
		return nil, err
	}
	es.session.SetLayout(pageBoxes(view))
	return &TemplateOpenResult{Template: es.record(), View: view}, nil
}

// TemplateSave persists the open session's template and all its positions
// as one atomic write.
func (s *Service) TemplateSave(req TemplateSaveRequest) (*TemplateResult, error) {
	es, err := s.session(req.TemplateID)
	if err != nil {
		return nil, err
	}
	rec := es.record()
	if err := s.records.SaveTemplate(rec); err != nil {
		return nil, err
	}
	return &TemplateResult{Template: rec}, nil
}

// TemplateSaveBatch saves several open templates. Saves are independent:
// one failure never rolls back or aborts the others, and the result names
// each outcome.
func (s *Service) TemplateSaveBatch(req TemplateSaveBatchRequest) (*BatchResult, error) {
	if len(req.TemplateIDs) == 0 {
		return nil, fmt.Errorf("no template ids given")
	}
	out := &BatchResult{}
	for _, id := range req.TemplateIDs {
		if _, err := s.TemplateSave(TemplateSaveRequest{TemplateID: id}); err != nil {
			out.Failed = append(out.Failed, BatchFailure{ID: id, Err: err.Error()})
			continue
		}
		out.Succeeded = append(out.Succeeded, id)
	}
	return out, nil
}

// TemplateClose drops the editing session. Unsaved edits are discarded.
func (s *Service) TemplateClose(req TemplateSaveRequest) {
	s.mu.Lock()
	delete(s.sessions, req.TemplateID)
	s.mu.Unlock()
}

// Editor Operations

// EditorSelectField sets (or, with an empty field id, clears) the active
// field for marker placement. The field must belong to the template's form.
func (s *Service) EditorSelectField(req EditorSelectFieldRequest) error {
	es, err := s.session(req.TemplateID)
	if err != nil {
		return err
	}
	if req.FieldID == "" {
		es.session.ClearSelection()
		return nil
	}
	f, err := s.records.LoadForm(es.tpl.FormID)
	if err != nil {
		return err
	}
	if _, ok := f.FieldByID(req.FieldID); !ok {
		return fmt.Errorf("field not found: %s", req.FieldID)
	}
	es.session.SelectField(req.FieldID)
	return nil
}

// EditorClick places a marker for the selected field at the click location.
// Applied is false when the click was a no-op.
func (s *Service) EditorClick(req EditorClickRequest) (*PositionResult, error) {
	es, err := s.session(req.TemplateID)
	if err != nil {
		return nil, err
	}
	pos, ok := es.session.ClickPage(req.Page, editor.Pointer{X: req.X, Y: req.Y})
	return &PositionResult{Position: pos, Applied: ok}, nil
}

// EditorDragBegin starts dragging an existing marker.
func (s *Service) EditorDragBegin(req EditorDragRequest) error {
	es, err := s.session(req.TemplateID)
	if err != nil {
		return err
	}
	return es.session.BeginDrag(req.PositionID)
}

// EditorDragMove updates the dragged marker to the pointer location.
func (s *Service) EditorDragMove(req EditorDragRequest) (*PositionResult, error) {
	es, err := s.session(req.TemplateID)
	if err != nil {
		return nil, err
	}
	pos, ok := es.session.UpdateDrag(editor.Pointer{X: req.X, Y: req.Y})
	return &PositionResult{Position: pos, Applied: ok}, nil
}

// EditorDragEnd commits the final pointer location and ends the drag.
func (s *Service) EditorDragEnd(req EditorDragRequest) (*PositionResult, error) {
	es, err := s.session(req.TemplateID)
	if err != nil {
		return nil, err
	}
	pos, ok := es.session.EndDrag(editor.Pointer{X: req.X, Y: req.Y})
	return &PositionResult{Position: pos, Applied: ok}, nil
}

// EditorRemovePosition deletes one marker from the open session.
func (s *Service) EditorRemovePosition(req EditorRemovePositionRequest) error {
	es, err := s.session(req.TemplateID)
	if err != nil {
		return err
	}
	if !es.session.RemovePosition(req.PositionID) {
		return fmt.Errorf("position not found: %s", req.PositionID)
	}
	return nil
}

// FieldPlacements reports how many markers each of the form's fields has in
// the open session, in field order.
func (s *Service) FieldPlacements(req FieldPlacementsRequest) (*FieldPlacementsResult, error) {
	es, err := s.session(req.TemplateID)
	if err != nil {
		return nil, err
	}
	f, err := s.records.LoadForm(es.tpl.FormID)
	if err != nil {
		return nil, err
	}
	out := &FieldPlacementsResult{}
	for _, fld := range f.Ordered() {
		out.Placements = append(out.Placements, PlacementCount{
			FieldID: fld.ID,
			Count:   es.session.CountForField(fld.ID),
		})
	}
	return out, nil
}

// Submission Operations

// SubmissionCreate validates and captures a completed form, freezing the
// form and template state so later edits never rewrite history.
func (s *Service) SubmissionCreate(req SubmissionCreateRequest) (*SubmissionResult, error) {
	f, err := s.records.LoadForm(req.FormID)
	if err != nil {
		return nil, err
	}
	for _, fld := range f.Ordered() {
		if fld.Required && strings.TrimSpace(req.Values[fld.ID]) == "" {
			return nil, fmt.Errorf("required field is empty: %s", fld.Name)
		}
	}
	rec, err := s.records.TemplateForForm(req.FormID)
	if err != nil {
		return nil, err
	}

	sub := submission.New(f, rec.ToTemplate(), req.Values)
	if err := s.records.SaveSubmission(sub); err != nil {
		return nil, err
	}
	return &SubmissionResult{SubmissionID: sub.ID}, nil
}

// SubmissionList lists all stored submission identifiers.
func (s *Service) SubmissionList() (*SubmissionListResult, error) {
	ids, err := s.records.ListSubmissions()
	if err != nil {
		return nil, err
	}
	return &SubmissionListResult{SubmissionIDs: ids}, nil
}

// SubmissionFill regenerates the filled document for a stored submission
// from its frozen snapshots. The source document is fetched fresh; the
// output is equivalent for repeated calls and never persisted here.
func (s *Service) SubmissionFill(ctx context.Context, req SubmissionFillRequest) (*FillResult, error) {
	sub, err := s.records.LoadSubmission(req.SubmissionID)
	if err != nil {
		return nil, err
	}
	triples := submission.AssembleSubmission(sub)

	res, err := s.engine.FillDocument(ctx, sub.TemplateSnapshot.DocumentRef, triples)
	if err != nil {
		return nil, err
	}
	return &FillResult{
		FileName: filledName(sub.TemplateSnapshot.OriginalName),
		Data:     res.Bytes,
		Drawn:    res.Drawn,
		Skipped:  res.Skipped,
	}, nil
}

// Helpers

func (s *Service) session(templateID string) (*editingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	es, ok := s.sessions[templateID]
	if !ok {
		return nil, fmt.Errorf("template is not open for editing: %s", templateID)
	}
	return es, nil
}

// renderTemplate renders a working template, filtering markers whose field
// no longer exists on the form. Callers with an open editing session pass a
// position snapshot rather than the live store.
func (s *Service) renderTemplate(ctx context.Context, tpl *template.Template, positions *template.PositionStore) (*render.View, error) {
	known := map[string]bool{}
	if f, err := s.records.LoadForm(tpl.FormID); err == nil {
		for _, fld := range f.Ordered() {
			known[fld.ID] = true
		}
	} else {
		// Render the document anyway; every marker is treated as orphaned.
		log.Printf("service: rendering template %s without its form: %v", tpl.ID, err)
	}
	return s.renderer.Render(ctx, tpl.DocumentRef, positions, known)
}

// cascadeFieldRemoval removes a deleted field's positions from the form's
// template, preferring the open editing session's working copy.
func (s *Service) cascadeFieldRemoval(formID, fieldID string) (int, error) {
	rec, err := s.records.TemplateForForm(formID)
	if err != nil {
		return 0, nil // no template, nothing to cascade
	}

	s.mu.Lock()
	es := s.sessions[rec.ID]
	s.mu.Unlock()

	if es != nil {
		removed := es.session.RemoveField(fieldID)
		return removed, s.records.SaveTemplate(es.record())
	}

	tpl := rec.ToTemplate()
	removed := tpl.Positions.RemoveForField(fieldID)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.records.SaveTemplate(storage.NewTemplateRecord(tpl))
}

func pageBoxes(view *render.View) []editor.PageBox {
	boxes := make([]editor.PageBox, len(view.Pages))
	for i, p := range view.Pages {
		boxes[i] = editor.PageBox{Width: p.Width, Height: p.Height}
	}
	return boxes
}

func filledName(original string) string {
	if original == "" {
		original = "document.pdf"
	}
	return "filled_" + original
}
