package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/formfiller/formfiller/internal/form"
	"github.com/formfiller/formfiller/internal/submission"
	"github.com/formfiller/formfiller/internal/template"
)

const recordDirPerm = 0o750

// TemplateRecord is the persisted shape of a template: the template and its
// full position collection saved as one unit. CoordUnits tags the coordinate
// representation; records missing it predate the tag and may hold absolute
// values.
type TemplateRecord struct {
	ID               string              `json:"id"`
	FormID           string              `json:"formId"`
	DocumentRef      string              `json:"documentRef"`
	OriginalFileName string              `json:"originalFileName"`
	PageWidth        float64             `json:"pageWidth,omitempty"`
	PageHeight       float64             `json:"pageHeight,omitempty"`
	CoordUnits       string              `json:"coordUnits,omitempty"`
	Positions        []template.Position `json:"positions"`
}

// ToTemplate rehydrates the working template from a record.
func (r *TemplateRecord) ToTemplate() *template.Template {
	return &template.Template{
		ID:           r.ID,
		FormID:       r.FormID,
		DocumentRef:  r.DocumentRef,
		OriginalName: r.OriginalFileName,
		PageW:        r.PageWidth,
		PageH:        r.PageHeight,
		CoordUnits:   r.CoordUnits,
		Positions:    template.NewPositionStoreFrom(r.Positions),
	}
}

// NewTemplateRecord freezes a working template for persistence. Records
// written by this code always carry the percent unit tag.
func NewTemplateRecord(t *template.Template) *TemplateRecord {
	return &TemplateRecord{
		ID:               t.ID,
		FormID:           t.FormID,
		DocumentRef:      t.DocumentRef,
		OriginalFileName: t.OriginalName,
		PageWidth:        t.PageW,
		PageHeight:       t.PageH,
		CoordUnits:       template.CoordUnitsPercent,
		Positions:        t.Positions.All(),
	}
}

// RecordStore persists forms, templates and submissions as JSON files under
// a root directory, one file per record, written atomically.
type RecordStore struct {
	root string
}

// NewRecordStore creates the store layout under root.
func NewRecordStore(root string) (*RecordStore, error) {
	if root == "" {
		return nil, fmt.Errorf("store directory cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store directory: %w", err)
	}
	for _, sub := range []string{"forms", "templates", "submissions"} {
		if err := os.MkdirAll(filepath.Join(abs, sub), recordDirPerm); err != nil {
			return nil, fmt.Errorf("cannot create store directory %s: %w", sub, err)
		}
	}
	return &RecordStore{root: abs}, nil
}

// SaveForm persists a form definition.
func (s *RecordStore) SaveForm(f *form.Form) error {
	return s.write("forms", f.ID, f)
}

// LoadForm reads a form definition by identifier.
func (s *RecordStore) LoadForm(id string) (*form.Form, error) {
	var f form.Form
	if err := s.read("forms", id, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// SaveTemplate persists the template and its positions as one atomic write.
func (s *RecordStore) SaveTemplate(rec *TemplateRecord) error {
	return s.write("templates", rec.ID, rec)
}

// LoadTemplate reads a template record by identifier.
func (s *RecordStore) LoadTemplate(id string) (*TemplateRecord, error) {
	var rec TemplateRecord
	if err := s.read("templates", id, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// TemplateForForm returns the template record owned by the given form, if
// any. Each form holds at most one template in this store.
func (s *RecordStore) TemplateForForm(formID string) (*TemplateRecord, error) {
	ids, err := s.list("templates")
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		rec, err := s.LoadTemplate(id)
		if err != nil {
			continue
		}
		if rec.FormID == formID {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("no template for form: %s", formID)
}

// SaveSubmission persists an immutable submission record. Overwriting an
// existing record is refused: submissions are written exactly once.
func (s *RecordStore) SaveSubmission(sub *submission.Submission) error {
	path := s.path("submissions", sub.ID)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("submission already exists: %s", sub.ID)
	}
	return s.write("submissions", sub.ID, sub)
}

// LoadSubmission reads a submission record by identifier.
func (s *RecordStore) LoadSubmission(id string) (*submission.Submission, error) {
	var sub submission.Submission
	if err := s.read("submissions", id, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListForms returns the identifiers of all stored forms.
func (s *RecordStore) ListForms() ([]string, error) {
	return s.list("forms")
}

// ListSubmissions returns the identifiers of all stored submissions.
func (s *RecordStore) ListSubmissions() ([]string, error) {
	return s.list("submissions")
}

func (s *RecordStore) path(kind, id string) string {
	return filepath.Join(s.root, kind, id+".json")
}

func (s *RecordStore) write(kind, id string, v any) error {
	if id == "" {
		return fmt.Errorf("record id cannot be empty")
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", kind, err)
	}
	if err := writeAtomic(s.path(kind, id), data); err != nil {
		return fmt.Errorf("failed to write %s record: %w", kind, err)
	}
	return nil
}

func (s *RecordStore) read(kind, id string, v any) error {
	data, err := os.ReadFile(s.path(kind, id))
	if os.IsNotExist(err) {
		return fmt.Errorf("%s record not found: %s", strings.TrimSuffix(kind, "s"), id)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s record: %w", kind, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s record: %w", kind, err)
	}
	return nil
}

func (s *RecordStore) list(kind string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", kind, err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	return ids, nil
}

// writeAtomic writes data via a temp file and rename so readers never see a
// partial record.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
