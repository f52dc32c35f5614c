// Package submission captures completed form submissions and assembles them
// into fill-engine input.
package submission

import (
	"time"

	"github.com/google/uuid"

	"github.com/formfiller/formfiller/internal/form"
	"github.com/formfiller/formfiller/internal/template"
)

// FormSnapshot freezes the form definition as it existed at submit time.
type FormSnapshot struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Fields []form.Field `json:"fields"`
}

// Submission is an immutable record of one completed form. The frozen
// snapshots keep historical submissions stable when the live form or
// template changes later. Multi-select values are comma-joined strings.
type Submission struct {
	ID               string            `json:"id"`
	FormID           string            `json:"formId"`
	Values           map[string]string `json:"fieldValues"`
	FormSnapshot     FormSnapshot      `json:"formSnapshot"`
	TemplateSnapshot template.Snapshot `json:"templateSnapshot"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// New captures a submission, freezing the form and template state.
func New(f *form.Form, tpl *template.Template, values map[string]string) *Submission {
	frozen := make(map[string]string, len(values))
	for k, v := range values {
		frozen[k] = v
	}
	return &Submission{
		ID:     uuid.NewString(),
		FormID: f.ID,
		Values: frozen,
		FormSnapshot: FormSnapshot{
			ID:     f.ID,
			Name:   f.Name,
			Fields: f.Ordered(),
		},
		TemplateSnapshot: tpl.Snapshot(),
		CreatedAt:        time.Now().UTC(),
	}
}
