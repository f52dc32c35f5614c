package submission

import (
	"sort"

	"github.com/formfiller/formfiller/internal/fill"
	"github.com/formfiller/formfiller/internal/template"
)

// Assemble joins a submission's field values with the frozen position map,
// emitting one fill triple per (value, matching position) pair. A field
// captured in the form but never placed contributes nothing; a field placed
// in several locations is stamped at every one. Positions whose field no
// longer appears in the value map are orphans and emit nothing.
//
// Triple order is not significant to the fill engine; values are walked in
// sorted field order only to keep output deterministic.
func Assemble(values map[string]string, snap template.Snapshot) []fill.Triple {
	fieldIDs := make([]string, 0, len(values))
	for id := range values {
		fieldIDs = append(fieldIDs, id)
	}
	sort.Strings(fieldIDs)

	var triples []fill.Triple
	for _, fieldID := range fieldIDs {
		for _, pos := range snap.Positions[fieldID] {
			triples = append(triples, fill.Triple{
				FieldID: fieldID,
				Text:    values[fieldID],
				Page:    pos.Page,
				X:       pos.X,
				Y:       pos.Y,
			})
		}
	}
	return triples
}

// AssembleSubmission is the common entry point: assemble the stored
// submission's own values against its own frozen template snapshot.
func AssembleSubmission(sub *Submission) []fill.Triple {
	return Assemble(sub.Values, sub.TemplateSnapshot)
}
