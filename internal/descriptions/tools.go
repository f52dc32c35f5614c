package descriptions

// Tool descriptions with practical examples and use cases

const (
	// Form Tools
	FormCreateDescription = `Create a new empty form definition.

**When to use:** Starting a new fillable document project, before any fields or templates exist.

**Why it's useful:** A form is the anchor every field, template and submission hangs off; creating it first gives downstream tools a stable identifier.

**Examples:**
• New intake process: "Create a form named 'Patient Intake' for the clinic onboarding flow"
• Contract preparation: "Create a 'Lease Agreement' form before mapping the landlord's PDF"

**Common workflows:**
1. Form Building: form_create → field_add (repeat) → template_create → template_open
2. Migration: form_create → recreate legacy fields → attach existing document

**Best practices:** Pick a descriptive name; the form id returned here is required by every other form tool.`

	FormGetDescription = `Fetch a form definition with its full ordered field list.

**When to use:** Need a form's current fields, their types and order, or their identifiers for other calls.

**Why it's useful:** Field identifiers, not names, address fields in every mutation and placement call; this tool is how you obtain them.

**Examples:**
• Inspect before editing: "Get form abc123 to see which fields already exist"
• Build a fill payload: "Get the form to map user answers onto field ids"

**Best practices:** Re-fetch after structural edits; field order positions are renumbered on removal and reordering.`

	FormListDescription = `List the identifiers of all stored forms.

**When to use:** Discovering what forms exist, resuming work in a fresh session, or building a form picker.

**Examples:**
• Session startup: "List forms to find the intake form created last week"

**Best practices:** Follow up with form_get on the ids you care about; the list carries identifiers only.`

	FieldAddDescription = `Add a typed field to a form.

**When to use:** Building out a form's inputs: text, email, number, date, textarea, dropdown, checkbox or radio.

**Why it's useful:** Fields are appended at the end of the display order and get a generated identifier that placements and submissions reference permanently.

**Examples:**
• Basic input: "Add a required text field 'Full Name'"
• Choice input: "Add a dropdown 'State' with options 'CA,NY,WA'"

**Common workflows:**
1. Form Building: field_add for each input → form_get to verify order → template_open to place them
2. Choice Fields: add dropdown/checkbox/radio with comma-delimited options → verify via form_get

**Best practices:** Options are a comma-delimited string and only valid on dropdown, checkbox and radio fields; whitespace around options is trimmed.`

	FieldUpdateDescription = `Update an existing field's name, type, requirement, placeholder or options.

**When to use:** Correcting or evolving a field without disturbing its identity.

**Why it's useful:** The field keeps its identifier and order position, so every placed marker and historical submission stays valid.

**Examples:**
• Rename: "Change field 'Name' to 'Legal Name'"
• Tighten validation: "Mark the email field required"

**Best practices:** Send the complete desired field state; the update replaces attributes rather than merging them.`

	FieldRemoveDescription = `Remove a field from a form, cascading to its placed markers.

**When to use:** A field is no longer collected.

**Why it's useful:** Deletion also removes every position marker referencing the field from the form's template, so the editor and filled documents never show stale markers. Remaining fields are renumbered contiguously.

**Examples:**
• Cleanup: "Remove the obsolete fax number field and its placements"

**Best practices:** Irreversible for the live form; past submissions are unaffected because they carry frozen snapshots.`

	FieldMoveDescription = `Move a field one step up or down in display order.

**When to use:** Adjusting the order fields are listed and tabbed through.

**Why it's useful:** Order is swapped with the neighbor and renumbered, so positions stay contiguous with no gaps or duplicates.

**Examples:**
• Reorder: "Move the email field up so it sits under the name field"

**Best practices:** Moving the first field up or the last field down is a harmless no-op; repeat single steps to move further.`

	// Template Tools
	TemplateCreateDescription = `Attach a source PDF document to a form, creating its template.

**When to use:** A form exists and you have the PDF it should fill: an upload, a path under the documents directory, or an http(s) URL.

**Why it's useful:** The template owns the document reference and the position markers; creating it is the prerequisite for opening the placement editor.

**Examples:**
• Upload: "Attach lease.pdf (raw bytes) to the lease form"
• Reference: "Attach the document at contracts/master.pdf"

**Common workflows:**
1. Authoring: template_create → template_open → editor placement → template_save
2. Remote documents: host the PDF → template_create with its URL → open and place

**Best practices:** Local references are confined to the documents directory; dangling references are rejected at creation time rather than at first render.`

	TemplateOpenDescription = `Open a template for editing: render its pages and start a placement session.

**When to use:** Beginning or resuming marker placement on a template.

**Why it's useful:** Returns every page as a scaled box with existing markers overlaid and a text preview, and arms the editor so clicks and drags become meaningful.

**Examples:**
• Start placing: "Open template xyz and show me its pages"

**Common workflows:**
1. Placement: template_open → editor_select_field → editor_click per location → template_save
2. Review: template_open → inspect markers → adjust via drags → save

**Best practices:** Reopening discards unsaved edits from a previous session; save first if they matter. Markers whose field was deleted are skipped, never fatal.`

	TemplateViewDescription = `Re-render an open template's current state without reopening it.

**When to use:** Refreshing marker pixel offsets after clicks or drags, or reading position identifiers for drag operations.

**Why it's useful:** Shows the working (possibly unsaved) state, unlike template_open, which reloads from disk.

**Best practices:** Use this, not template_open, mid-session; open resets the working copy.`

	TemplateSaveDescription = `Persist an open template and all its markers as one atomic write.

**When to use:** After placing or moving markers, whenever the working state should survive.

**Why it's useful:** The template and its entire position collection are written as a single record; a crash mid-save never leaves a partial marker set.

**Examples:**
• Checkpoint: "Save template xyz before trying a different layout"

**Best practices:** Edits live only in the session until saved; closing or reopening without saving discards them.`

	TemplateSaveBatchDescription = `Save several open templates in one call, each independently.

**When to use:** Wrapping up an editing session that touched multiple templates.

**Why it's useful:** Each save succeeds or fails on its own; the result names the successes and failures so you retry only what failed.

**Examples:**
• Bulk checkpoint: "Save templates a, b and c"

**Best practices:** A failure in the batch never rolls back the others; inspect the failed list rather than assuming all-or-nothing.`

	// Editor Tools
	EditorSelectFieldDescription = `Select the form field that subsequent page clicks will place.

**When to use:** Before clicking a page to drop markers for a particular field, or with an empty field id to clear the selection.

**Why it's useful:** Placement is modal: clicks without an active field are deliberate no-ops, so stray clicks never create markers.

**Examples:**
• Arm placement: "Select the signature field, then click where signatures go"

**Best practices:** The field must belong to the template's form; selection persists until changed, so one field can be placed many times in a row.`

	EditorClickDescription = `Place a marker for the selected field at a click location on a page.

**When to use:** Dropping a new position marker. Coordinates are pixels from the page box's top-left corner, as rendered by template_open.

**Why it's useful:** The click is converted to page-relative percentages, so markers stay put across zoom levels and window sizes. A field may be placed any number of times.

**Examples:**
• Place once: "Click page 0 at (120, 340) for the date field"
• Place repeatedly: "Click each initial line on pages 1-4"

**Common workflows:**
1. Multi-placement: editor_select_field → editor_click per location → field_placements to verify counts

**Best practices:** Clicks with no selection, before the document renders, or on an out-of-range page return applied=false rather than an error. Coordinates are clamped to the page.`

	EditorDragBeginDescription = `Start dragging an existing marker.

**When to use:** Repositioning a placed marker. Only one drag can be active at a time.

**Best practices:** Identify the marker via template_view; beginning a second drag before ending the first is rejected.`

	EditorDragMoveDescription = `Update the active drag to the current pointer location.

**When to use:** Streaming pointer movement during a drag so the marker tracks the pointer.

**Why it's useful:** Every update writes the recomputed percentage back immediately; the view after each move shows the marker at its live location.

**Best practices:** Coordinates are clamped to the page; pointer positions outside the box pin the marker to the nearest edge.`

	EditorDragEndDescription = `Commit the final pointer location and end the drag.

**When to use:** Releasing a dragged marker.

**Why it's useful:** Release anywhere commits; there is no cancel gesture, so the marker rests exactly where it was last dragged.

**Best practices:** Remember the committed coordinate lives only in the session until template_save.`

	EditorRemovePositionDescription = `Delete a single marker from an open template.

**When to use:** A field was placed in the wrong spot or is placed too many times.

**Why it's useful:** Removal is its own operation, never inferred from clicks, so deleting a marker cannot accidentally place a new one.

**Best practices:** Removes one marker by its identifier; use field_remove to clear every marker of a field at once.`

	FieldPlacementsDescription = `Report how many markers each form field has on the open template.

**When to use:** Auditing coverage before saving: which fields are placed, how many times, and which are still unplaced.

**Examples:**
• Coverage check: "Show placement counts so I can spot unplaced required fields"

**Best practices:** Counts are in field display order; a zero count means the field's value will appear nowhere in filled documents.`

	// Submission Tools
	SubmissionCreateDescription = `Capture a completed form submission with frozen form and template snapshots.

**When to use:** A respondent has filled in the form's values and the record should be kept.

**Why it's useful:** The submission freezes the field list and marker map as they exist right now, so editing the form or template later never rewrites what was submitted. Submissions are written exactly once.

**Examples:**
• Capture: "Submit {name: 'Ada Lovelace', email: 'ada@example.com'} for the intake form"

**Common workflows:**
1. Capture & Deliver: submission_create → submission_fill → hand the filled PDF to the requester

**Best practices:** Values are keyed by field id. Required fields must be non-empty; multi-select values are comma-joined strings.`

	SubmissionListDescription = `List the identifiers of all stored submissions.

**When to use:** Finding past submissions to regenerate their documents.

**Best practices:** Pair with submission_fill, which takes a submission id.`

	SubmissionFillDescription = `Regenerate the filled PDF for a stored submission.

**When to use:** Producing the deliverable document, immediately after capture or months later.

**Why it's useful:** Fills from the submission's frozen snapshots, so the output is reproducible regardless of later form or template edits. Values are stamped at every placement of their field; unplaced fields are simply absent.

**Examples:**
• Immediate delivery: "Fill submission s1 and return filled_lease.pdf"
• Re-issue: "Regenerate last quarter's submission after the original file was lost"

**Common workflows:**
1. Delivery: submission_fill → save or send the returned bytes under the suggested filename
2. Audit: fill historical submissions → compare against records

**Best practices:** Markers for pages the document no longer has are skipped and counted, not fatal. The source document is fetched fresh on every call.`

	// Utility Tools
	ServerInfoDescription = `Get server status, configuration and the available tool catalog.

**When to use:** Starting a session, troubleshooting, or discovering capabilities.

**Examples:**
• Session startup: "Check server info to confirm the documents and store directories"

**Best practices:** Run first in new sessions; the directory paths shown here are where references resolve and records land.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"form_create":            FormCreateDescription,
	"form_get":               FormGetDescription,
	"form_list":              FormListDescription,
	"field_add":              FieldAddDescription,
	"field_update":           FieldUpdateDescription,
	"field_remove":           FieldRemoveDescription,
	"field_move":             FieldMoveDescription,
	"template_create":        TemplateCreateDescription,
	"template_open":          TemplateOpenDescription,
	"template_view":          TemplateViewDescription,
	"template_save":          TemplateSaveDescription,
	"template_save_batch":    TemplateSaveBatchDescription,
	"editor_select_field":    EditorSelectFieldDescription,
	"editor_click":           EditorClickDescription,
	"editor_drag_begin":      EditorDragBeginDescription,
	"editor_drag_move":       EditorDragMoveDescription,
	"editor_drag_end":        EditorDragEndDescription,
	"editor_remove_position": EditorRemovePositionDescription,
	"field_placements":       FieldPlacementsDescription,
	"submission_create":      SubmissionCreateDescription,
	"submission_list":        SubmissionListDescription,
	"submission_fill":        SubmissionFillDescription,
	"server_info":            ServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
