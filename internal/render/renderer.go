// Package render computes the editing view of a template: every page of the
// source document as a scaled pixel box, with the stored position markers
// overlaid at their percentage coordinates.
package render

import (
	"bytes"
	"context"
	"fmt"
	"log"

	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/formfiller/formfiller/internal/geom"
	"github.com/formfiller/formfiller/internal/template"
)

// DefaultScale multiplies the document's native page size into a comfortably
// legible editing surface.
const DefaultScale = 1.5

// Fetcher resolves an opaque document reference to raw PDF bytes.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Marker is one position drawn on a rendered page, with its pixel offset
// inside the page box.
type Marker struct {
	PositionID string  `json:"positionId"`
	FieldID    string  `json:"fieldId"`
	X          float64 `json:"x"` // pixels from the page box's left edge
	Y          float64 `json:"y"` // pixels from the page box's top edge
	PercentX   float64 `json:"percentX"`
	PercentY   float64 `json:"percentY"`
}

// Page is one rendered page: the event-capture surface for clicks and drags.
type Page struct {
	Index   int      `json:"index"`
	Width   float64  `json:"width"` // scaled pixels
	Height  float64  `json:"height"`
	Text    string   `json:"text,omitempty"` // extracted text preview
	Markers []Marker `json:"markers"`
}

// View is the full rendered document.
type View struct {
	DocumentRef      string  `json:"documentRef"`
	PageCount        int     `json:"pageCount"`
	Scale            float64 `json:"scale"`
	Pages            []Page  `json:"pages"`
	SkippedPositions int     `json:"skippedPositions"` // out-of-range or orphaned
}

// Renderer builds views. Document bytes are fetched fresh on every render
// and discarded afterwards.
type Renderer struct {
	fetcher Fetcher
	scale   float64
}

// NewRenderer creates a renderer. A scale of 0 selects DefaultScale.
func NewRenderer(fetcher Fetcher, scale float64) *Renderer {
	if scale <= 0 {
		scale = DefaultScale
	}
	return &Renderer{fetcher: fetcher, scale: scale}
}

// Render fetches and lays out the document, overlaying the store's markers.
// knownFields filters orphaned positions: a marker whose field is absent is
// skipped silently, never drawn and never fatal. A nil knownFields draws
// every marker. Fetch or parse failure is terminal for the whole view; no
// partial page list is returned.
func (r *Renderer) Render(ctx context.Context, documentRef string, store *template.PositionStore, knownFields map[string]bool) (*View, error) {
	if r.fetcher == nil {
		return nil, fmt.Errorf("no document fetcher configured")
	}
	src, err := r.fetcher.Fetch(ctx, documentRef)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	dims, err := api.PageDims(bytes.NewReader(src), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if len(dims) == 0 {
		return nil, fmt.Errorf("document has no pages")
	}

	texts := r.extractPageTexts(src, len(dims))

	view := &View{
		DocumentRef: documentRef,
		PageCount:   len(dims),
		Scale:       r.scale,
		Pages:       make([]Page, len(dims)),
	}

	for i, dim := range dims {
		page := Page{
			Index:   i,
			Width:   dim.Width * r.scale,
			Height:  dim.Height * r.scale,
			Markers: []Marker{},
		}
		if i < len(texts) {
			page.Text = texts[i]
		}

		for _, pos := range positionsOn(store, i) {
			if knownFields != nil && !knownFields[pos.FieldID] {
				view.SkippedPositions++
				continue
			}
			x, y := geom.ScreenOffset(geom.Percent{X: pos.X, Y: pos.Y}, page.Width, page.Height)
			page.Markers = append(page.Markers, Marker{
				PositionID: pos.ID,
				FieldID:    pos.FieldID,
				X:          x,
				Y:          y,
				PercentX:   pos.X,
				PercentY:   pos.Y,
			})
		}
		view.Pages[i] = page
	}

	// Positions referencing pages the document no longer has.
	if store != nil {
		for _, pos := range store.All() {
			if pos.Page < 0 || pos.Page >= len(dims) {
				log.Printf("render: skipping position %s: page %d out of range (document has %d pages)",
					pos.ID, pos.Page, len(dims))
				view.SkippedPositions++
			}
		}
	}

	return view, nil
}

func positionsOn(store *template.PositionStore, page int) []template.Position {
	if store == nil {
		return nil
	}
	return store.ByPage(page)
}

// extractPageTexts pulls per-page plain text for the preview payload.
// Extraction failures degrade to empty previews; they never fail a render.
func (r *Renderer) extractPageTexts(src []byte, pageCount int) []string {
	texts := make([]string, pageCount)

	reader, err := ledongthuc.NewReader(bytes.NewReader(src), int64(len(src)))
	if err != nil {
		return texts
	}

	for i := 1; i <= reader.NumPage() && i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		texts[i-1] = content
	}
	return texts
}
