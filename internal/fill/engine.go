// Package fill produces filled PDF documents by stamping submitted values
// onto a source document at stored field positions.
package fill

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/formfiller/formfiller/internal/geom"
)

// Triple is one value to draw: a stored coordinate, a target page and the
// text to stamp there.
type Triple struct {
	FieldID string  `json:"fieldId"`
	Text    string  `json:"value"`
	Page    int     `json:"page"` // 0-based
	X       float64 `json:"x"`    // percent, top-left origin (legacy >100: absolute)
	Y       float64 `json:"y"`
}

// Result is the outcome of one fill operation.
type Result struct {
	Bytes   []byte
	Drawn   int // triples stamped onto the document
	Skipped int // triples dropped for out-of-range pages or draw failures
}

// Fetcher resolves an opaque document reference to raw PDF bytes.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Engine stamps text onto PDF pages. Values are drawn with a fixed font,
// size and color, no wrapping: text wider than the nominal field simply runs
// past it. Template authors are responsible for leaving adequate room.
type Engine struct {
	fetcher  Fetcher
	fontName string
	fontSize int
}

// NewEngine creates a fill engine. fetcher may be nil if only Fill (bytes
// in, bytes out) is used.
func NewEngine(fetcher Fetcher, fontName string, fontSize int) *Engine {
	if fontName == "" {
		fontName = "Helvetica"
	}
	if fontSize <= 0 {
		fontSize = 10
	}
	return &Engine{
		fetcher:  fetcher,
		fontName: fontName,
		fontSize: fontSize,
	}
}

// FillDocument fetches the source document and fills it. Fetch failures are
// terminal EngineErrors of kind fetch.
func (e *Engine) FillDocument(ctx context.Context, documentRef string, triples []Triple) (*Result, error) {
	if e.fetcher == nil {
		return nil, &EngineError{Op: "fill_document", Kind: KindFetch, Err: fmt.Errorf("no document fetcher configured")}
	}
	src, err := e.fetcher.Fetch(ctx, documentRef)
	if err != nil {
		return nil, &EngineError{Op: "fill_document", Kind: KindFetch, Err: err}
	}
	return e.Fill(src, triples)
}

// Fill stamps every triple onto the source document and returns the filled
// bytes. It is a pure function of its inputs apart from the generation
// timestamps pdfcpu embeds. Per-triple failures (out-of-range page, one bad
// stamp) are logged and skipped; parse and serialize failures abort the
// whole operation.
func (e *Engine) Fill(src []byte, triples []Triple) (*Result, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	dims, err := api.PageDims(bytes.NewReader(src), conf)
	if err != nil {
		return nil, &EngineError{Op: "fill", Kind: KindParse, Err: fmt.Errorf("failed to read page dimensions: %w", err)}
	}
	pageCount := len(dims)
	if pageCount == 0 {
		return nil, &EngineError{Op: "fill", Kind: KindParse, Err: fmt.Errorf("document has no pages")}
	}

	result := &Result{}
	stamps := make(map[int][]*model.Watermark)

	for _, tr := range triples {
		if tr.Page < 0 || tr.Page >= pageCount {
			log.Printf("fill: skipping %q: page %d out of range (document has %d pages)",
				tr.FieldID, tr.Page, pageCount)
			result.Skipped++
			continue
		}

		dim := dims[tr.Page]
		abs := geom.ResolveDraw(geom.Percent{X: tr.X, Y: tr.Y}, dim.Width, dim.Height)

		wm, err := api.TextWatermark(tr.Text, e.stampDesc(abs), true, false, types.POINTS)
		if err != nil {
			log.Printf("fill: skipping %q on page %d: %v", tr.FieldID, tr.Page, err)
			result.Skipped++
			continue
		}
		// pdfcpu pages are 1-based.
		stamps[tr.Page+1] = append(stamps[tr.Page+1], wm)
		result.Drawn++
	}

	if len(stamps) == 0 {
		// Nothing to draw; the filled document is the source document.
		result.Bytes = append([]byte(nil), src...)
		return result, nil
	}

	var buf bytes.Buffer
	if err := api.AddWatermarksSliceMap(bytes.NewReader(src), &buf, stamps, conf); err != nil {
		return nil, &EngineError{Op: "fill", Kind: KindSerialize, Err: fmt.Errorf("failed to write filled document: %w", err)}
	}

	result.Bytes = buf.Bytes()
	return result, nil
}

// PageCount returns the number of pages in a PDF, classifying unreadable
// input as a parse failure.
func (e *Engine) PageCount(src []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	n, err := api.PageCount(bytes.NewReader(src), conf)
	if err != nil {
		return 0, &EngineError{Op: "page_count", Kind: KindParse, Err: err}
	}
	return n, nil
}

func (e *Engine) stampDesc(at geom.Absolute) string {
	return fmt.Sprintf(
		"fontname:%s, points:%d, scalefactor:1 abs, position:bl, offset:%.2f %.2f, rotation:0, fillcolor:#000000, opacity:1",
		e.fontName, e.fontSize, at.X, at.Y)
}
