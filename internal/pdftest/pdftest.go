// Package pdftest builds minimal valid PDF fixtures for tests.
package pdftest

import (
	"bytes"
	"fmt"
)

// MinimalPDF returns a valid PDF with the given number of empty pages, all
// sized mediaW x mediaH points. Cross-reference offsets are computed while
// writing, so the fixture is always internally consistent.
func MinimalPDF(pages int, mediaW, mediaH float64) []byte {
	var buf bytes.Buffer
	offsets := make([]int, 0, pages+2)

	object := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")

	object("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}
	object(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [ %s] /Count %d >>\nendobj\n", kids, pages))

	for i := 0; i < pages; i++ {
		object(fmt.Sprintf(
			"%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Resources << >> >>\nendobj\n",
			3+i, mediaW, mediaH))
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefOffset)

	return buf.Bytes()
}
