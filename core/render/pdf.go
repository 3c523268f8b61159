// Package render — placeholder renderer.
// Draws a single-page PDF with gofpdf for a chapter whose build failed, so
// the merged book keeps the chapter's bookmark and page offsets stay valid.
package render

import (
	"fmt"

	"github.com/gaurav-prasanna/bookmerge/core"
	"github.com/jung-kurt/gofpdf"
)

// PlaceholderPages is the page count of every placeholder document.
const PlaceholderPages = 1

// Placeholder writes a one-page document naming the chapter and the reason
// it is missing.
func Placeholder(pdfPath, title, sourceURL string, cause error) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 15)
	pdf.AddPage()

	// gofpdf core fonts are cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 8, tr(title), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, tr("Source: "+sourceURL), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 10)
	reason := "This chapter could not be built."
	if cause != nil {
		reason += " " + cause.Error()
	}
	pdf.MultiCell(0, 5, tr(reason), "", "L", false)

	if err := pdf.OutputFileAndClose(pdfPath); err != nil {
		return fmt.Errorf("%w: writing placeholder %s: %w", core.ErrRender, pdfPath, err)
	}
	return nil
}
