package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

// writePDF lays the report out with the core fonts. Label lines are written
// undecorated since the core fonts carry no emoji glyphs.
func writePDF(w io.Writer, r *Report) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	doc.SetTitle("Labeled content: "+r.Source, true)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	doc.SetFont("Helvetica", "B", 16)
	doc.MultiCell(0, 8, tr("Labeled content: "+r.Source), "", "L", false)
	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, 5, tr(fmt.Sprintf("Model: %s  Pages: %d of %d  Images: %d  Tables: %d",
		r.Model, r.Stats.Pages, r.PageCount, r.Stats.Images, r.Stats.Tables)), "", "L", false)
	doc.Ln(4)

	for _, p := range r.Pages {
		doc.SetFont("Helvetica", "B", 13)
		doc.MultiCell(0, 7, tr(p.Label), "", "L", false)
		doc.Ln(1)

		if p.Error != "" {
			doc.SetTextColor(170, 0, 0)
		}
		for _, ln := range strings.Split(strings.TrimSpace(p.Labels), "\n") {
			style := ""
			lower := strings.ToLower(ln)
			if strings.HasPrefix(lower, "title") || strings.HasPrefix(lower, "header") {
				style = "B"
			}
			doc.SetFont("Helvetica", style, 10)
			doc.MultiCell(0, 5, tr(ln), "", "L", false)
		}
		doc.SetTextColor(0, 0, 0)

		if len(p.Images) > 0 {
			doc.Ln(2)
			doc.SetFont("Helvetica", "I", 9)
			for _, img := range p.Images {
				doc.MultiCell(0, 5, fmt.Sprintf("Image %d (%s)", img.Index, img.Size), "", "L", false)
			}
		}
		for i, t := range p.Tables {
			doc.Ln(2)
			doc.SetFont("Helvetica", "I", 9)
			doc.MultiCell(0, 5, fmt.Sprintf("Table %d:", i+1), "", "L", false)
			doc.SetFont("Courier", "", 8)
			doc.SetFillColor(245, 245, 245)
			doc.MultiCell(0, 4, tr(strings.ReplaceAll(t, "\t", "    ")), "", "L", true)
		}
		doc.Ln(5)
	}

	if err := doc.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return doc.Output(w)
}
