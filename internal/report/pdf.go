package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"Flexfit/internal/calc/fit"
	"Flexfit/internal/calc/flexure"
	"Flexfit/internal/config"
)

type Document struct {
	Title    string
	Specimen config.Specimen
	SpanMM   float64

	// Model holds the beam intermediates evaluated at ModelForceN.
	ModelForceN float64
	Model       flexure.Result

	Result fit.Result
	Chart  []byte // PNG, optional
	Notes  []string
}

// ModelLines describes the section properties and, for a positive force,
// the moment and fibre stress at that force.
func ModelLines(forceN float64, m flexure.Result) []string {
	lines := []string{
		fmt.Sprintf("Moment of inertia I = bh^3/12: %.3f mm^4", m.InertiaMM4),
		fmt.Sprintf("Outer fibre distance c = h/2: %.3f mm", m.FiberMM),
	}
	if forceN > 0 {
		lines = append(lines,
			fmt.Sprintf("Peak force F: %.2f N", forceN),
			fmt.Sprintf("Bending moment M = FL/4: %.2f N*mm", m.MomentNMM),
			fmt.Sprintf("Fibre stress Mc/I: %.2f MPa", m.StressMPa))
	}
	return lines
}

// WritePDF lays out the run summary and the overlay chart on one A4 page.
func WritePDF(w io.Writer, doc Document) error {
	if doc.Title == "" {
		doc.Title = "Flexural Stress Comparison"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, doc.Title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Material: %s", doc.Specimen.Material))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Section: b = %.2f mm, h = %.2f mm, span L = %.1f mm",
		doc.Specimen.WidthMM, doc.Specimen.HeightMM, doc.SpanMM))
	pdf.Ln(6)
	if doc.Specimen.FlexuralModulusMPa > 0 {
		pdf.Cell(0, 6, fmt.Sprintf("Flexural modulus: %.0f MPa, 0.2%% offset strength: %.1f MPa",
			doc.Specimen.FlexuralModulusMPa, doc.Specimen.OffsetStrengthMPa))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	if doc.Model.InertiaMM4 > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Beam model")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, line := range ModelLines(doc.ModelForceN, doc.Model) {
			pdf.Cell(0, 6, line)
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Fit quality")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range SummaryLines(doc.Result) {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	if doc.Result.Undefined > 0 {
		pdf.Cell(0, 6, fmt.Sprintf("Points with zero theoretical stress (excluded from MAPE): %d", doc.Result.Undefined))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	if len(doc.Chart) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("chart", opts, bytes.NewReader(doc.Chart))
		pdf.ImageOptions("chart", 10, pdf.GetY(), 190, 0, true, opts, 0, "")
		pdf.Ln(4)
	}

	if len(doc.Notes) > 0 {
		pdf.SetFont("Helvetica", "", 10)
		for _, n := range doc.Notes {
			pdf.MultiCell(0, 5, n, "", "L", false)
		}
	}

	return pdf.Output(w)
}
