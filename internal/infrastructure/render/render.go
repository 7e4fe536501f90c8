// Package render turns format-neutral reports into CSV and PDF files.
package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/ledgerly/finance-api/internal/core/ports"
)

const (
	pageMarginMM = 15.0
	rowHeightMM  = 7.0
)

// Renderer implements ports.ReportRenderer.
type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

// CSV writes the header followed by every row. Fields are quoted only when
// needed, with embedded quotes doubled.
func (Renderer) CSV(w io.Writer, r ports.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(r.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// PDF writes a single-table document: title, summary lines, then the rows
// with a repeated header on every page.
func (Renderer) PDF(w io.Writer, r ports.Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.SetAutoPageBreak(false, pageMarginMM)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	bottom := pageH - pageMarginMM

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, r.Title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range r.Summary {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(r.Columns) > 0 {
		colW := (pageW - 2*pageMarginMM) / float64(len(r.Columns))
		header := func() {
			pdf.SetFont("Helvetica", "B", 10)
			for _, c := range r.Columns {
				pdf.CellFormat(colW, rowHeightMM, c, "B", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
			pdf.SetFont("Helvetica", "", 10)
		}

		header()
		for _, row := range r.Rows {
			if pdf.GetY()+rowHeightMM > bottom {
				pdf.AddPage()
				header()
			}
			for i := range r.Columns {
				cell := ""
				if i < len(row) {
					cell = row[i]
				}
				if cell == "" {
					cell = "-"
				}
				pdf.CellFormat(colW, rowHeightMM, truncate(pdf, cell, colW-1), "", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// truncate shortens s so it fits within width at the current font.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
