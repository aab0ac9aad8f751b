package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	batch "Lobefield/internal/calc/batch"
	fields "Lobefield/internal/calc/fields"
	catalog "Lobefield/internal/catalog"

	"github.com/phpdave11/gofpdf"
)

type Input struct {
	Project string         `json:"project"`
	Author  string         `json:"author"`
	Title   string         `json:"title"`
	Notes   string         `json:"notes"`
	Items   []fields.Input `json:"items"`
}

type Handler struct {
	Constants fields.Constants
}

// GeneratePDF computes the submitted sources and renders the results table
// as a PDF attachment.
func (h *Handler) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if input.Title == "" {
		input.Title = "Lobe Magnetic Field Report"
	}

	res, err := batch.Calculate(batch.Input{Items: input.Items}, h.Constants)
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}

	pdf := BuildPDF(input, res)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"lobe_fields.pdf\"")
	if err := pdf.Output(w); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}

// BuildPDF renders a computed batch as a landscape results table, one row per
// source, with failed rows carrying their error text in place of values.
func BuildPDF(input Input, res batch.Result) *gofpdf.Fpdf {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, input.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", input.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", input.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	widths := []float64{45, 29, 29, 33, 33, 33, 33, 33}

	pdf.SetFont("Helvetica", "B", 9)
	for i, head := range catalog.ExportHeader {
		pdf.CellFormat(widths[i], 7, tr(head), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range res.Results {
		if row.Error != "" {
			pdf.CellFormat(widths[0], 6, row.Source, "1", 0, "L", false, 0, "")
			pdf.CellFormat(232, 6, tr(row.Error), "1", 0, "L", false, 0, "")
			pdf.Ln(-1)
			continue
		}
		cells := []string{
			row.Source,
			catalog.Fixed3(row.Result.BMinUG),
			catalog.Fixed3(row.Result.BEqUG),
			catalog.Sci2(row.Result.DLCm),
			catalog.Sci2(row.Result.LErgS),
			catalog.Sci2(row.Result.UP),
			catalog.Sci2(row.Result.UB),
			catalog.Sci2(row.Result.UTotal),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if input.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, input.Notes, "", "L", false)
	}
	return pdf
}

// GenerateCSV computes the submitted sources and returns the exportable
// results table.
func (h *Handler) GenerateCSV(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	res, err := batch.Calculate(batch.Input{Items: input.Items}, h.Constants)
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}

	var recs []catalog.Record
	for _, row := range res.Results {
		if row.Result == nil {
			continue
		}
		recs = append(recs, catalog.Record{Source: row.Source, Result: *row.Result})
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\"magnetic_fields_results.csv\"")
	if err := catalog.WriteCSV(w, recs); err != nil {
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
}
