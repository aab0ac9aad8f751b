package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	fields "Lobefield/internal/calc/fields"
)

// Record is one successfully computed source, ready for export.
type Record struct {
	Source string
	fields.Result
}

// ExportHeader is the column contract of the exported results table.
var ExportHeader = []string{
	"Source",
	"B_min (µG)",
	"B_eq (µG)",
	"D_L (cm)",
	"L (erg/s)",
	"u_p (erg/cm³)",
	"u_B (erg/cm³)",
	"u_total (erg/cm³)",
}

// WriteCSV writes the results table in display precision: field strengths to
// three decimals, CGS magnitudes in scientific notation with two decimals.
// Raw values stay available on the Record for programmatic use.
func WriteCSV(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, rec := range recs {
		if err := cw.Write(exportCells(rec)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportCells(rec Record) []string {
	return []string{
		rec.Source,
		Fixed3(rec.BMinUG),
		Fixed3(rec.BEqUG),
		Sci2(rec.DLCm),
		Sci2(rec.LErgS),
		Sci2(rec.UP),
		Sci2(rec.UB),
		Sci2(rec.UTotal),
	}
}

// Fixed3 renders a field strength rounded to three decimals.
func Fixed3(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }

// Sci2 renders a CGS magnitude with two significant decimals.
func Sci2(v float64) string { return fmt.Sprintf("%.2e", v) }
