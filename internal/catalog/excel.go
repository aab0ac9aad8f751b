package catalog

import (
	"fmt"
	"io"

	fields "Lobefield/internal/calc/fields"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook parses the first sheet of an XLSX workbook under the same
// schema rules as Read.
func ReadWorkbook(r io.Reader) ([]fields.Input, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty sheet")
	}

	idx, err := headerIndex(records[0])
	if err != nil {
		return nil, err
	}

	var rows []fields.Input
	for i, rec := range records[1:] {
		if blankRow(rec) {
			continue
		}
		row, err := parseRow(idx, rec, i+2)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet has no data rows")
	}
	return rows, nil
}

// WriteWorkbook writes the results table as an XLSX workbook with raw float
// cells, so a downstream spreadsheet keeps full precision.
func WriteWorkbook(w io.Writer, recs []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, rec := range recs {
		cells := []interface{}{
			rec.Source,
			rec.BMinUG, rec.BEqUG,
			rec.DLCm, rec.LErgS,
			rec.UP, rec.UB, rec.UTotal,
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func blankRow(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return false
		}
	}
	return true
}
