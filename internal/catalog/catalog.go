package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	fields "Lobefield/internal/calc/fields"
)

// RequiredColumns are the source-table columns a loader must provide,
// case-sensitive and order-independent. l, b, w are in kpc, D_l in Mpc,
// v0 in MHz, s_v0 in Jy.
var RequiredColumns = []string{
	"Source", "alpha", "gamma1", "gamma2", "v0", "s_v0", "l", "b", "w", "D_l", "Sf",
}

// SchemaError reports the required columns absent from an input table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing columns: " + strings.Join(e.Missing, ", ")
}

// SepFor picks the field separator from the uploaded file name:
// tab for .tsv/.txt, comma otherwise.
func SepFor(name string) rune {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tsv", ".txt":
		return '\t'
	default:
		return ','
	}
}

// Read parses a delimited source table. Lines starting with '#' are comments.
// The header is validated against RequiredColumns before any row is parsed.
func Read(r io.Reader, sep rune) ([]fields.Input, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty table")
	}

	idx, err := headerIndex(records[0])
	if err != nil {
		return nil, err
	}

	var rows []fields.Input
	for i, rec := range records[1:] {
		row, err := parseRow(idx, rec, i+2)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("table has no data rows")
	}
	return rows, nil
}

func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return idx, nil
}

func parseRow(idx map[string]int, rec []string, line int) (fields.Input, error) {
	cell := func(name string) (string, error) {
		i := idx[name]
		if i >= len(rec) {
			return "", fmt.Errorf("line %d: missing value for %s", line, name)
		}
		return strings.TrimSpace(rec[i]), nil
	}
	num := func(name string) (float64, error) {
		s, err := cell(name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("line %d: bad %s value %q", line, name, s)
		}
		return v, nil
	}

	var in fields.Input
	var err error
	if in.Source, err = cell("Source"); err != nil {
		return fields.Input{}, err
	}
	numeric := []struct {
		name string
		dst  *float64
	}{
		{"alpha", &in.Alpha},
		{"gamma1", &in.Gamma1},
		{"gamma2", &in.Gamma2},
		{"v0", &in.V0MHz},
		{"s_v0", &in.SV0Jy},
		{"l", &in.LKpc},
		{"b", &in.BKpc},
		{"w", &in.WKpc},
		{"D_l", &in.DLMpc},
		{"Sf", &in.Sf},
	}
	for _, f := range numeric {
		if *f.dst, err = num(f.name); err != nil {
			return fields.Input{}, err
		}
	}
	return in, nil
}
