package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	batch "Lobefield/internal/calc/batch"
	fields "Lobefield/internal/calc/fields"
	report "Lobefield/internal/calc/report"
	catalog "Lobefield/internal/catalog"

	"github.com/spf13/cobra"
)

var (
	pretty   bool
	csvPath  string
	xlsxPath string
	pdfPath  string
	xFactor  float64
	project  string
	author   string
)

func main() {
	root := &cobra.Command{
		Use:   "lobecalc [flags] <table-file>",
		Short: "Compute minimum-energy magnetic fields for a radio-lobe catalog",
		Long: `lobecalc reads a CSV/TSV/XLSX catalog with columns
  Source, alpha, gamma1, gamma2, v0, s_v0, l, b, w, D_l, Sf
(l, b, w in kpc, D_l in Mpc, v0 in MHz, s_v0 in Jy) and computes B_min, B_eq,
luminosity and energy densities per source. Rows that violate the formula
domain are reported individually and never abort the rest of the catalog.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}

	root.Flags().BoolVar(&pretty, "pretty", true, "format output as an aligned table instead of CSV lines")
	root.Flags().StringVar(&csvPath, "csv", "", "write the results table to a CSV file")
	root.Flags().StringVar(&xlsxPath, "xlsx", "", "write the results table to an XLSX workbook (raw precision)")
	root.Flags().StringVar(&pdfPath, "pdf", "", "write the results table to a PDF report")
	root.Flags().Float64Var(&xFactor, "x", 0, "proton-to-electron energy ratio")
	root.Flags().StringVar(&project, "project", "", "project name for the PDF report")
	root.Flags().StringVar(&author, "author", "", "author name for the PDF report")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var rows []fields.Input
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = catalog.ReadWorkbook(f)
	} else {
		rows, err = catalog.Read(f, catalog.SepFor(path))
	}
	if err != nil {
		return err
	}

	constants := fields.Default()
	constants.XFactor = xFactor

	res, err := batch.Calculate(batch.Input{Items: rows}, constants)
	if err != nil {
		return err
	}

	printResults(res)
	if res.Failed > 0 {
		fmt.Fprintf(os.Stderr, "# %d of %d rows failed\n", res.Failed, len(res.Results))
	}

	recs := records(res)
	if csvPath != "" {
		if err := writeFile(csvPath, func(out *os.File) error {
			return catalog.WriteCSV(out, recs)
		}); err != nil {
			return err
		}
	}
	if xlsxPath != "" {
		if err := writeFile(xlsxPath, func(out *os.File) error {
			return catalog.WriteWorkbook(out, recs)
		}); err != nil {
			return err
		}
	}
	if pdfPath != "" {
		pdf := report.BuildPDF(report.Input{
			Title:   "Lobe Magnetic Field Report",
			Project: project,
			Author:  author,
		}, res)
		if err := pdf.OutputFileAndClose(pdfPath); err != nil {
			return err
		}
	}
	return nil
}

func printResults(res batch.Result) {
	if !pretty {
		fmt.Println("# " + strings.Join(catalog.ExportHeader, ","))
		for _, row := range res.Results {
			if row.Error != "" {
				fmt.Printf("# %s: %s\n", row.Source, row.Error)
				continue
			}
			fmt.Println(strings.Join(cells(row), ","))
		}
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(catalog.ExportHeader, "\t"))
	for _, row := range res.Results {
		if row.Error != "" {
			fmt.Fprintf(tw, "%s\t%s\n", row.Source, row.Error)
			continue
		}
		fmt.Fprintln(tw, strings.Join(cells(row), "\t"))
	}
	tw.Flush()
}

func cells(row batch.RowResult) []string {
	return []string{
		row.Source,
		catalog.Fixed3(row.Result.BMinUG),
		catalog.Fixed3(row.Result.BEqUG),
		catalog.Sci2(row.Result.DLCm),
		catalog.Sci2(row.Result.LErgS),
		catalog.Sci2(row.Result.UP),
		catalog.Sci2(row.Result.UB),
		catalog.Sci2(row.Result.UTotal),
	}
}

func records(res batch.Result) []catalog.Record {
	var recs []catalog.Record
	for _, row := range res.Results {
		if row.Result == nil {
			continue
		}
		recs = append(recs, catalog.Record{Source: row.Source, Result: *row.Result})
	}
	return recs
}

func writeFile(path string, write func(*os.File) error) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
