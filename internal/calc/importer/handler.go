package importer

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	batch "Lobefield/internal/calc/batch"
	fields "Lobefield/internal/calc/fields"
	catalog "Lobefield/internal/catalog"
)

type Handler struct {
	Constants fields.Constants
}

type ImportResult struct {
	Count   int               `json:"count"`
	Failed  int               `json:"failed"`
	Results []batch.RowResult `json:"results"`
}

type schemaResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing"`
}

// Import accepts a CSV/TSV/XLSX catalog upload, validates its columns and
// computes every row. Rows that violate a formula precondition come back as
// per-row errors; they do not fail the upload.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var rows []fields.Input
	if strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		rows, err = catalog.ReadWorkbook(file)
	} else {
		rows, err = catalog.Read(file, catalog.SepFor(header.Filename))
	}
	if err != nil {
		var se *catalog.SchemaError
		if errors.As(err, &se) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(schemaResponse{Error: se.Error(), Missing: se.Missing})
			return
		}
		http.Error(w, "Invalid file: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := batch.Calculate(batch.Input{Items: rows}, h.Constants)
	if err != nil {
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ImportResult{
		Count:   len(res.Results),
		Failed:  res.Failed,
		Results: res.Results,
	})
}
