package runs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	auth "Lobefield/internal/auth"
	batch "Lobefield/internal/calc/batch"
	fields "Lobefield/internal/calc/fields"
	catalog "Lobefield/internal/catalog"
	repo "Lobefield/internal/repo"

	"github.com/gorilla/mux"
)

// Handler persists computed result sets per user, so a catalog does not have
// to be re-uploaded to get its table back.
type Handler struct {
	Repo      repo.Repository
	Constants fields.Constants
}

type SaveRequest struct {
	Name  string         `json:"name"`
	Items []fields.Input `json:"items"`
}

type SaveResponse struct {
	ID     int `json:"id"`
	Saved  int `json:"saved"`
	Failed int `json:"failed"`
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok || userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "Run name required", http.StatusBadRequest)
		return
	}

	res, err := batch.Calculate(batch.Input{Items: req.Items}, h.Constants)
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
	if len(recs) == 0 {
		http.Error(w, "No computable rows to save", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := catalog.WriteCSV(&buf, recs); err != nil {
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}

	id, err := h.Repo.SaveRun(r.Context(), userID, req.Name, buf.String())
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SaveResponse{ID: id, Saved: len(recs), Failed: res.Failed})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok || userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	metas, err := h.Repo.ListRuns(r.Context(), userID)
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metas)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok || userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	runID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid run id", http.StatusBadRequest)
		return
	}

	run, err := h.Repo.GetRun(r.Context(), userID, runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+run.Name+".csv\"")
	w.Write([]byte(run.CSV))
}
