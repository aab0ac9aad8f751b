package fields

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Handler struct {
	Constants Constants
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(input, h.Constants)
	if err != nil {
		var de *DomainError
		if errors.As(err, &de) {
			http.Error(w, de.Reason, http.StatusBadRequest)
			return
		}
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
