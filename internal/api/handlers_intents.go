package api

import (
	"encoding/json"
	"net/http"
)

// ValidateIntent records a manual intent override for a keyword. The
// normalized keyword is the join key, so any casing or accenting of the same
// keyword picks up the override.
func (h *Handlers) ValidateIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Keyword string `json:"keyword"`
		Intent  string `json:"intent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.svc.ValidateIntent(r.Context(), req.Keyword, req.Intent); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "validated"})
}
