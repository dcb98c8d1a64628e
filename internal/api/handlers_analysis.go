package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetAnalysis returns the full derived view for an import: SoV ranking,
// HHI with classification, opportunities and data quality.
func (h *Handlers) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Analysis(r.Context(), chi.URLParam(r, "importID"))
	if err != nil {
		respondError(w, httpStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetSoV returns only the Share-of-Voice ranking and market concentration.
func (h *Handlers) GetSoV(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Analysis(r.Context(), chi.URLParam(r, "importID"))
	if err != nil {
		respondError(w, httpStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"market_data_available": result.MarketDataAvailable,
		"sov":                   result.SoV,
		"hhi":                   result.HHI,
		"hhi_label":             result.HHILabel,
	})
}

// GetOpportunities returns the striking-distance opportunity ranking.
func (h *Handlers) GetOpportunities(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Analysis(r.Context(), chi.URLParam(r, "importID"))
	if err != nil {
		respondError(w, httpStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"market_data_available": result.MarketDataAvailable,
		"opportunities":         result.Opportunities,
	})
}

// GetKeywords returns an import's keyword rows with intent labels and
// origin tags.
func (h *Handlers) GetKeywords(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Keywords(r.Context(), chi.URLParam(r, "importID"))
	if err != nil {
		respondError(w, httpStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// VisibilityTrend returns the hardened SoV series for a domain across a
// project's imports. The ?domain= query parameter defaults to the project's
// tracked domain.
func (h *Handlers) VisibilityTrend(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.VisibilityTrend(r.Context(),
		chi.URLParam(r, "projectID"), r.URL.Query().Get("domain"))
	if err != nil {
		respondError(w, httpStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}
