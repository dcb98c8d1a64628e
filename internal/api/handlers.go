package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/service/analysis"
)

// Handlers holds the API's dependencies.
type Handlers struct {
	svc *analysis.Service
}

// NewHandlers creates the API handler set.
func NewHandlers(svc *analysis.Service) *Handlers {
	return &Handlers{svc: svc}
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

// CreateProject registers a tracked domain.
func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		MainDomain string `json:"main_domain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	project, err := h.svc.CreateProject(r.Context(), req.Name, req.MainDomain)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, project)
}

// ListProjects returns all projects.
func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.ListProjects(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if projects == nil {
		projects = []analysis.Project{}
	}
	respondJSON(w, http.StatusOK, projects)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// httpStatus maps service errors onto status codes.
func httpStatus(err error) int {
	if errors.Is(err, analysis.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
