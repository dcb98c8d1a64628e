package api

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/service/analysis"
)

// maxUploadBytes bounds an uploaded export. A monthly export tops out in the
// tens of thousands of rows; anything larger is not a ranking export.
const maxUploadBytes = 64 << 20

var monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// UploadImport ingests a monthly export for a project. Expects a multipart
// form with a "file" part and a "month" field ("2026-07").
func (h *Handlers) UploadImport(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	month := r.FormValue("month")
	if !monthRe.MatchString(month) {
		respondError(w, http.StatusBadRequest, `month must be in "YYYY-MM" form`)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, `missing "file" upload`)
		return
	}
	defer file.Close()

	result, err := h.svc.ImportFile(r.Context(), projectID, month, header.Filename, file)
	if err != nil {
		if errors.Is(err, analysis.ErrNotFound) {
			respondError(w, http.StatusNotFound, "project not found")
			return
		}
		// Structural file problems (unreadable CSV, no keyword column)
		// surface here with their cause; nothing was persisted.
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// ListImports returns a project's imports, newest month first.
func (h *Handlers) ListImports(w http.ResponseWriter, r *http.Request) {
	imports, err := h.svc.ListImports(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, httpStatus(err), err.Error())
		return
	}
	if imports == nil {
		imports = []analysis.Import{}
	}
	respondJSON(w, http.StatusOK, imports)
}
