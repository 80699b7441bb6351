package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/avaldez/project-tracker/internal/service"
)

// ProjectHandler exposes project CRUD as a JSON API under /api/projects.
// Reads are public; mutations sit behind the auth gate (see server routes).
type ProjectHandler struct {
	projects *service.ProjectService
	logger   *slog.Logger
}

func NewProjectHandler(projects *service.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

// projectRequest is the request body for create and update. DueDate is
// RFC 3339 ("2026-09-30T00:00:00Z") or a bare date ("2026-09-30").
type projectRequest struct {
	Name    string `json:"name"`
	DueDate string `json:"dueDate"`
	Course  string `json:"course"`
	Status  string `json:"status"`
}

// parseDueDate accepts RFC 3339 timestamps and bare dates. Returns the zero
// time for an empty string — the service treats that as "not provided".
func parseDueDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// HandleList returns projects ordered by due date.
//
// HTTP: GET /api/projects?limit=20&offset=0
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	projects, err := h.projects.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// HandleGetByID returns a single project.
//
// HTTP: GET /api/projects/{id}
func (h *ProjectHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// HandleCreate saves a new project.
//
// HTTP: POST /api/projects
// BODY: {"name":"Final report","dueDate":"2026-09-30","course":"CS2021"}
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid project JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	dueDate, ok := parseDueDate(req.DueDate)
	if !ok {
		http.Error(w, "Invalid dueDate: use RFC 3339 or YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	project, err := h.projects.Create(r.Context(), req.Name, dueDate, req.Course, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// HandleUpdate modifies an existing project.
//
// HTTP: PUT /api/projects/{id}
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid project JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	dueDate, ok := parseDueDate(req.DueDate)
	if !ok {
		http.Error(w, "Invalid dueDate: use RFC 3339 or YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	project, err := h.projects.Update(r.Context(), r.PathValue("id"), req.Name, dueDate, req.Course, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// HandleDelete removes a project.
//
// HTTP: DELETE /api/projects/{id}
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
