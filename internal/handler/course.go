package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/avaldez/project-tracker/internal/service"
)

// CourseHandler exposes course CRUD as a JSON API under /api/courses.
type CourseHandler struct {
	courses *service.CourseService
	logger  *slog.Logger
}

func NewCourseHandler(courses *service.CourseService, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, logger: logger}
}

type courseRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Term string `json:"term"`
}

// HandleList returns courses ordered by name.
//
// HTTP: GET /api/courses?limit=20&offset=0
func (h *CourseHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	courses, err := h.courses.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

// HandleGetByID returns a single course.
//
// HTTP: GET /api/courses/{id}
func (h *CourseHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	course, err := h.courses.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// HandleCreate saves a new course.
//
// HTTP: POST /api/courses
// BODY: {"name":"Web Development","code":"CS2021","term":"Fall 2026"}
func (h *CourseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid course JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	course, err := h.courses.Create(r.Context(), req.Name, req.Code, req.Term)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

// HandleUpdate modifies an existing course.
//
// HTTP: PUT /api/courses/{id}
func (h *CourseHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid course JSON", slog.String("error", err.Error()))
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	course, err := h.courses.Update(r.Context(), r.PathValue("id"), req.Name, req.Code, req.Term)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// HandleDelete removes a course.
//
// HTTP: DELETE /api/courses/{id}
func (h *CourseHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.courses.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
