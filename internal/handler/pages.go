// Package handler contains HTTP request handlers: the JSON API, the OAuth
// flow, and the server-rendered pages. Handlers parse requests, call
// services, and write responses — business rules live in internal/service.
package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/avaldez/project-tracker/internal/auth"
	"github.com/avaldez/project-tracker/internal/model"
	"github.com/avaldez/project-tracker/internal/service"
)

// PageHandler renders the server-side HTML pages. Templates are parsed once
// at startup and reused on every request.
type PageHandler struct {
	templates *template.Template
	projects  *service.ProjectService
	courses   *service.CourseService
	logger    *slog.Logger
}

// pageFuncs are the helpers available inside templates. shortDate renders
// timestamps the way the tracker always has: "2026-09-30".
var pageFuncs = template.FuncMap{
	"shortDate": func(t interface{ Format(string) string }) string {
		return t.Format("2006-01-02")
	},
}

// NewPageHandler parses the HTML templates and wires the services the pages
// read from. base.html defines the shared "header" and "footer" blocks;
// index.html and error.html are executed by filename and include them.
func NewPageHandler(
	templateDir string,
	projects *service.ProjectService,
	courses *service.CourseService,
	logger *slog.Logger,
) (*PageHandler, error) {
	tmpl, err := template.New("base.html").Funcs(pageFuncs).ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "index.html"),
		filepath.Join(templateDir, "error.html"),
	)
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		templates: tmpl,
		projects:  projects,
		courses:   courses,
		logger:    logger,
	}, nil
}

// indexData is everything the index template needs for one render.
type indexData struct {
	User     *model.User // nil when anonymous
	Projects []model.Project
	Courses  []model.Course
	Statuses []string
	AuthNote string // "denied" / "failed" from the callback redirect
}

// HandleIndex renders the home page: upcoming projects, courses, and a
// personalized header when someone is signed in.
//
// HTTP: GET /
func (h *PageHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Statuses: model.Statuses,
		AuthNote: r.URL.Query().Get("auth"),
	}

	// Anonymous visitors still get the listings; User stays nil and the
	// template shows the sign-in link.
	if user, ok := auth.UserFromContext(r.Context()); ok {
		data.User = user
	}

	projects, err := h.projects.List(r.Context(), service.DefaultListLimit, 0)
	if err != nil {
		h.renderError(w, http.StatusInternalServerError)
		return
	}
	data.Projects = projects

	courses, err := h.courses.List(r.Context(), service.DefaultListLimit, 0)
	if err != nil {
		h.renderError(w, http.StatusInternalServerError)
		return
	}
	data.Courses = courses

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		h.logger.Error("rendering index", slog.String("error", err.Error()))
	}
}

// renderError renders the generic error page. It never includes error
// detail — internals stay in the logs.
func (h *PageHandler) renderError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, "error.html", map[string]int{"Status": status}); err != nil {
		h.logger.Error("rendering error page", slog.String("error", err.Error()))
	}
}

// HandleNotFound is the router's fallback for unknown paths.
func (h *PageHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, http.StatusNotFound)
}
