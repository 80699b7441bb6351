package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaldez/project-tracker/internal/apperror"
	"github.com/avaldez/project-tracker/internal/model"
	"github.com/avaldez/project-tracker/internal/repository"
	"github.com/avaldez/project-tracker/internal/service"
)

// stubProjectRepo is an in-memory repository.ProjectRepository.
type stubProjectRepo struct {
	projects map[string]*model.Project
	nextID   int
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{projects: map[string]*model.Project{}}
}

func (s *stubProjectRepo) Create(_ context.Context, p *model.Project) error {
	s.nextID++
	p.ID = "p" + strconv.Itoa(s.nextID)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	copied := *p
	s.projects[p.ID] = &copied
	return nil
}

func (s *stubProjectRepo) GetByID(_ context.Context, id string) (*model.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, apperror.NotFound("project", id)
	}
	copied := *p
	return &copied, nil
}

func (s *stubProjectRepo) List(_ context.Context, _ repository.ListOptions) ([]model.Project, error) {
	out := []model.Project{}
	for _, p := range s.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubProjectRepo) Update(_ context.Context, p *model.Project) error {
	if _, ok := s.projects[p.ID]; !ok {
		return apperror.NotFound("project", p.ID)
	}
	copied := *p
	s.projects[p.ID] = &copied
	return nil
}

func (s *stubProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.projects[id]; !ok {
		return apperror.NotFound("project", id)
	}
	delete(s.projects, id)
	return nil
}

// newProjectRouter wires the handler behind the same routes the server uses.
func newProjectRouter(repo *stubProjectRepo) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewProjectHandler(service.NewProjectService(repo, logger), logger)

	r := chi.NewRouter()
	r.Get("/api/projects", h.HandleList)
	r.Post("/api/projects", h.HandleCreate)
	r.Get("/api/projects/{id}", h.HandleGetByID)
	r.Put("/api/projects/{id}", h.HandleUpdate)
	r.Delete("/api/projects/{id}", h.HandleDelete)
	return r
}

func TestHandleCreateProject(t *testing.T) {
	router := newProjectRouter(newStubProjectRepo())

	body := `{"name":"Final report","dueDate":"2026-09-30","course":"CS 2021"}`
	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got model.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Final report", got.Name)
	assert.Equal(t, "CS 2021", got.Course)
	// Status was omitted, so the service default applies.
	assert.Equal(t, model.StatusInProgress, got.Status)
}

func TestHandleCreateProject_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "malformed JSON",
			body:       `{"name": "x"`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad due date",
			body:       `{"name":"x","dueDate":"soon","course":"CS"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing name",
			body:       `{"dueDate":"2026-09-30","course":"CS"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown status",
			body:       `{"name":"x","dueDate":"2026-09-30","course":"CS","status":"Paused"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newProjectRouter(newStubProjectRepo())
			req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleGetProject(t *testing.T) {
	repo := newStubProjectRepo()
	router := newProjectRouter(repo)

	p := &model.Project{Name: "Essay", DueDate: time.Now().AddDate(0, 0, 7), Course: "ENG 210", Status: model.StatusToDo}
	require.NoError(t, repo.Create(context.Background(), p))

	req := httptest.NewRequest(http.MethodGet, "/api/projects/"+p.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Essay", got.Name)
}

func TestHandleGetProject_NotFound(t *testing.T) {
	router := newProjectRouter(newStubProjectRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/projects/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestHandleUpdateProject(t *testing.T) {
	repo := newStubProjectRepo()
	router := newProjectRouter(repo)

	p := &model.Project{Name: "Draft", DueDate: time.Now().AddDate(0, 0, 7), Course: "ENG 210", Status: model.StatusToDo}
	require.NoError(t, repo.Create(context.Background(), p))

	body := `{"status":"Completed"}`
	req := httptest.NewRequest(http.MethodPut, "/api/projects/"+p.ID, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.StatusCompleted, got.Status)
	// Untouched fields survive a partial update.
	assert.Equal(t, "Draft", got.Name)
}

func TestHandleDeleteProject(t *testing.T) {
	repo := newStubProjectRepo()
	router := newProjectRouter(repo)

	p := &model.Project{Name: "x", DueDate: time.Now(), Course: "c", Status: model.StatusToDo}
	require.NoError(t, repo.Create(context.Background(), p))

	req := httptest.NewRequest(http.MethodDelete, "/api/projects/"+p.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/projects/"+p.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListProjects(t *testing.T) {
	repo := newStubProjectRepo()
	router := newProjectRouter(repo)

	for i := 0; i < 3; i++ {
		p := &model.Project{Name: "p", DueDate: time.Now().AddDate(0, 0, i), Course: "c", Status: model.StatusToDo}
		require.NoError(t, repo.Create(context.Background(), p))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []model.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 3)
}
