package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/avaldez/project-tracker/internal/apperror"
	"github.com/avaldez/project-tracker/internal/model"
	"github.com/avaldez/project-tracker/internal/repository"
)

const (
	MaxNameLength    = 100
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ProjectService handles business logic for projects: required-field checks,
// the status whitelist, and pagination clamping. Field validation beyond
// "present and sane" is deliberately out of scope.
type ProjectService struct {
	repo   repository.ProjectRepository
	logger *slog.Logger
}

func NewProjectService(repo repository.ProjectRepository, logger *slog.Logger) *ProjectService {
	return &ProjectService{repo: repo, logger: logger}
}

// Create validates and saves a new project. Status defaults to
// "In Progress" when omitted, matching what the tracker has always done.
func (s *ProjectService) Create(ctx context.Context, name string, dueDate time.Time, course, status string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "project name is required")
	}
	if len(name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("project name must be %d characters or less", MaxNameLength))
	}
	if dueDate.IsZero() {
		return nil, apperror.ValidationFailed("dueDate", "project due date is required")
	}
	course = strings.TrimSpace(course)
	if course == "" {
		return nil, apperror.ValidationFailed("course", "project course is required")
	}

	if status == "" {
		status = model.StatusInProgress
	}
	if !slices.Contains(model.Statuses, status) {
		return nil, apperror.ValidationFailed("status",
			fmt.Sprintf("status must be one of: %s", strings.Join(model.Statuses, ", ")))
	}

	project := &model.Project{
		Name:    name,
		DueDate: dueDate,
		Course:  course,
		Status:  status,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		s.logger.Error("failed to create project",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created",
		slog.String("id", project.ID),
		slog.String("name", project.Name),
	)

	return project, nil
}

func (s *ProjectService) GetByID(ctx context.Context, id string) (*model.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "project ID is required")
	}
	return s.repo.GetByID(ctx, id)
}

// List retrieves projects ordered by due date, with the limit clamped to
// 1–100 (default 20).
func (s *ProjectService) List(ctx context.Context, limit, offset int) ([]model.Project, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	projects, err := s.repo.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list projects", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// Update modifies an existing project. Fetch-then-update: the NotFound comes
// from GetByID, and we return the full updated record. Empty name/course
// mean "don't change"; status and due date always apply when provided.
func (s *ProjectService) Update(ctx context.Context, id, name string, dueDate time.Time, course, status string) (*model.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "project ID is required")
	}

	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		if len(name) > MaxNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("project name must be %d characters or less", MaxNameLength))
		}
		project.Name = name
	}
	if !dueDate.IsZero() {
		project.DueDate = dueDate
	}
	if course = strings.TrimSpace(course); course != "" {
		project.Course = course
	}
	if status != "" {
		if !slices.Contains(model.Statuses, status) {
			return nil, apperror.ValidationFailed("status",
				fmt.Sprintf("status must be one of: %s", strings.Join(model.Statuses, ", ")))
		}
		project.Status = status
	}

	if err := s.repo.Update(ctx, project); err != nil {
		s.logger.Error("failed to update project",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating project: %w", err)
	}

	s.logger.Info("project updated", slog.String("id", project.ID))
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "project ID is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("project deleted", slog.String("id", id))
	return nil
}
