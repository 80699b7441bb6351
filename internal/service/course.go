package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avaldez/project-tracker/internal/apperror"
	"github.com/avaldez/project-tracker/internal/model"
	"github.com/avaldez/project-tracker/internal/repository"
)

// CourseService handles business logic for courses.
type CourseService struct {
	repo   repository.CourseRepository
	logger *slog.Logger
}

func NewCourseService(repo repository.CourseRepository, logger *slog.Logger) *CourseService {
	return &CourseService{repo: repo, logger: logger}
}

func (s *CourseService) Create(ctx context.Context, name, code, term string) (*model.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "course name is required")
	}
	if len(name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("course name must be %d characters or less", MaxNameLength))
	}

	course := &model.Course{
		Name: name,
		Code: strings.TrimSpace(code),
		Term: strings.TrimSpace(term),
	}
	if err := s.repo.Create(ctx, course); err != nil {
		s.logger.Error("failed to create course",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating course: %w", err)
	}

	s.logger.Info("course created",
		slog.String("id", course.ID),
		slog.String("name", course.Name),
	)

	return course, nil
}

func (s *CourseService) GetByID(ctx context.Context, id string) (*model.Course, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "course ID is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *CourseService) List(ctx context.Context, limit, offset int) ([]model.Course, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	courses, err := s.repo.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list courses", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return courses, nil
}

// Update modifies an existing course. Empty fields mean "don't change".
func (s *CourseService) Update(ctx context.Context, id, name, code, term string) (*model.Course, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "course ID is required")
	}

	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		if len(name) > MaxNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("course name must be %d characters or less", MaxNameLength))
		}
		course.Name = name
	}
	if code = strings.TrimSpace(code); code != "" {
		course.Code = code
	}
	if term = strings.TrimSpace(term); term != "" {
		course.Term = term
	}

	if err := s.repo.Update(ctx, course); err != nil {
		s.logger.Error("failed to update course",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating course: %w", err)
	}

	s.logger.Info("course updated", slog.String("id", course.ID))
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "course ID is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("course deleted", slog.String("id", id))
	return nil
}
