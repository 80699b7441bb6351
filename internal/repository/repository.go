package repository

import (
	"context"

	"github.com/avaldez/project-tracker/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository is the User Store: identity records keyed by the OAuth
// subject. Users are create-once — there is deliberately no Update or Delete.
type UserRepository interface {
	// FindByOAuthID returns the user bound to the given OAuth subject, or
	// apperror.ErrNotFound if no such user exists.
	FindByOAuthID(ctx context.Context, oauthID string) (*model.User, error)

	// Create persists a new user and fills in the store-assigned ID. If a
	// user with the same OAuthID already exists (a concurrent first login
	// won the race), Create loads that existing record into user instead of
	// inserting a duplicate.
	Create(ctx context.Context, user *model.User) error

	// GetByID returns the user with the given internal ID, or
	// apperror.ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, opts ListOptions) ([]model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id string) error
}

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context, opts ListOptions) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string) error
}
