package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/avaldez/project-tracker/internal/apperror"
	"github.com/avaldez/project-tracker/internal/model"
	"github.com/avaldez/project-tracker/internal/repository"
)

// ProjectRepo is the SQLite-backed project repository.
type ProjectRepo struct {
	conn *sql.DB
}

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

func (r *ProjectRepo) Create(ctx context.Context, project *model.Project) error {
	now := time.Now()
	project.ID = xid.New().String()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO projects (id, name, due_date, course, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		project.ID,
		project.Name,
		project.DueDate,
		project.Course,
		project.Status,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting project: %w", err)
	}
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, name, due_date, course, status, created_at, updated_at
		 FROM projects WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Name, &p.DueDate, &p.Course, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("project", id)
		}
		return nil, fmt.Errorf("sqlite: getting project %s: %w", id, err)
	}
	return &p, nil
}

// List returns projects ordered by due date, soonest first — that ordering
// is what makes the index page useful.
func (r *ProjectRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.Project, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, name, due_date, course, status, created_at, updated_at
		 FROM projects
		 ORDER BY due_date ASC
		 LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing projects: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.DueDate, &p.Course, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating project rows: %w", err)
	}

	return projects, nil
}

func (r *ProjectRepo) Update(ctx context.Context, project *model.Project) error {
	project.UpdatedAt = time.Now()

	res, err := r.conn.ExecContext(ctx,
		`UPDATE projects SET name = ?, due_date = ?, course = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		project.Name,
		project.DueDate,
		project.Course,
		project.Status,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating project %s: %w", project.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating project %s: %w", project.ID, err)
	}
	if n == 0 {
		return apperror.NotFound("project", project.ID)
	}
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting project %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting project %s: %w", id, err)
	}
	if n == 0 {
		return apperror.NotFound("project", id)
	}
	return nil
}
