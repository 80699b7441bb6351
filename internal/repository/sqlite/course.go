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

// CourseRepo is the SQLite-backed course repository.
// It mirrors ProjectRepo; courses are just simpler records.
type CourseRepo struct {
	conn *sql.DB
}

var _ repository.CourseRepository = (*CourseRepo)(nil)

func (r *CourseRepo) Create(ctx context.Context, course *model.Course) error {
	now := time.Now()
	course.ID = xid.New().String()
	course.CreatedAt = now
	course.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO courses (id, name, code, term, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		course.ID,
		course.Name,
		course.Code,
		course.Term,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting course: %w", err)
	}
	return nil
}

func (r *CourseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var c model.Course
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, name, code, term, created_at, updated_at
		 FROM courses WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.Name, &c.Code, &c.Term, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("course", id)
		}
		return nil, fmt.Errorf("sqlite: getting course %s: %w", id, err)
	}
	return &c, nil
}

func (r *CourseRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.Course, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, name, code, term, created_at, updated_at
		 FROM courses
		 ORDER BY name ASC
		 LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Term, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating course rows: %w", err)
	}

	return courses, nil
}

func (r *CourseRepo) Update(ctx context.Context, course *model.Course) error {
	course.UpdatedAt = time.Now()

	res, err := r.conn.ExecContext(ctx,
		`UPDATE courses SET name = ?, code = ?, term = ?, updated_at = ?
		 WHERE id = ?`,
		course.Name,
		course.Code,
		course.Term,
		course.UpdatedAt,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating course %s: %w", course.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating course %s: %w", course.ID, err)
	}
	if n == 0 {
		return apperror.NotFound("course", course.ID)
	}
	return nil
}

func (r *CourseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting course %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting course %s: %w", id, err)
	}
	if n == 0 {
		return apperror.NotFound("course", id)
	}
	return nil
}
