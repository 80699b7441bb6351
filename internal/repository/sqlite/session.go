package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avaldez/project-tracker/internal/session"
)

// SessionStore is the default session.Store: a table in the same SQLite
// database as everything else, so a single-binary deployment needs no extra
// infrastructure. Deployments that run several instances switch to the Redis
// store instead (see internal/session).
type SessionStore struct {
	conn *sql.DB
}

var _ session.Store = (*SessionStore)(nil)

func (s *SessionStore) Create(ctx context.Context, rec session.Record) error {
	if rec.ID == "" || rec.Token == "" {
		return errors.New("sqlite: session record missing id or token")
	}
	if !rec.ExpiresAt.After(time.Now()) {
		return errors.New("sqlite: session record already expired")
	}

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO sessions (id, token, expires_at) VALUES (?, ?, ?)`,
		rec.ID, rec.Token, rec.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting session: %w", err)
	}
	return nil
}

// Get returns the session record, or (nil, nil) when it is absent or past
// its expiry. SQLite has no TTLs, so expiry is enforced on read; the stale
// row is deleted opportunistically so the table doesn't accumulate them.
func (s *SessionStore) Get(ctx context.Context, id string) (*session.Record, error) {
	var rec session.Record
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, token, expires_at FROM sessions WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.Token, &rec.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite: getting session: %w", err)
	}

	if !rec.ExpiresAt.After(time.Now()) {
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return &rec, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting session: %w", err)
	}
	return nil
}
