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

// UserRepo is the SQLite-backed User Store.
type UserRepo struct {
	conn *sql.DB
}

// compile-time check that *UserRepo implements repository.UserRepository
var _ repository.UserRepository = (*UserRepo)(nil)

// FindByOAuthID returns the user bound to the given OAuth subject.
// Returns apperror.ErrNotFound if no such user exists — the identity
// resolver treats that as "first login, create the account".
func (r *UserRepo) FindByOAuthID(ctx context.Context, oauthID string) (*model.User, error) {
	var u model.User
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, username, oauth_id, oauth_provider, created
		 FROM users WHERE oauth_id = ?`,
		oauthID,
	).Scan(&u.ID, &u.Username, &u.OAuthID, &u.OAuthProvider, &u.Created)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", oauthID)
		}
		return nil, fmt.Errorf("sqlite: finding user by oauth_id: %w", err)
	}
	return &u, nil
}

// Create inserts a new user, assigning the internal ID and creation time.
//
// RACE HANDLING:
// Two first-time logins for the same Google account can race: both miss on
// FindByOAuthID, both call Create. The UNIQUE constraint on oauth_id makes
// sure only one INSERT lands. We use ON CONFLICT DO NOTHING and check the
// affected-row count: zero rows means the other request won, so we re-fetch
// the row it created and hand that back. Either way the caller ends up with
// the one canonical record, never a duplicate and never an unrelated user.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.Created = time.Now()

	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, oauth_id, oauth_provider, created)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(oauth_id) DO NOTHING`,
		user.ID,
		user.Username,
		user.OAuthID,
		user.OAuthProvider,
		user.Created,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user (oauthID=%s): %w", user.OAuthID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: inserting user (oauthID=%s): %w", user.OAuthID, err)
	}
	if n == 0 {
		// Lost the race — load the record the concurrent login created.
		existing, err := r.FindByOAuthID(ctx, user.OAuthID)
		if err != nil {
			return fmt.Errorf("sqlite: re-fetching user after insert conflict: %w", err)
		}
		*user = *existing
	}

	return nil
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, username, oauth_id, oauth_provider, created
		 FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Username, &u.OAuthID, &u.OAuthProvider, &u.Created)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return &u, nil
}
