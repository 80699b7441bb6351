// Package session implements server-side sessions.
//
// HOW A SESSION WORKS HERE:
// The browser holds a single HttpOnly cookie containing a random session ID.
// The ID keys a server-side Record whose payload is a signed token naming the
// logged-in user (see Codec). Nothing about the user is stored client-side,
// so logging out — deleting the server-side record — invalidates the session
// immediately, which a pure JWT cookie cannot do.
//
// Two Store backends exist: the application's SQLite database (default, zero
// extra infrastructure) and Redis (for multi-instance deployments). Both are
// opaque key-value maps from session ID to Record.
package session

import (
	"context"
	"time"
)

// Record is one server-side session.
type Record struct {
	ID        string    `json:"id"`        // random 256-bit identifier, also the cookie value
	Token     string    `json:"token"`     // signed user reference produced by Codec.Serialize
	ExpiresAt time.Time `json:"expiresAt"` // absolute expiry
}

// Store persists session records. Get returns (nil, nil) when the session
// does not exist or has expired — an absent session is the normal logged-out
// case, not an error. Errors are reserved for backend failures.
type Store interface {
	Create(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
}
