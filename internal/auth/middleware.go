package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/avaldez/project-tracker/internal/apperror"
	"github.com/avaldez/project-tracker/internal/model"
	"github.com/avaldez/project-tracker/internal/session"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the user value.
type contextKey string

const userKey contextKey = "user"

// Gate is the per-request authentication middleware. Each request starts
// Anonymous; if the session cookie resolves to a live user, the request
// becomes Authenticated and the full *model.User rides in the context.
// The gate re-evaluates on every request — there is no caching beyond the
// session itself.
//
// Failure handling follows the taxonomy in apperror:
//   - ErrSessionInvalid (no record, expired, token rejected, user deleted):
//     silently Anonymous. The stale record and cookie are cleared so the
//     browser stops presenting a dead session.
//   - ErrStoreUnavailable: authentication denied. Protected routes fail,
//     public routes proceed as Anonymous; the store error is logged, never
//     shown.
type Gate struct {
	store  session.Store
	codec  *session.Codec
	logger *slog.Logger
}

// NewGate creates the authentication gate.
func NewGate(store session.Store, codec *session.Codec, logger *slog.Logger) *Gate {
	return &Gate{store: store, codec: codec, logger: logger}
}

// WithUser attaches the authenticated user to the request context when the
// session resolves, and lets the request through as Anonymous otherwise.
// Mount it on every route; handlers check UserFromContext.
func (g *Gate) WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.resolve(w, r)
		if err != nil {
			// Store failure on a public route: the page still renders,
			// just logged out.
			g.logger.Error("auth gate: session resolution failed",
				slog.String("error", err.Error()),
			)
			next.ServeHTTP(w, r)
			return
		}
		if user != nil {
			r = r.WithContext(context.WithValue(r.Context(), userKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser enforces authentication on protected API routes: 401 with a
// generic JSON body when the request is Anonymous or the store is down.
// Run it after WithUser.
func (g *Gate) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized","message":"sign in to continue"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePageUser is RequireUser for server-rendered routes: an anonymous
// visitor is sent to the login flow instead of receiving a JSON 401.
func (g *Gate) RequirePageUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/auth/google/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext retrieves the authenticated user from the request context.
// Returns (nil, false) when the request is Anonymous.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// resolve evaluates the session cookie: cookie → store record → codec →
// full User. Returns (nil, nil) for every Anonymous outcome and an error
// only when the backing store failed.
func (g *Gate) resolve(w http.ResponseWriter, r *http.Request) (*model.User, error) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		// http.ErrNoCookie: no session presented — plain Anonymous.
		return nil, nil
	}

	rec, err := g.store.Get(r.Context(), cookie.Value)
	if err != nil {
		return nil, apperror.StoreUnavailable("loading session record", err)
	}
	if rec == nil {
		// Expired or logged out elsewhere. Drop the dead cookie.
		session.ClearCookie(w)
		return nil, nil
	}

	user, err := g.codec.Deserialize(r.Context(), rec.Token)
	if err != nil {
		if errors.Is(err, apperror.ErrSessionInvalid) {
			// The token no longer names a live user. Clean up both sides of
			// the session and continue Anonymous.
			if delErr := g.store.Delete(r.Context(), rec.ID); delErr != nil {
				g.logger.Warn("auth gate: could not delete stale session",
					slog.String("error", delErr.Error()),
				)
			}
			session.ClearCookie(w)
			g.logger.Info("auth gate: stale session cleared",
				slog.String("sessionID", rec.ID),
			)
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}
