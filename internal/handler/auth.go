package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/avaldez/project-tracker/internal/auth"
	"github.com/avaldez/project-tracker/internal/service"
	"github.com/avaldez/project-tracker/internal/session"
)

// AuthHandler manages the Google OAuth login flow and session lifecycle.
//
//	HandleGoogleLogin    → redirect the browser to Google's consent page
//	HandleGoogleCallback → exchange the code, resolve the user, open a session
//	HandleLogout         → delete the server-side session, clear the cookie
//	HandleMe             → return the signed-in user's profile
type AuthHandler struct {
	google   *auth.GoogleProvider
	resolver *service.AuthService
	codec    *session.Codec
	sessions session.Store
	ttl      time.Duration
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(
	google *auth.GoogleProvider,
	resolver *service.AuthService,
	codec *session.Codec,
	sessions session.Store,
	ttl time.Duration,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		google:   google,
		resolver: resolver,
		codec:    codec,
		sessions: sessions,
		ttl:      ttl,
		logger:   logger,
	}
}

// HandleGoogleLogin redirects the user to Google's authorization page.
//
// HTTP: GET /auth/google/login
//
// A random state value goes into a short-lived cookie; the callback verifies
// it so an attacker can't complete an OAuth flow on someone else's behalf.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGoogleCallback completes the login flow.
//
// HTTP: GET /auth/google/callback?code=xxx&state=yyy
//
// FLOW:
//  1. Verify the state parameter against the cookie (CSRF check)
//  2. Exchange the code for a verified Google profile
//  3. Resolve the profile to a local User (find-or-create)
//  4. Serialize the user, write the session record, set the session cookie
//  5. Redirect home
//
// The session must be fully persisted before the redirect is written — a
// cookie referencing a session that never landed would bounce the user
// straight back to login.
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	// --- Step 1: CSRF state ---
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		h.failLogin(w, r)
		return
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		h.failLogin(w, r)
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	// User denied the consent screen — back to the index, no error page.
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: authorization denied",
			slog.String("error", errParam),
		)
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	// --- Step 2: Exchange the code ---
	code := r.URL.Query().Get("code")
	if code == "" {
		h.failLogin(w, r)
		return
	}

	profile, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: exchange failed", slog.String("error", err.Error()))
		h.failLogin(w, r)
		return
	}

	// --- Step 3: Resolve the local user ---
	// Resolve distinguishes incomplete profiles from store failures, but
	// the visitor sees the same generic denial either way. Details stay in
	// the logs.
	user, err := h.resolver.Resolve(r.Context(), profile)
	if err != nil {
		h.logger.Error("auth callback: identity resolution failed",
			slog.String("error", err.Error()),
		)
		h.failLogin(w, r)
		return
	}

	// --- Step 4: Open the session ---
	token, err := h.codec.Serialize(user)
	if err != nil {
		h.logger.Error("auth callback: serializing session token failed",
			slog.String("error", err.Error()),
		)
		h.failLogin(w, r)
		return
	}

	rec := session.Record{
		Token:     token,
		ExpiresAt: time.Now().Add(h.ttl),
	}
	if rec.ID, err = session.NewID(); err != nil {
		h.logger.Error("auth callback: generating session id failed",
			slog.String("error", err.Error()),
		)
		h.failLogin(w, r)
		return
	}

	if err := h.sessions.Create(r.Context(), rec); err != nil {
		h.logger.Error("auth callback: persisting session failed",
			slog.String("error", err.Error()),
		)
		h.failLogin(w, r)
		return
	}

	session.SetCookie(w, rec.ID, rec.ExpiresAt)

	h.logger.Info("user signed in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	// --- Step 5: Home ---
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// failLogin is the single authentication-denied outcome: the visitor lands
// on a generic failure page, logged out. Internal detail never reaches it.
func (h *AuthHandler) failLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/?auth=failed", http.StatusSeeOther)
}

// HandleLogout deletes the server-side session and clears the cookie.
//
// HTTP: POST /auth/logout
//
// POST because logout changes state; a GET would be CSRF-able and
// browser-prefetchable. Deleting the record means the session is dead
// immediately, even if the cookie lingers somewhere.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("logout: deleting session record failed",
				slog.String("error", err.Error()),
			)
		}
	}

	session.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /api/me
// Auth: required
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		// Unreachable when mounted behind RequireUser.
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
