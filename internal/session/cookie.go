package session

import (
	"net/http"
	"time"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// SetCookie issues the session cookie to the browser.
//
// HttpOnly = JavaScript cannot read this cookie (XSS protection).
// SameSite=Lax = cookie is sent on top-level navigations but not cross-site
// POSTs. Secure should be true behind HTTPS; it stays false for local dev,
// same trade-off the rest of the cookie handling makes.
func SetCookie(w http.ResponseWriter, id string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie tells the browser to delete the session cookie immediately.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
