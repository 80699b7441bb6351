// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a local account bound to an external OAuth identity.
//
// We use Google OAuth as the only identity provider, so the external
// identifier is Google's subject claim ("sub") — a stable string that never
// changes for a given Google account. We still generate our own internal
// string ID (xid) so our primary keys aren't tied to a third party's
// numbering scheme.
//
// LIFECYCLE:
// A User is created exactly once, on the first successful OAuth callback for
// that identity. The record is never updated afterwards — Username is copied
// from the Google profile at creation time and is NOT re-synced on later
// logins. Nothing in this application deletes users.
//
// WHY OAuthProvider AS A COLUMN?
// Lookup is currently keyed on OAuthID alone, because there is only one
// provider. Storing the provider tag anyway means the lookup key can become
// the pair (provider, subject) later without a schema migration.
type User struct {
	ID            string    `json:"id"            db:"id"`
	Username      string    `json:"username"      db:"username"`       // display name, frozen at first login
	OAuthID       string    `json:"oauthId"       db:"oauth_id"`       // Google's subject claim, unique
	OAuthProvider string    `json:"oauthProvider" db:"oauth_provider"` // always "Google" today
	Created       time.Time `json:"created"       db:"created"`
}
