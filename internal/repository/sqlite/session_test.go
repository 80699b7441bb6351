package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/avaldez/project-tracker/internal/session"
)

func TestSessionStore_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	store := db.Sessions()
	ctx := context.Background()

	rec := session.Record{
		ID:        "sess-1",
		Token:     "signed-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() = nil, want the stored record")
	}
	if got.Token != "signed-token" {
		t.Errorf("Token = %q, want %q", got.Token, "signed-token")
	}
}

// An absent session is the normal logged-out case: (nil, nil), not an error.
func TestSessionStore_GetMissing(t *testing.T) {
	db := newTestDB(t)
	store := db.Sessions()

	got, err := store.Get(context.Background(), "no-such-session")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %+v, want nil for a missing session", got)
	}
}

func TestSessionStore_GetExpired(t *testing.T) {
	db := newTestDB(t)
	store := db.Sessions()
	ctx := context.Background()

	// Insert an already-expired row directly; Create refuses to.
	_, err := db.conn.Exec(
		`INSERT INTO sessions (id, token, expires_at) VALUES (?, ?, ?)`,
		"stale", "signed-token", time.Now().Add(-time.Minute),
	)
	if err != nil {
		t.Fatalf("inserting stale row: %v", err)
	}

	got, err := store.Get(ctx, "stale")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %+v, want nil for an expired session", got)
	}

	// Expired rows are reaped on read.
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM sessions WHERE id = ?`, "stale").Scan(&count); err != nil {
		t.Fatalf("counting sessions: %v", err)
	}
	if count != 0 {
		t.Errorf("stale row still present after Get()")
	}
}

func TestSessionStore_CreateValidation(t *testing.T) {
	db := newTestDB(t)
	store := db.Sessions()
	ctx := context.Background()

	if err := store.Create(ctx, session.Record{Token: "t", ExpiresAt: time.Now().Add(time.Hour)}); err == nil {
		t.Error("Create() should reject a record without an ID")
	}
	if err := store.Create(ctx, session.Record{ID: "s", Token: "t", ExpiresAt: time.Now().Add(-time.Hour)}); err == nil {
		t.Error("Create() should reject an already-expired record")
	}
}

func TestSessionStore_Delete(t *testing.T) {
	db := newTestDB(t)
	store := db.Sessions()
	ctx := context.Background()

	rec := session.Record{ID: "sess-1", Token: "t", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() after delete = %+v, want nil", got)
	}

	// Logout is idempotent: deleting a gone session is not an error.
	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}
