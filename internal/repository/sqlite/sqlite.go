// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the Go binary as a single
// file. No separate database server to install, configure, or manage. That
// fits this app: a single-binary tracker that one person or a small class runs.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and hands out the per-entity
// repositories. All repositories share the one pool; the Server owns the
// lifecycle and closes it on shutdown.
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at dbPath and runs migrations.
//
// The pragmas ride in the DSN so the driver applies them to every connection
// the pool opens, not just the first:
//   - journal_mode=WAL: concurrent reads while a write is in progress;
//     a web server hits the DB from parallel requests.
//   - busy_timeout: writers wait for a lock instead of failing with
//     SQLITE_BUSY when another write is in flight.
//   - foreign_keys: SQLite leaves referential integrity off unless asked.
func New(dbPath string) (*DB, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Force an immediate connection so a bad path surfaces here, not on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserRepo { return &UserRepo{conn: db.conn} }

// Projects returns the project repository backed by this database.
func (db *DB) Projects() *ProjectRepo { return &ProjectRepo{conn: db.conn} }

// Courses returns the course repository backed by this database.
func (db *DB) Courses() *CourseRepo { return &CourseRepo{conn: db.conn} }

// Sessions returns the session store backed by this database.
func (db *DB) Sessions() *SessionStore { return &SessionStore{conn: db.conn} }

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this safe to
// run on every startup.
//
// The UNIQUE constraint on users.oauth_id is load-bearing: it is what
// guarantees at most one User per OAuth identity even when two first-time
// logins race. See UserRepo.Create for the conflict handling.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id             TEXT PRIMARY KEY,
			username       TEXT NOT NULL,
			oauth_id       TEXT NOT NULL UNIQUE,
			oauth_provider TEXT NOT NULL,
			created        DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS projects (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			due_date   DATETIME NOT NULL,
			course     TEXT NOT NULL,
			status     TEXT NOT NULL DEFAULT 'In Progress',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_projects_due_date ON projects(due_date);
	`)
	if err != nil {
		return fmt.Errorf("creating projects table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS courses (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			code       TEXT NOT NULL DEFAULT '',
			term       TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating courses table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			token      TEXT NOT NULL,
			expires_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
	`)
	if err != nil {
		return fmt.Errorf("creating sessions table: %w", err)
	}

	return nil
}
