// Package trace records one row per executed statement to a SQLite
// database, implementing interp.StepRecorder. It follows the teacher's
// lib/runtime.Persistence (a single *sql.DB behind a mutex, schema
// created on open) and server.SessionStore (an opaque, per-run session
// identifier), adapted from an object-persistence store to an
// append-only step log.
package trace

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"carbonc/interp"
)

// Recorder writes one row per interpreter step to a SQLite database.
// It implements interp.StepRecorder.
type Recorder struct {
	db        *sql.DB
	sessionID string
	mu        sync.Mutex
	seq       int64
}

// Open creates (or reuses) the SQLite database at dbPath and starts a
// fresh session within it, identified by a random UUID the way the
// teacher's server package mints opaque session/handle IDs (see
// server/sessions.go, server/handles.go) — except persisted, since a
// trace run needs to be distinguishable from other runs against the
// same database long after the process exits.
func Open(dbPath string) (*Recorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("trace: creating db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("trace: opening database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: setting busy timeout: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS steps (
		session_id TEXT NOT NULL,
		seq        INTEGER NOT NULL,
		file       TEXT NOT NULL,
		start_off  INTEGER NOT NULL,
		end_off    INTEGER NOT NULL,
		note       TEXT NOT NULL,
		PRIMARY KEY (session_id, seq)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: creating schema: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		started_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: creating schema: %w", err)
	}

	sessionID := uuid.NewString()
	if _, err := db.Exec(`INSERT INTO sessions (id, started_at) VALUES (?, datetime('now'))`, sessionID); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: recording session: %w", err)
	}

	return &Recorder{db: db, sessionID: sessionID}, nil
}

// SessionID returns the UUID identifying this recorder's run.
func (r *Recorder) SessionID() string { return r.sessionID }

// Close releases the underlying database handle.
func (r *Recorder) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// OnStep implements interp.StepRecorder: it appends one row describing
// the statement about to execute. A write failure is swallowed rather
// than propagated — tracing is diagnostic, and a disk hiccup here must
// never abort the program it is merely observing.
func (r *Recorder) OnStep(site interp.SourceRegion, note string) {
	r.mu.Lock()
	seq := r.seq
	r.seq++
	r.mu.Unlock()

	_, _ = r.db.ExecContext(context.Background(),
		`INSERT INTO steps (session_id, seq, file, start_off, end_off, note) VALUES (?, ?, ?, ?, ?, ?)`,
		r.sessionID, seq, site.File, site.Start, site.End, note,
	)
}

// Step is one recorded row, as read back by Steps.
type Step struct {
	Seq      int64
	File     string
	Start    int
	End      int
	Note     string
}

// Steps returns every step recorded for the given session, in
// execution order.
func (r *Recorder) Steps(sessionID string) ([]Step, error) {
	rows, err := r.db.Query(
		`SELECT seq, file, start_off, end_off, note FROM steps WHERE session_id = ? ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("trace: querying steps: %w", err)
	}
	defer rows.Close()

	var steps []Step
	for rows.Next() {
		var s Step
		if err := rows.Scan(&s.Seq, &s.File, &s.Start, &s.End, &s.Note); err != nil {
			return nil, fmt.Errorf("trace: scanning step: %w", err)
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}
