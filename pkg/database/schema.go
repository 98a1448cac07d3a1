package database

import (
	"database/sql"
	"fmt"
)

// Migrate creates all tables needed by the engine.
// Safe to call multiple times - uses IF NOT EXISTS.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// seq columns pin store order: original_index and candidate_index on the
// wire are positions in ORDER BY seq, resolved here and nowhere else.
const schema = `
CREATE TABLE IF NOT EXISTS reviewers (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS originals (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    original_id TEXT NOT NULL UNIQUE,
    original_title TEXT NOT NULL,
    song_number INTEGER NOT NULL,
    assigned_user TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_originals_assigned ON originals(assigned_user);

CREATE TABLE IF NOT EXISTS candidates (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    original_seq INTEGER NOT NULL REFERENCES originals(seq) ON DELETE CASCADE,
    candidate_id TEXT NOT NULL,
    title TEXT,
    uploader TEXT,
    url TEXT,
    votes_yes INTEGER NOT NULL DEFAULT 0,
    votes_no INTEGER NOT NULL DEFAULT 0,
    is_cover INTEGER,
    vote_timestamp TIMESTAMP,
    UNIQUE (original_seq, candidate_id)
);

CREATE INDEX IF NOT EXISTS idx_candidates_original ON candidates(original_seq);
`
