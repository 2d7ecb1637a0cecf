// Package history persists finished sessions.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = errors.New("history record not found")

const schema = `CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	subject TEXT NOT NULL,
	resolved TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL,
	rounds INTEGER NOT NULL DEFAULT 0,
	summary TEXT NOT NULL DEFAULT '',
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	executions TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS sessions_started_at ON sessions(started_at);`

// SQLiteStore persists history in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// OpenSQLiteStore creates (or opens) the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history db: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Save implements ports.HistoryRepository. Saving the same id twice replaces
// the earlier row.
func (s *SQLiteStore) Save(ctx context.Context, record domain.SessionRecord) error {
	executions, err := json.Marshal(record.Executions)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO sessions
		(id, kind, subject, resolved, state, rounds, summary, started_at, finished_at, executions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		string(record.Kind),
		record.Subject,
		record.Resolved,
		string(record.State),
		record.Rounds,
		record.Summary,
		record.StartedAt.UTC().Format(time.RFC3339Nano),
		record.FinishedAt.UTC().Format(time.RFC3339Nano),
		string(executions),
	)
	return err
}

const selectColumns = `SELECT id, kind, subject, resolved, state, rounds, summary, started_at, finished_at, executions FROM sessions`

// Records returns the newest records first; limit <= 0 returns all.
func (s *SQLiteStore) Records(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	query := selectColumns + " ORDER BY started_at DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.SessionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get returns the record whose id equals or starts with id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.SessionRecord, error) {
	if id == "" {
		return domain.SessionRecord{}, ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+" WHERE id = ? OR id LIKE ? ORDER BY started_at DESC LIMIT 2", id, id+"%")
	if err != nil {
		return domain.SessionRecord{}, err
	}
	defer rows.Close()

	var found []domain.SessionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return domain.SessionRecord{}, err
		}
		found = append(found, rec)
	}
	if err := rows.Err(); err != nil {
		return domain.SessionRecord{}, err
	}
	for _, rec := range found {
		if rec.ID == id {
			return rec, nil
		}
	}
	switch len(found) {
	case 0:
		return domain.SessionRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return found[0], nil
	default:
		return domain.SessionRecord{}, fmt.Errorf("history id prefix %q is ambiguous", id)
	}
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions")
	return err
}

// ExportJSON writes every record to dest as JSON lines.
func (s *SQLiteStore) ExportJSON(ctx context.Context, dest string) error {
	records, err := s.Records(ctx, 0)
	if err != nil {
		return err
	}
	return writeJSONLines(dest, records)
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (domain.SessionRecord, error) {
	var (
		rec               domain.SessionRecord
		kind, state       string
		started, finished string
		executions        string
	)
	if err := row.Scan(&rec.ID, &kind, &rec.Subject, &rec.Resolved, &state, &rec.Rounds, &rec.Summary, &started, &finished, &executions); err != nil {
		return domain.SessionRecord{}, err
	}
	rec.Kind = domain.SessionKind(kind)
	rec.State = domain.DiagnosticState(state)
	rec.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	rec.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
	if err := json.Unmarshal([]byte(executions), &rec.Executions); err != nil {
		return domain.SessionRecord{}, fmt.Errorf("decode executions of %s: %w", rec.ID, err)
	}
	return rec, nil
}

func writeJSONLines(dest string, records []domain.SessionRecord) error {
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	enc := json.NewEncoder(file)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
