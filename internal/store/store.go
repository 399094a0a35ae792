// Package store persists captured exchanges to sqlite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/peekproxy/peek/internal/domain"
)

// Store is a sqlite-backed exchange archive.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path, expanding a leading tilde.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// WAL mode supports one writer alongside readers; the API server reads
	// while the proxy writes.
	db, err := sql.Open("sqlite3", expanded+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: expanded}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return s, nil
}

// ExpandPath resolves a leading tilde against the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// Path returns the resolved database location, for display.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exchanges (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		method TEXT NOT NULL,
		path TEXT NOT NULL,
		request_headers TEXT,
		request_body TEXT,
		status_code INTEGER,
		response_headers TEXT,
		response_body TEXT,
		duration_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_exchanges_timestamp ON exchanges(timestamp);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Save persists one exchange.
func (s *Store) Save(ex domain.Exchange) error {
	reqHeaders, err := json.Marshal(ex.Request.Headers)
	if err != nil {
		return fmt.Errorf("marshaling request headers: %w", err)
	}

	var statusCode sql.NullInt64
	var respHeaders []byte
	var respBody sql.NullString
	if ex.Response != nil {
		statusCode = sql.NullInt64{Int64: int64(ex.Response.StatusCode), Valid: true}
		respHeaders, err = json.Marshal(ex.Response.Headers)
		if err != nil {
			return fmt.Errorf("marshaling response headers: %w", err)
		}
		respBody = sql.NullString{String: ex.Response.Body, Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO exchanges
		(id, timestamp, method, path, request_headers, request_body,
		 status_code, response_headers, response_body, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.ID, ex.Timestamp.UTC().Format(time.RFC3339Nano),
		ex.Request.Method, ex.Request.Path,
		string(reqHeaders), ex.Request.Body,
		statusCode, nullableString(respHeaders), respBody,
		ex.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("inserting exchange: %w", err)
	}
	return nil
}

// Get retrieves one exchange by ID.
func (s *Store) Get(id string) (domain.Exchange, error) {
	row := s.db.QueryRow(`
		SELECT id, timestamp, method, path, request_headers, request_body,
		       status_code, response_headers, response_body, duration_ms
		FROM exchanges WHERE id = ?`, id)

	ex, err := scanExchange(row)
	if err == sql.ErrNoRows {
		return domain.Exchange{}, fmt.Errorf("%w: %s", domain.ErrExchangeNotFound, id)
	}
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("querying exchange: %w", err)
	}
	return ex, nil
}

// List returns stored exchanges in chronological order, capped at limit
// (0 means no cap).
func (s *Store) List(limit int) ([]domain.Exchange, error) {
	query := `
		SELECT id, timestamp, method, path, request_headers, request_body,
		       status_code, response_headers, response_body, duration_ms
		FROM exchanges ORDER BY timestamp ASC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("querying exchanges: %w", err)
	}
	defer rows.Close()

	var result []domain.Exchange
	for rows.Next() {
		ex, err := scanExchange(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning exchange: %w", err)
		}
		result = append(result, ex)
	}
	return result, rows.Err()
}

// Count returns the number of stored exchanges.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM exchanges`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting exchanges: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExchange(row scanner) (domain.Exchange, error) {
	var (
		ex          domain.Exchange
		ts          string
		reqHeaders  string
		statusCode  sql.NullInt64
		respHeaders sql.NullString
		respBody    sql.NullString
	)

	err := row.Scan(&ex.ID, &ts, &ex.Request.Method, &ex.Request.Path,
		&reqHeaders, &ex.Request.Body,
		&statusCode, &respHeaders, &respBody, &ex.DurationMs)
	if err != nil {
		return domain.Exchange{}, err
	}

	if ex.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
		return domain.Exchange{}, fmt.Errorf("parsing timestamp: %w", err)
	}
	if err := json.Unmarshal([]byte(reqHeaders), &ex.Request.Headers); err != nil {
		return domain.Exchange{}, fmt.Errorf("unmarshaling request headers: %w", err)
	}

	if statusCode.Valid {
		resp := &domain.Response{StatusCode: int(statusCode.Int64)}
		if respHeaders.Valid {
			if err := json.Unmarshal([]byte(respHeaders.String), &resp.Headers); err != nil {
				return domain.Exchange{}, fmt.Errorf("unmarshaling response headers: %w", err)
			}
		}
		resp.Body = respBody.String
		ex.Response = resp
	}
	return ex, nil
}

func nullableString(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
