// Package history persists finished conversions in SQLite.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversions (
    id TEXT PRIMARY KEY,
    source_path TEXT NOT NULL,
    output_path TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    format TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    pages INTEGER NOT NULL DEFAULT 0,
    sections INTEGER NOT NULL DEFAULT 0,
    output_bytes INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    source_hash TEXT NOT NULL DEFAULT '',
    markdown TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_conversions_created ON conversions(created_at);
`

// Status is the terminal state of a recorded conversion. In-flight states
// live in the pipeline's job registry, not here.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Conversion is one recorded run. The document body is stored alongside but
// deliberately kept out of this struct; fetch it with Markdown.
type Conversion struct {
	ID          string    `json:"id"`
	SourcePath  string    `json:"source_path"`
	OutputPath  string    `json:"output_path,omitempty"`
	Title       string    `json:"title"`
	Format      string    `json:"format,omitempty"`
	Status      Status    `json:"status"`
	Error       string    `json:"error,omitempty"`
	Pages       int       `json:"pages"`
	Sections    int       `json:"sections"`
	OutputBytes int64     `json:"output_bytes"`
	DurationMS  int64     `json:"duration_ms"`
	SourceHash  string    `json:"source_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Stats aggregates the recorded history.
type Stats struct {
	Total         int64            `json:"total_conversions"`
	Completed     int64            `json:"completed"`
	Failed        int64            `json:"failed"`
	TotalPages    int64            `json:"total_pages"`
	TotalSections int64            `json:"total_sections"`
	OutputBytes   int64            `json:"output_bytes"`
	AvgDurationMS float64          `json:"avg_duration_ms"`
	ByFormat      map[string]int64 `json:"by_format,omitempty"`
	LastCreatedAt time.Time        `json:"last_created_at"`
}

// Store wraps the SQLite database connection.
type Store struct {
	conn *sql.DB
}

// Open opens or creates the history database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("init schema: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// OpenMemory opens an in-memory database (for testing).
func OpenMemory() (*Store, error) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(schema); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("init schema: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Record inserts one finished conversion. A zero CreatedAt is stamped now.
func (s *Store) Record(c *Conversion, markdown string) error {
	if c.ID == "" {
		return errors.New("conversion id required")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.conn.Exec(`
		INSERT INTO conversions
			(id, source_path, output_path, title, format, status, error, pages, sections, output_bytes, duration_ms, source_hash, markdown, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.SourcePath, c.OutputPath, c.Title, c.Format, string(c.Status), c.Error,
		c.Pages, c.Sections, c.OutputBytes, c.DurationMS, c.SourceHash, markdown, c.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("record conversion: %w", err)
	}
	return nil
}

const conversionColumns = `id, source_path, output_path, title, format, status, error, pages, sections, output_bytes, duration_ms, source_hash, created_at`

// Get returns a conversion by ID, or nil when none exists.
func (s *Store) Get(id string) (*Conversion, error) {
	row := s.conn.QueryRow(`SELECT `+conversionColumns+` FROM conversions WHERE id = ?`, id)
	c, err := scanConversion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// List returns conversions newest first. A non-positive limit defaults to 50.
func (s *Store) List(limit, offset int) ([]*Conversion, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.conn.Query(`
		SELECT `+conversionColumns+`
		FROM conversions
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Conversion
	for rows.Next() {
		c, err := scanConversion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Markdown returns the stored document body for a conversion, or "" when
// the conversion does not exist.
func (s *Store) Markdown(id string) (string, error) {
	var md string
	err := s.conn.QueryRow(`SELECT markdown FROM conversions WHERE id = ?`, id).Scan(&md)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return md, err
}

// Stats aggregates all recorded conversions. The average duration covers
// completed runs only.
func (s *Store) Stats() (*Stats, error) {
	var st Stats
	var lastMilli int64
	err := s.conn.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(pages), 0),
		       COALESCE(SUM(sections), 0),
		       COALESCE(SUM(output_bytes), 0),
		       COALESCE(AVG(CASE WHEN status = 'completed' THEN duration_ms END), 0),
		       COALESCE(MAX(created_at), 0)
		FROM conversions
	`).Scan(&st.Total, &st.Completed, &st.Failed, &st.TotalPages,
		&st.TotalSections, &st.OutputBytes, &st.AvgDurationMS, &lastMilli)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	if lastMilli > 0 {
		st.LastCreatedAt = time.UnixMilli(lastMilli).UTC()
	}

	rows, err := s.conn.Query(`SELECT format, COUNT(*) FROM conversions WHERE format != '' GROUP BY format`)
	if err != nil {
		return nil, fmt.Errorf("aggregate formats: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var format string
		var count int64
		if err := rows.Scan(&format, &count); err != nil {
			return nil, fmt.Errorf("scan format count: %w", err)
		}
		if st.ByFormat == nil {
			st.ByFormat = make(map[string]int64)
		}
		st.ByFormat[format] = count
	}
	return &st, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversion(row rowScanner) (*Conversion, error) {
	var c Conversion
	var status string
	var createdMilli int64
	err := row.Scan(&c.ID, &c.SourcePath, &c.OutputPath, &c.Title, &c.Format, &status, &c.Error,
		&c.Pages, &c.Sections, &c.OutputBytes, &c.DurationMS, &c.SourceHash, &createdMilli)
	if err != nil {
		return nil, err
	}
	c.Status = Status(status)
	c.CreatedAt = time.UnixMilli(createdMilli).UTC()
	return &c, nil
}
