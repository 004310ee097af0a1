package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// schemaVersion guards against reading a database written by an
// incompatible build.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS renders (
	id            TEXT PRIMARY KEY,
	project       TEXT NOT NULL,
	stage         TEXT NOT NULL,
	template_id   TEXT NOT NULL,
	output_chars  INTEGER NOT NULL,
	warning_count INTEGER NOT NULL,
	error_count   INTEGER NOT NULL,
	diagnostics   TEXT,
	duration_ms   INTEGER NOT NULL,
	created_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_renders_created_at ON renders(created_at);
CREATE INDEX IF NOT EXISTS idx_renders_project_stage ON renders(project, stage);
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);
`

// StoreConfig configures the SQLite history store.
type StoreConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections. Default: 10.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections. Default: 5.
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency. Default: true.
	WALMode bool

	// BusyTimeout is how long to wait on a locked database. Default: 5s.
	BusyTimeout time.Duration
}

// DefaultStoreConfig returns the default store configuration.
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Path:         "data/history.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// Store persists render records in SQLite.
type Store struct {
	db     *sql.DB
	config *StoreConfig
	logger *slog.Logger
}

// NewStore opens (creating if needed) the history database.
func NewStore(config *StoreConfig) (*Store, error) {
	if config == nil {
		config = DefaultStoreConfig()
	}

	logger := slog.Default().With("component", "history.store")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &Store{db: db, config: config, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("history store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

func (s *Store) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("enable WAL: %w", err)
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if _, err := s.db.Exec("INSERT OR IGNORE INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("insert schema version: %w", err)
	}

	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("history schema version mismatch: expected %d, got %d", schemaVersion, version)
	}
	return nil
}

// Insert persists one render record.
func (s *Store) Insert(ctx context.Context, r *Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO renders (
			id, project, stage, template_id,
			output_chars, warning_count, error_count, diagnostics,
			duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Project, r.Stage, r.TemplateID,
		r.OutputChars, r.WarningCount, r.ErrorCount, nullable(r.Diagnostics),
		r.Duration.Milliseconds(), r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert render record: %w", err)
	}
	return nil
}

// List returns render records matching the query, newest first.
func (s *Store) List(ctx context.Context, q *Query) ([]*Record, error) {
	where, args := buildWhere(q)

	sqlQuery := "SELECT id, project, stage, template_id, output_chars, warning_count, error_count, diagnostics, duration_ms, created_at FROM renders"
	if where != "" {
		sqlQuery += " WHERE " + where
	}
	sqlQuery += " ORDER BY created_at DESC"

	limit := 100
	if q.Limit > 0 {
		limit = q.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	if q.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("query render records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan render record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query render records: %w", err)
	}
	return records, nil
}

// Count returns the number of records matching the query.
func (s *Store) Count(ctx context.Context, q *Query) (int64, error) {
	where, args := buildWhere(q)
	sqlQuery := "SELECT COUNT(*) FROM renders"
	if where != "" {
		sqlQuery += " WHERE " + where
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count render records: %w", err)
	}
	return count, nil
}

// DeleteBefore removes records created before the cutoff and returns the
// number deleted.
func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM renders WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete render records: %w", err)
	}
	return res.RowsAffected()
}

// DeleteOverCap keeps the newest max records and removes the rest,
// returning the number deleted.
func (s *Store) DeleteOverCap(ctx context.Context, max int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM renders WHERE id NOT IN (
			SELECT id FROM renders ORDER BY created_at DESC LIMIT ?
		)`, max)
	if err != nil {
		return 0, fmt.Errorf("trim render records: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the database connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close history database: %w", err)
	}
	s.logger.Info("history store closed")
	return nil
}

func buildWhere(q *Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if q.Project != "" {
		conditions = append(conditions, "project = ?")
		args = append(args, q.Project)
	}
	if q.Stage != "" {
		conditions = append(conditions, "stage = ?")
		args = append(args, q.Stage)
	}
	if q.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *q.Since)
	}
	if q.Until != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, *q.Until)
	}

	where := ""
	for i, c := range conditions {
		if i > 0 {
			where += " AND "
		}
		where += c
	}
	return where, args
}

func scanRecord(rows *sql.Rows) (*Record, error) {
	var r Record
	var diagnostics sql.NullString
	var durationMs int64

	err := rows.Scan(
		&r.ID, &r.Project, &r.Stage, &r.TemplateID,
		&r.OutputChars, &r.WarningCount, &r.ErrorCount, &diagnostics,
		&durationMs, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if diagnostics.Valid {
		r.Diagnostics = diagnostics.String
	}
	r.Duration = time.Duration(durationMs) * time.Millisecond
	return &r, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
