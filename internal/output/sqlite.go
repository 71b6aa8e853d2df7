// internal/output/sqlite.go
package output

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/storylens/storylens/pkg/types"
)

// SQLiteWriter persists records to a SQLite database, keyed by media_id.
// Re-writing the same story replaces the previous row, so repeated runs
// over an unchanged tray are idempotent.
type SQLiteWriter struct {
	db    *sql.DB
	table string
}

// SQLiteOptions configures a SQLiteWriter.
type SQLiteOptions struct {
	DatabasePath     string
	Table            string
	ConnectionParams string
}

// NewSQLiteWriter opens (creating if necessary) the database and target
// table.
func NewSQLiteWriter(options SQLiteOptions) (*SQLiteWriter, error) {
	if options.DatabasePath == "" {
		return nil, fmt.Errorf("SQLite database path is required")
	}
	if options.Table == "" {
		options.Table = "story_records"
	}

	if dir := filepath.Dir(options.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	connectionParams := options.ConnectionParams
	if connectionParams == "" {
		connectionParams = "?_busy_timeout=5000&_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", options.DatabasePath+connectionParams)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	w := &SQLiteWriter{db: db, table: options.Table}
	if err := w.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *SQLiteWriter) createTable() error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		media_id TEXT PRIMARY KEY,
		user_id TEXT,
		username TEXT,
		type TEXT,
		taken_at_iso TEXT,
		expiring_at_iso TEXT,
		permalink TEXT,
		image_url TEXT,
		video_url TEXT,
		caption_text TEXT,
		ocr_text TEXT,
		ocr_confidence REAL,
		stickers TEXT,
		urls TEXT,
		raw_text_candidates TEXT,
		hashtags TEXT,
		mentions TEXT,
		frames_used TEXT,
		media_meta TEXT,
		language_guess TEXT,
		brand_candidates TEXT,
		source_flags TEXT,
		content_hash TEXT,
		extraction_version TEXT,
		processing_errors TEXT
	)`, w.table)
	_, err := w.db.Exec(ddl)
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", w.table, err)
	}
	return nil
}

// Write upserts the record batch in one transaction.
func (w *SQLiteWriter) Write(records []*types.StoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(recordColumns)), ",")
	query := fmt.Sprintf(
		"INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		w.table, strings.Join(recordColumns, ", "), placeholders,
	)

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(recordRow(r)...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert record %s: %w", r.MediaID, err)
		}
	}
	return tx.Commit()
}

// Flush is a no-op; Write commits per batch.
func (w *SQLiteWriter) Flush() error { return nil }

// Close closes the database handle.
func (w *SQLiteWriter) Close() error {
	if w.db == nil {
		return nil
	}
	err := w.db.Close()
	w.db = nil
	return err
}
