// internal/output/mysql.go
package output

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/storylens/storylens/pkg/types"
)

// MySQLWriter persists records to MySQL, upserting on media_id.
type MySQLWriter struct {
	db    *sql.DB
	table string
}

// MySQLOptions configures a MySQLWriter.
type MySQLOptions struct {
	DSN   string
	Table string
}

// NewMySQLWriter connects and ensures the target table exists.
func NewMySQLWriter(options MySQLOptions) (*MySQLWriter, error) {
	if options.DSN == "" {
		return nil, fmt.Errorf("MySQL DSN is required")
	}
	if options.Table == "" {
		options.Table = "story_records"
	}

	db, err := sql.Open("mysql", options.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	w := &MySQLWriter{db: db, table: options.Table}
	if err := w.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *MySQLWriter) createTable() error {
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s ("+
		"media_id VARCHAR(64) PRIMARY KEY,"+
		"user_id VARCHAR(64),"+
		"username VARCHAR(255),"+
		"type VARCHAR(32),"+
		"taken_at_iso VARCHAR(40),"+
		"expiring_at_iso VARCHAR(40),"+
		"permalink TEXT,"+
		"image_url TEXT,"+
		"video_url TEXT,"+
		"caption_text TEXT,"+
		"ocr_text TEXT,"+
		"ocr_confidence DOUBLE,"+
		"stickers JSON,"+
		"urls JSON,"+
		"raw_text_candidates JSON,"+
		"hashtags JSON,"+
		"mentions JSON,"+
		"frames_used JSON,"+
		"media_meta JSON,"+
		"language_guess VARCHAR(8),"+
		"brand_candidates JSON,"+
		"source_flags JSON,"+
		"content_hash VARCHAR(40),"+
		"extraction_version VARCHAR(16),"+
		"processing_errors JSON"+
		") CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci", w.table)
	if _, err := w.db.Exec(ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", w.table, err)
	}
	return nil
}

// Write upserts the record batch in one transaction.
func (w *MySQLWriter) Write(records []*types.StoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(recordColumns)), ",")
	updates := make([]string, 0, len(recordColumns)-1)
	for _, col := range recordColumns[1:] {
		updates = append(updates, fmt.Sprintf("%s = VALUES(%s)", col, col))
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		w.table,
		strings.Join(recordColumns, ", "),
		placeholders,
		strings.Join(updates, ", "),
	)

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(recordRow(r)...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert record %s: %w", r.MediaID, err)
		}
	}
	return tx.Commit()
}

// Flush is a no-op; Write commits per batch.
func (w *MySQLWriter) Flush() error { return nil }

// Close closes the database handle.
func (w *MySQLWriter) Close() error {
	if w.db == nil {
		return nil
	}
	err := w.db.Close()
	w.db = nil
	return err
}
