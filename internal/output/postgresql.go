// internal/output/postgresql.go
package output

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/storylens/storylens/pkg/types"
)

// PostgresWriter persists records to PostgreSQL, upserting on media_id.
// Nested fields land in JSONB columns so they stay queryable.
type PostgresWriter struct {
	db    *sql.DB
	table string
}

// PostgresOptions configures a PostgresWriter.
type PostgresOptions struct {
	DSN   string
	Table string
}

// NewPostgresWriter connects and ensures the target table exists.
func NewPostgresWriter(options PostgresOptions) (*PostgresWriter, error) {
	if options.DSN == "" {
		return nil, fmt.Errorf("PostgreSQL DSN is required")
	}
	if options.Table == "" {
		options.Table = "story_records"
	}

	db, err := sql.Open("postgres", options.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	w := &PostgresWriter{db: db, table: options.Table}
	if err := w.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *PostgresWriter) createTable() error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		media_id TEXT PRIMARY KEY,
		user_id TEXT,
		username TEXT,
		type TEXT,
		taken_at_iso TIMESTAMPTZ,
		expiring_at_iso TIMESTAMPTZ,
		permalink TEXT,
		image_url TEXT,
		video_url TEXT,
		caption_text TEXT,
		ocr_text TEXT,
		ocr_confidence DOUBLE PRECISION,
		stickers JSONB,
		urls JSONB,
		raw_text_candidates JSONB,
		hashtags JSONB,
		mentions JSONB,
		frames_used JSONB,
		media_meta JSONB,
		language_guess TEXT,
		brand_candidates JSONB,
		source_flags JSONB,
		content_hash TEXT,
		extraction_version TEXT,
		processing_errors JSONB
	)`, w.table)
	if _, err := w.db.Exec(ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", w.table, err)
	}
	return nil
}

// Write upserts the record batch in one transaction.
func (w *PostgresWriter) Write(records []*types.StoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	placeholders := make([]string, len(recordColumns))
	for i := range recordColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	updates := make([]string, 0, len(recordColumns)-1)
	for _, col := range recordColumns[1:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (media_id) DO UPDATE SET %s",
		w.table,
		strings.Join(recordColumns, ", "),
		strings.Join(placeholders, ", "),
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
func (w *PostgresWriter) Flush() error { return nil }

// Close closes the database handle.
func (w *PostgresWriter) Close() error {
	if w.db == nil {
		return nil
	}
	err := w.db.Close()
	w.db = nil
	return err
}
