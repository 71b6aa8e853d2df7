// internal/output/manager.go
package output

import (
	"fmt"

	"github.com/storylens/storylens/internal/config"
	"github.com/storylens/storylens/internal/monitoring"
	"github.com/storylens/storylens/pkg/types"
)

// Manager builds the writer for the configured format and instruments
// writes.
type Manager struct {
	config  *config.OutputConfig
	metrics *monitoring.MetricsManager
}

// NewManager creates an output manager. Metrics may be nil.
func NewManager(cfg *config.OutputConfig, metrics *monitoring.MetricsManager) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("output configuration is required")
	}
	if !Format(cfg.Format).IsValid() {
		return nil, fmt.Errorf("unsupported output format: %s", cfg.Format)
	}
	return &Manager{config: cfg, metrics: metrics}, nil
}

// GetWriter returns a fresh writer for the configured format.
func (m *Manager) GetWriter() (Writer, error) {
	switch Format(m.config.Format) {
	case FormatJSON:
		return NewJSONWriter(m.config.File, m.config.Pretty)
	case FormatCSV:
		return NewCSVWriter(m.config.File)
	case FormatExcel:
		return NewExcelWriter(m.config.File)
	case FormatSQLite:
		return NewSQLiteWriter(SQLiteOptions{
			DatabasePath: m.config.File,
			Table:        m.config.Table,
		})
	case FormatPostgres:
		return NewPostgresWriter(PostgresOptions{
			DSN:   m.config.DSN,
			Table: m.config.Table,
		})
	case FormatMySQL:
		return NewMySQLWriter(MySQLOptions{
			DSN:   m.config.DSN,
			Table: m.config.Table,
		})
	case FormatMongoDB:
		return NewMongoWriter(MongoOptions{
			URI:        m.config.DSN,
			Database:   m.config.Database,
			Collection: m.config.Table,
		})
	default:
		return nil, fmt.Errorf("unsupported output format: %s", m.config.Format)
	}
}

// Write persists the record batch using the configured format.
func (m *Manager) Write(records []*types.StoryRecord) error {
	writer, err := m.GetWriter()
	if err != nil {
		return fmt.Errorf("failed to get writer: %w", err)
	}
	defer writer.Close()

	if err := writer.Write(records); err != nil {
		if m.metrics != nil {
			m.metrics.RecordOutputError(m.config.Format)
		}
		return err
	}
	if m.metrics != nil {
		m.metrics.RecordOutputSuccess(m.config.Format, len(records))
	}
	return nil
}
