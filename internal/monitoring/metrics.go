// internal/monitoring/metrics.go

// Package monitoring exposes Prometheus metrics for the extraction engine.
package monitoring

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager manages Prometheus metrics for the extraction engine.
type MetricsManager struct {
	// Extraction metrics
	itemsProcessed   *prometheus.CounterVec
	extractionErrors *prometheus.CounterVec
	extractionTime   *prometheus.HistogramVec
	stickersFound    *prometheus.CounterVec
	urlsFound        prometheus.Counter
	advisoryErrors   *prometheus.CounterVec

	// OCR metrics
	ocrRuns     *prometheus.CounterVec
	ocrDuration prometheus.Histogram

	// Output metrics
	outputSuccess  *prometheus.CounterVec
	outputErrors   *prometheus.CounterVec
	recordsWritten *prometheus.CounterVec

	// System metrics
	goroutineCount prometheus.Gauge

	// Worker metrics
	workersActive prometheus.Gauge
	itemsQueued   prometheus.Gauge

	namespace string
	subsystem string
}

// MetricsConfig configuration for metrics.
type MetricsConfig struct {
	Namespace     string `json:"namespace"`
	Subsystem     string `json:"subsystem"`
	MetricsPath   string `json:"metrics_path"`
	ListenAddress string `json:"listen_address"`
}

// NewMetricsManager creates a new metrics manager.
func NewMetricsManager(config MetricsConfig) *MetricsManager {
	if config.Namespace == "" {
		config.Namespace = "storylens"
	}
	if config.Subsystem == "" {
		config.Subsystem = "extract"
	}

	mm := &MetricsManager{
		namespace: config.Namespace,
		subsystem: config.Subsystem,
	}
	mm.initializeMetrics()
	return mm
}

func (mm *MetricsManager) initializeMetrics() {
	mm.itemsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "items_processed_total",
			Help:      "Total number of raw items processed",
		},
		[]string{"media_type", "status"},
	)

	mm.extractionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "errors_total",
			Help:      "Total number of fatal extraction errors",
		},
		[]string{"error_type"},
	)

	mm.extractionTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "duration_seconds",
			Help:      "Time to extract one record",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"media_type"},
	)

	mm.stickersFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "stickers_total",
			Help:      "Total stickers collected, by type",
		},
		[]string{"sticker_type"},
	)

	mm.urlsFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "urls_total",
			Help:      "Total distinct URLs collected",
		},
	)

	mm.advisoryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "advisory_errors_total",
			Help:      "Advisory processing errors recorded in records",
		},
		[]string{"code"},
	)

	mm.ocrRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: "ocr",
			Name:      "runs_total",
			Help:      "OCR pipeline runs, by outcome",
		},
		[]string{"outcome"},
	)

	mm.ocrDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: mm.namespace,
			Subsystem: "ocr",
			Name:      "duration_seconds",
			Help:      "Time spent in the OCR pipeline per item",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	mm.outputSuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: "output",
			Name:      "success_total",
			Help:      "Successful output writes, by format",
		},
		[]string{"format"},
	)

	mm.outputErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: "output",
			Name:      "errors_total",
			Help:      "Failed output writes, by format",
		},
		[]string{"format"},
	)

	mm.recordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: "output",
			Name:      "records_written_total",
			Help:      "Records written to outputs, by format",
		},
		[]string{"format"},
	)

	mm.goroutineCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: mm.namespace,
			Subsystem: "system",
			Name:      "goroutines",
			Help:      "Current number of goroutines",
		},
	)

	mm.workersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "workers_active",
			Help:      "Extraction workers currently running",
		},
	)

	mm.itemsQueued = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: mm.namespace,
			Subsystem: mm.subsystem,
			Name:      "items_queued",
			Help:      "Items waiting for an extraction worker",
		},
	)
}

// RecordItem records one processed item with its outcome and duration.
func (mm *MetricsManager) RecordItem(mediaType, status string, duration time.Duration) {
	mm.itemsProcessed.WithLabelValues(mediaType, status).Inc()
	mm.extractionTime.WithLabelValues(mediaType).Observe(duration.Seconds())
}

// RecordExtractionError records a fatal extraction error.
func (mm *MetricsManager) RecordExtractionError(errorType string) {
	mm.extractionErrors.WithLabelValues(errorType).Inc()
}

// RecordSticker counts one collected sticker by type.
func (mm *MetricsManager) RecordSticker(stickerType string) {
	mm.stickersFound.WithLabelValues(stickerType).Inc()
}

// RecordURLs counts distinct URLs collected for one record.
func (mm *MetricsManager) RecordURLs(count int) {
	mm.urlsFound.Add(float64(count))
}

// RecordAdvisoryError counts an advisory processing error.
func (mm *MetricsManager) RecordAdvisoryError(code string) {
	mm.advisoryErrors.WithLabelValues(code).Inc()
}

// RecordOCRRun records one OCR pipeline run.
func (mm *MetricsManager) RecordOCRRun(outcome string, duration time.Duration) {
	mm.ocrRuns.WithLabelValues(outcome).Inc()
	mm.ocrDuration.Observe(duration.Seconds())
}

// RecordOutputSuccess records a successful write of records to a format.
func (mm *MetricsManager) RecordOutputSuccess(format string, records int) {
	mm.outputSuccess.WithLabelValues(format).Inc()
	mm.recordsWritten.WithLabelValues(format).Add(float64(records))
}

// RecordOutputError records a failed output write.
func (mm *MetricsManager) RecordOutputError(format string) {
	mm.outputErrors.WithLabelValues(format).Inc()
}

// UpdateWorkersActive sets the active worker gauge.
func (mm *MetricsManager) UpdateWorkersActive(count int) {
	mm.workersActive.Set(float64(count))
}

// UpdateItemsQueued sets the queued item gauge.
func (mm *MetricsManager) UpdateItemsQueued(count int) {
	mm.itemsQueued.Set(float64(count))
}

// MetricsHandler returns the HTTP handler serving the metrics endpoint.
func (mm *MetricsManager) MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer runs a metrics HTTP server until the context is
// canceled.
func (mm *MetricsManager) StartMetricsServer(ctx context.Context, address, path string) error {
	if path == "" {
		path = "/metrics"
	}
	if address == "" {
		address = ":9090"
	}

	mux := http.NewServeMux()
	mux.Handle(path, mm.MetricsHandler())

	server := &http.Server{
		Addr:    address,
		Handler: mux,
	}

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				server.Shutdown(shutdownCtx)
				return
			case <-ticker.C:
				mm.goroutineCount.Set(float64(runtime.NumGoroutine()))
			}
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
