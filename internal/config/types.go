// internal/config/types.go

// Package config defines and loads the engine configuration from YAML with
// environment variable expansion.
package config

import "time"

// Config is the root configuration for the extraction service.
type Config struct {
	// Name identifies this configuration.
	Name string `yaml:"name" json:"name"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Extraction configures the record extraction engine.
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction"`

	// OCR configures the optical-text fallback pipeline.
	OCR OCRConfig `yaml:"ocr" json:"ocr"`

	// Fetch configures media downloads.
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Output configures where records are written.
	Output OutputConfig `yaml:"output" json:"output"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`

	// Server configures the HTTP API.
	Server ServerConfig `yaml:"server" json:"server"`
}

// ExtractionConfig holds the extraction-engine knobs.
type ExtractionConfig struct {
	// Workers is the number of concurrent item extractions.
	Workers int `yaml:"workers" json:"workers"`

	// PlatformHost builds profile URLs for @handle mentions.
	PlatformHost string `yaml:"platform_host" json:"platform_host"`

	// ShimHost is the redirect shim unwrapped from harvested URLs.
	ShimHost string `yaml:"shim_host" json:"shim_host"`

	// ShimParam is the query parameter carrying the shim target.
	ShimParam string `yaml:"shim_param" json:"shim_param"`

	// CDNSuffixes are asset-host suffixes whose raw media files are
	// excluded from URL harvesting.
	CDNSuffixes []string `yaml:"cdn_suffixes,omitempty" json:"cdn_suffixes,omitempty"`

	// Brands enables keyword brand matching over extracted text.
	Brands bool `yaml:"brands" json:"brands"`

	// DebugDir, when set, receives per-item raw field dumps.
	DebugDir string `yaml:"debug_dir,omitempty" json:"debug_dir,omitempty"`
}

// OCRConfig holds the optical-text pipeline knobs.
type OCRConfig struct {
	// Enabled turns the OCR stage on. When off every record carries the
	// ocr_not_enabled advisory.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// TesseractPath overrides PATH lookup of the tesseract binary.
	TesseractPath string `yaml:"tesseract_path,omitempty" json:"tesseract_path,omitempty"`

	// FFmpegPath overrides PATH lookup of the ffmpeg binary.
	FFmpegPath string `yaml:"ffmpeg_path,omitempty" json:"ffmpeg_path,omitempty"`

	// Languages is the recognition language hint, e.g. "heb+eng".
	Languages string `yaml:"languages" json:"languages"`

	// StagingDir holds temporary media files during recognition.
	StagingDir string `yaml:"staging_dir,omitempty" json:"staging_dir,omitempty"`
}

// FetchConfig holds media download knobs.
type FetchConfig struct {
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second" json:"rate_per_second"`
	UserAgent     string        `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	MaxBytes      int64         `yaml:"max_bytes" json:"max_bytes"`
}

// OutputConfig selects the output destination.
type OutputConfig struct {
	// Format is one of json, csv, excel, sqlite, postgres, mysql, mongodb.
	Format string `yaml:"format" json:"format"`

	// File is the destination path for file formats ("-" for stdout).
	File string `yaml:"file,omitempty" json:"file,omitempty"`

	// DSN is the connection string for database formats.
	DSN string `yaml:"dsn,omitempty" json:"dsn,omitempty"`

	// Table is the table or collection name for database formats.
	Table string `yaml:"table,omitempty" json:"table,omitempty"`

	// Database is the database name for mongodb.
	Database string `yaml:"database,omitempty" json:"database,omitempty"`

	// Pretty indents JSON output.
	Pretty bool `yaml:"pretty" json:"pretty"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	ListenAddress string `yaml:"listen_address,omitempty" json:"listen_address,omitempty"`
	Path          string `yaml:"path,omitempty" json:"path,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	ListenAddress string        `yaml:"listen_address,omitempty" json:"listen_address,omitempty"`
	ReadTimeout   time.Duration `yaml:"read_timeout,omitempty" json:"read_timeout,omitempty"`
	WriteTimeout  time.Duration `yaml:"write_timeout,omitempty" json:"write_timeout,omitempty"`
}
