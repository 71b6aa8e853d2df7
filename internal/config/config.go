// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/storylens/storylens/internal/textscan"
)

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %v", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	// Substitute environment variables before parsing.
	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %v", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	return &config, nil
}

// LoadFromReader loads configuration from an io.Reader.
func LoadFromReader(reader io.Reader) (*Config, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %v", err)
	}

	return LoadFromBytes(data)
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// applyDefaults applies default values to the configuration.
func applyDefaults(config *Config) {
	if config.Name == "" {
		config.Name = "storylens"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	if config.Extraction.Workers == 0 {
		config.Extraction.Workers = 4
	}
	if config.Extraction.PlatformHost == "" {
		config.Extraction.PlatformHost = textscan.DefaultPlatformHost
	}
	if config.Extraction.ShimHost == "" {
		config.Extraction.ShimHost = textscan.DefaultShimHost
	}
	if config.Extraction.ShimParam == "" {
		config.Extraction.ShimParam = textscan.DefaultShimParam
	}
	if len(config.Extraction.CDNSuffixes) == 0 {
		config.Extraction.CDNSuffixes = textscan.DefaultCDNSuffixes()
	}

	if config.OCR.Languages == "" {
		config.OCR.Languages = "heb+eng"
	}

	if config.Fetch.Timeout == 0 {
		config.Fetch.Timeout = 30 * time.Second
	}
	if config.Fetch.RatePerSecond == 0 {
		config.Fetch.RatePerSecond = 2
	}
	if config.Fetch.MaxBytes == 0 {
		config.Fetch.MaxBytes = 64 << 20
	}

	if config.Output.Format == "" {
		config.Output.Format = "json"
	}
	if config.Output.File == "" {
		config.Output.File = "-"
	}

	if config.Metrics.ListenAddress == "" {
		config.Metrics.ListenAddress = ":9090"
	}
	if config.Metrics.Path == "" {
		config.Metrics.Path = "/metrics"
	}

	if config.Server.ListenAddress == "" {
		config.Server.ListenAddress = ":8080"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30 * time.Second
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 60 * time.Second
	}
}
