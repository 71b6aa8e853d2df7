// internal/config/validation.go
package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validOutputFormats = map[string]bool{
	"json":     true,
	"csv":      true,
	"excel":    true,
	"sqlite":   true,
	"postgres": true,
	"mysql":    true,
	"mongodb":  true,
}

var databaseFormats = map[string]bool{
	"postgres": true,
	"mysql":    true,
	"mongodb":  true,
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[c.LogLevel] {
		errs = append(errs, fmt.Sprintf("unknown log level %q", c.LogLevel))
	}

	if c.Extraction.Workers < 1 {
		errs = append(errs, "extraction.workers must be at least 1")
	}
	if c.Extraction.ShimHost == "" {
		errs = append(errs, "extraction.shim_host cannot be empty")
	}
	if c.Extraction.ShimParam == "" {
		errs = append(errs, "extraction.shim_param cannot be empty")
	}

	if c.Fetch.Timeout < 0 {
		errs = append(errs, "fetch.timeout cannot be negative")
	}
	if c.Fetch.RatePerSecond < 0 {
		errs = append(errs, "fetch.rate_per_second cannot be negative")
	}

	format := c.Output.Format
	if !validOutputFormats[format] {
		errs = append(errs, fmt.Sprintf("unknown output format %q", format))
	}
	if databaseFormats[format] && c.Output.DSN == "" {
		errs = append(errs, fmt.Sprintf("output format %q requires output.dsn", format))
	}
	if format == "mongodb" && c.Output.Database == "" {
		errs = append(errs, "output format \"mongodb\" requires output.database")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
