package config

import (
	"fmt"
	"net/url"
)

// ServerConfig - How to reach the collector endpoint and how often to report.
type ServerConfig struct {
	ServerURL       string `ini:"server_url"`
	IntervalSeconds int    `ini:"interval"`

	// Optional seven-field cron expression (seconds through years) overriding
	// the fixed interval, e.g. "0 */10 * * * * *"
	Schedule string `ini:"schedule"`

	Verbose bool `ini:"verbose"`

	ErrorReportingDSN string `ini:"error_reporting_dsn"`
	HealthCheckAddr   string `ini:"health_check_addr"`

	SectionName string
}

// Validate - Checks the configuration for errors that should stop the daemon
// from starting. These are reported with exit status 2.
func (config ServerConfig) Validate() error {
	if config.ServerURL == "" {
		return fmt.Errorf("setting 'server_url' is required")
	}

	u, err := url.Parse(config.ServerURL)
	if err != nil {
		return fmt.Errorf("setting 'server_url' is not a valid URL: %s", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("setting 'server_url' must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("setting 'server_url' is missing a host")
	}

	if config.Schedule == "" && config.IntervalSeconds < 1 {
		return fmt.Errorf("setting 'interval' is required and must be at least 1 second")
	}
	if config.Schedule != "" && config.IntervalSeconds != 0 && config.IntervalSeconds < 1 {
		return fmt.Errorf("setting 'interval' must be at least 1 second")
	}

	return nil
}
