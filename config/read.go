package config

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-ini/ini"
	"github.com/pkg/errors"

	"github.com/obreport/collector/util"
)

// ReportTimeout bounds the full request/response cycle of one report
const ReportTimeout = 5 * time.Second

func getDefaultConfig() *ServerConfig {
	config := &ServerConfig{
		SectionName: "default",
	}

	// The environment variables are the default way to configure the daemon
	// when running inside a container without a config file.
	if serverURL := os.Getenv("OBREPORT_SERVER_URL"); serverURL != "" {
		config.ServerURL = serverURL
	}
	if interval := os.Getenv("OBREPORT_INTERVAL"); interval != "" {
		config.IntervalSeconds, _ = strconv.Atoi(interval)
	}
	if schedule := os.Getenv("OBREPORT_SCHEDULE"); schedule != "" {
		config.Schedule = schedule
	}
	if verbose := os.Getenv("OBREPORT_VERBOSE"); verbose != "" && verbose != "0" {
		config.Verbose = true
	}
	if dsn := os.Getenv("OBREPORT_ERROR_REPORTING_DSN"); dsn != "" {
		config.ErrorReportingDSN = dsn
	}
	if addr := os.Getenv("OBREPORT_HEALTH_CHECK_ADDR"); addr != "" {
		config.HealthCheckAddr = addr
	}

	return config
}

// Read - Reads the configuration from the specified filename, or fall back to
// environment variables when the file does not exist. Command line flags are
// merged on top by the caller.
func Read(logger *util.Logger, filename string) (ServerConfig, error) {
	config := getDefaultConfig()

	if _, err := os.Stat(filename); err == nil {
		configFile, err := ini.Load(filename)
		if err != nil {
			return *config, errors.Wrap(err, "failed to read config file")
		}

		section := configFile.Section("obreport")
		err = section.MapTo(config)
		if err != nil {
			return *config, errors.Wrap(err, "failed to map obreport section")
		}
		config.SectionName = section.Name()

		logger.PrintVerbose("Read configuration from %s", filename)
	} else if filename != "" {
		logger.PrintVerbose("Config file %s not found, using environment and flags only", filename)
	}

	return *config, nil
}

// CreateHTTPClient - Builds the HTTP client used for all reports. Constructed
// once at startup and reused across cycles so the underlying connection can be
// kept alive between reports.
func CreateHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   ReportTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   ReportTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   ReportTimeout,
		Transport: transport,
	}
}
