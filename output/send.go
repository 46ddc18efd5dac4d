package output

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/obreport/collector/config"
	"github.com/obreport/collector/util"
)

// DeliveryErrorKind separates failures of the transport itself from responses
// that arrived but carried the wrong status code.
type DeliveryErrorKind int

const (
	// DeliveryTransportFailed - The request never completed (connection
	// refused, DNS failure, timeout)
	DeliveryTransportFailed DeliveryErrorKind = iota
	// DeliveryUnexpectedStatus - The server answered with something other
	// than 201 Created
	DeliveryUnexpectedStatus
)

type DeliveryError struct {
	Kind       DeliveryErrorKind
	URL        string
	StatusCode int
	Cause      error
}

func (e *DeliveryError) Error() string {
	if e.Kind == DeliveryUnexpectedStatus {
		return fmt.Sprintf("got unexpected HTTP response code '%d' from '%s'", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP request to '%s' failed: %s", e.URL, e.Cause)
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

// Reporter delivers serialized reports to the collector endpoint. It owns a
// single HTTP client for its whole lifetime so the connection is set up once
// and reused across cycles.
type Reporter struct {
	serverURL  string
	httpClient *http.Client
}

func NewReporter(serverURL string) *Reporter {
	return &Reporter{
		serverURL:  serverURL,
		httpClient: config.CreateHTTPClient(),
	}
}

// Close releases idle connections held by the reporter. Called once at
// shutdown.
func (r *Reporter) Close() {
	r.httpClient.CloseIdleConnections()
}

// Post submits one report. Fire-and-forget: no retries, no backoff - a failed
// delivery is reported to the caller and the next cycle attempts fresh. The
// attempt is bounded by the client timeout, not by a caller context: a
// shutdown request must let a delivery already in flight run to completion.
func (r *Reporter) Post(payload []byte) error {
	req, err := http.NewRequest("POST", r.serverURL, bytes.NewReader(payload))
	if err != nil {
		return &DeliveryError{Kind: DeliveryTransportFailed, URL: r.serverURL, Cause: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", util.CollectorNameAndVersion)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return &DeliveryError{Kind: DeliveryTransportFailed, URL: r.serverURL, Cause: err}
	}
	defer resp.Body.Close()

	// The response body is irrelevant, only the status code matters. Drain it
	// anyway so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusCreated {
		return &DeliveryError{Kind: DeliveryUnexpectedStatus, URL: r.serverURL, StatusCode: resp.StatusCode}
	}

	return nil
}
