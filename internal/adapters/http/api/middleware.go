package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/benchtrack/pkg/metrics"
)

// Instrument wraps h so every request is counted and timed under endpoint.
// Responses with status 400 and above are also recorded as errors.
func Instrument(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		h.ServeHTTP(rec, r)

		code := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, float64(time.Since(start).Milliseconds()))
		if rec.status >= http.StatusBadRequest {
			kind, severity := classify(rec.status)
			metrics.RecordHTTPError(endpoint, r.Method, kind, severity)
		}
	}
}

// classify maps an error status to the error type and severity labels.
// A 502 means the score store could not be read.
func classify(status int) (kind, severity string) {
	switch {
	case status == http.StatusBadGateway:
		return "store_unavailable", "high"
	case status >= http.StatusInternalServerError:
		return "server_error", "high"
	case status == http.StatusMethodNotAllowed:
		return "method_not_allowed", "medium"
	case status == http.StatusNotFound:
		return "not_found", "low"
	default:
		return "client_error", "medium"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}
