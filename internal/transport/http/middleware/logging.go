package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"hrms/internal/platform/metrics"
	"hrms/internal/platform/requestctx"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logger writes one entry per request and feeds the metrics collector when
// one is given.
func Logger(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			elapsed := time.Since(start)

			if collector != nil {
				collector.Record(recorder.status, elapsed)
			}
			entry := log.WithFields(log.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     recorder.status,
				"durationMs": elapsed.Milliseconds(),
				"requestId":  requestctx.GetRequestID(r.Context()),
			})
			switch {
			case recorder.status >= 500:
				entry.Error("request")
			case recorder.status >= 400:
				entry.Warn("request")
			default:
				entry.Info("request")
			}
		})
	}
}
