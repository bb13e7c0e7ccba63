// Package requestctx carries the per-request correlation id.
package requestctx

import (
	"context"

	log "github.com/sirupsen/logrus"
)

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Logger returns a log entry tagged with the request id, when there is one.
func Logger(ctx context.Context) *log.Entry {
	entry := log.NewEntry(log.StandardLogger())
	if id := GetRequestID(ctx); id != "" {
		entry = entry.WithField("requestId", id)
	}
	return entry
}
