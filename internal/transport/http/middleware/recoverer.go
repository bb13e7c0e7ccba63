package middleware

import (
	"net/http"
	"runtime/debug"

	"hrms/internal/platform/requestctx"
	"hrms/internal/transport/http/api"
)

func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			requestID := requestctx.GetRequestID(r.Context())
			requestctx.Logger(r.Context()).
				WithField("panic", rec).
				WithField("stack", string(debug.Stack())).
				Error("panic recovered")
			api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
		}()
		next.ServeHTTP(w, r)
	})
}
