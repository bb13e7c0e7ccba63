package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/auth"
	"hrms/internal/platform/requestctx"
	"hrms/internal/transport/http/api"
)

// StatusOf maps an error kind onto its HTTP status.
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated, apperr.KindInvalidCredentials, apperr.KindRoleMismatch:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict, apperr.KindInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err in the response envelope. Internal errors are logged
// and replaced by a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.GetRequestID(r.Context())
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.KindInternal {
		requestctx.Logger(r.Context()).
			WithError(err).
			WithField("method", r.Method).
			WithField("path", r.URL.Path).
			Error("request failed")
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
		return
	}
	var details any
	if len(appErr.Fields) > 0 {
		details = map[string]any{"fields": appErr.Fields}
	}
	api.FailWithDetails(w, StatusOf(appErr.Kind), appErr.Code, appErr.Message, details, requestID)
}

// DecodeJSON reads a single JSON document into dst. Malformed or oversized
// bodies become validation errors.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Validation("request body is required")
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return apperr.Validation("request body is required")
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.Validation("request body too large")
	}
	if appErr, ok := apperr.As(err); ok {
		return appErr
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperr.Validation("invalid request body", apperr.FieldIssue{Field: typeErr.Field, Reason: "has the wrong type"})
	}
	return apperr.Validation("invalid JSON payload")
}

// Actor returns the authenticated caller or writes a 401.
func Actor(w http.ResponseWriter, r *http.Request) (auth.Actor, bool) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		WriteError(w, r, apperr.Unauthenticated("authentication required"))
		return auth.Actor{}, false
	}
	return actor, true
}

// OptionalActor returns the caller when a valid token was sent, or the zero
// actor for anonymous requests.
func OptionalActor(r *http.Request) auth.Actor {
	actor, _ := auth.ActorFrom(r.Context())
	return actor
}

// Query returns a trimmed query parameter.
func Query(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func RequestID(r *http.Request) string {
	return requestctx.GetRequestID(r.Context())
}
