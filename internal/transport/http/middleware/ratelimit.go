package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/requestctx"
	"hrms/internal/transport/http/api"
)

// keyFunc names the bucket a request is counted against.
type keyFunc func(r *http.Request) string

// fixedWindow counts requests per key in windows that start on the first hit.
type fixedWindow struct {
	limit  int
	window time.Duration
	key    keyFunc

	mu      sync.Mutex
	buckets map[string]*bucket
	sweepAt time.Time
}

type bucket struct {
	hits  int
	reset time.Time
}

type verdict struct {
	allowed   bool
	remaining int
	resetIn   time.Duration
}

func newFixedWindow(limit int, window time.Duration, key keyFunc) *fixedWindow {
	return &fixedWindow{limit: limit, window: window, key: key, buckets: map[string]*bucket{}}
}

func (fw *fixedWindow) hit(key string, now time.Time) verdict {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if now.After(fw.sweepAt) {
		for k, b := range fw.buckets {
			if now.After(b.reset) {
				delete(fw.buckets, k)
			}
		}
		fw.sweepAt = now.Add(fw.window)
	}

	b, ok := fw.buckets[key]
	if !ok || now.After(b.reset) {
		b = &bucket{reset: now.Add(fw.window)}
		fw.buckets[key] = b
	}
	b.hits++
	return verdict{
		allowed:   b.hits <= fw.limit,
		remaining: max(fw.limit-b.hits, 0),
		resetIn:   b.reset.Sub(now),
	}
}

// admit counts r and writes the rate headers. A refused request gets a 429
// envelope and admit reports false.
func (fw *fixedWindow) admit(w http.ResponseWriter, r *http.Request) bool {
	if fw.limit <= 0 {
		return true
	}
	key := fw.key(r)
	if key == "" {
		key = clientIP(r)
	}
	v := fw.hit(key, time.Now())
	resetSec := ceilSeconds(v.resetIn)

	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(fw.limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(v.remaining))
	h.Set("X-RateLimit-Reset", strconv.Itoa(resetSec))
	if v.allowed {
		return true
	}

	h.Set("Retry-After", strconv.Itoa(max(resetSec, 1)))
	requestctx.Logger(r.Context()).
		WithField("key", key).
		WithField("method", r.Method).
		WithField("path", r.URL.Path).
		WithField("limit", fw.limit).
		Warn("rate limit exceeded")
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", requestctx.GetRequestID(r.Context()))
	return false
}

// RateLimit allows limit requests per window for each signed-in user, or per
// client IP for anonymous callers.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	fw := newFixedWindow(limit, window, actorKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fw.admit(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// SensitiveMutationRateLimit applies tighter budgets to credential and
// contact endpoints (a quarter of baseLimit, by IP and by submitted email)
// and to workflow actions (half of baseLimit, per user).
func SensitiveMutationRateLimit(baseLimit int, window time.Duration) func(http.Handler) http.Handler {
	credentialLimit := max(baseLimit/4, 1)
	byIP := newFixedWindow(credentialLimit, window, clientIP)
	byEmail := newFixedWindow(credentialLimit, window, bodyEmailKey)
	workflow := newFixedWindow(max(baseLimit/2, 1), window, actorKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var limiters []*fixedWindow
			switch classify(r) {
			case scopeCredentials:
				limiters = []*fixedWindow{byIP, byEmail}
			case scopeWorkflow:
				limiters = []*fixedWindow{workflow}
			}
			for _, fw := range limiters {
				if !fw.admit(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

type scope int

const (
	scopeNone scope = iota
	scopeCredentials
	scopeWorkflow
)

var credentialPaths = map[string]bool{
	"/auth/login":           true,
	"/auth/register":        true,
	"/auth/change-password": true,
	"/contact/send":         true,
}

func classify(r *http.Request) scope {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return scopeNone
	}
	path := strings.TrimPrefix(r.URL.Path, "/api")
	switch {
	case credentialPaths[path]:
		return scopeCredentials
	case strings.HasPrefix(path, "/devices/") && (strings.HasSuffix(path, "/assign") || strings.HasSuffix(path, "/return")):
		return scopeWorkflow
	case strings.HasSuffix(path, "/status"), strings.HasSuffix(path, "/respond"):
		return scopeWorkflow
	}
	return scopeNone
}

func actorKey(r *http.Request) string {
	if actor, ok := auth.ActorFrom(r.Context()); ok && actor.UserID != "" {
		return "user:" + actor.UserID
	}
	return clientIP(r)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// bodyEmailKey keys on the "email" field of a JSON body, restoring the body
// for the handler. Requests without one fall back to the client IP.
func bodyEmailKey(r *http.Request) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return clientIP(r)
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(raw), r.Body), Closer: r.Body}
	if err != nil {
		return clientIP(r)
	}
	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &payload) != nil || strings.TrimSpace(payload.Email) == "" {
		return clientIP(r)
	}
	return "email:" + strings.ToLower(strings.TrimSpace(payload.Email))
}

type readCloser struct {
	io.Reader
	io.Closer
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
