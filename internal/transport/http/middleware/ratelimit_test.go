package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hrms/internal/domain/auth"
)

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func send(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestRateLimitKeysSignedInUsersAcrossAddresses(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent())
	ctx := auth.WithActor(context.Background(), auth.Actor{UserID: "user-1", Role: auth.RoleHR})

	first := httptest.NewRequest(http.MethodGet, "/api/employees", nil).WithContext(ctx)
	first.RemoteAddr = "198.51.100.11:2222"
	require.Equal(t, http.StatusNoContent, send(limited, first).Code)

	second := httptest.NewRequest(http.MethodGet, "/api/employees", nil).WithContext(ctx)
	second.RemoteAddr = "198.51.100.12:3333"
	require.Equal(t, http.StatusTooManyRequests, send(limited, second).Code)

	other := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
	other.RemoteAddr = "198.51.100.12:3333"
	require.Equal(t, http.StatusNoContent, send(limited, other).Code)
}

func TestRateLimitAnonymousByForwardedIP(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent())

	first := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	first.Header.Set("X-Forwarded-For", "203.0.113.10, 10.0.0.1")
	require.Equal(t, http.StatusNoContent, send(limited, first).Code)

	second := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	second.Header.Set("X-Forwarded-For", "203.0.113.10")
	rec := send(limited, second)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	require.Contains(t, rec.Body.String(), "rate_limited")
}

func TestRateLimitWindowResets(t *testing.T) {
	limited := RateLimit(1, 40*time.Millisecond)(noContent())
	req := func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
		r.RemoteAddr = "192.0.2.20:1111"
		return r
	}
	require.Equal(t, http.StatusNoContent, send(limited, req()).Code)
	require.Equal(t, http.StatusTooManyRequests, send(limited, req()).Code)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, http.StatusNoContent, send(limited, req()).Code)
}

func TestFixedWindowDropsExpiredBuckets(t *testing.T) {
	fw := newFixedWindow(5, time.Second, clientIP)
	start := time.Now()
	fw.hit("a", start)
	fw.hit("b", start)
	require.Len(t, fw.buckets, 2)

	fw.hit("c", start.Add(2*time.Second))
	require.Len(t, fw.buckets, 1)
}

func TestSensitiveLimitsLoginByEmail(t *testing.T) {
	limited := SensitiveMutationRateLimit(4, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Contains(t, string(body), "email")
		w.WriteHeader(http.StatusNoContent)
	}))
	login := func(ip, email string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"email":"`+email+`","password":"x"}`))
		r.Header.Set("Content-Type", "application/json")
		r.RemoteAddr = ip + ":4000"
		return r
	}

	require.Equal(t, http.StatusNoContent, send(limited, login("192.0.2.1", "a@example.com")).Code)
	require.Equal(t, http.StatusTooManyRequests, send(limited, login("192.0.2.2", "A@example.com")).Code)
	require.Equal(t, http.StatusTooManyRequests, send(limited, login("192.0.2.1", "b@example.com")).Code)
	require.Equal(t, http.StatusNoContent, send(limited, login("192.0.2.3", "c@example.com")).Code)
}

func TestSensitiveLimitsScope(t *testing.T) {
	limited := SensitiveMutationRateLimit(4, time.Minute)(noContent())

	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
		req.RemoteAddr = "198.51.100.40:8888"
		require.Equal(t, http.StatusNoContent, send(limited, req).Code, "read %d", i+1)
	}

	ctx := auth.WithActor(context.Background(), auth.Actor{UserID: "hr-1", Role: auth.RoleHR})
	paths := []string{"/api/devices/d1/assign", "/api/leaves/l1/status", "/api/payroll/p1/status"}
	for i, path := range paths {
		rec := send(limited, httptest.NewRequest(http.MethodPost, path, nil).WithContext(ctx))
		if i < 2 {
			require.Equal(t, http.StatusNoContent, rec.Code, path)
		} else {
			require.Equal(t, http.StatusTooManyRequests, rec.Code, path)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		method, path string
		want         scope
	}{
		{http.MethodPost, "/api/auth/login", scopeCredentials},
		{http.MethodPost, "/api/contact/send", scopeCredentials},
		{http.MethodGet, "/api/auth/me", scopeNone},
		{http.MethodPost, "/api/devices/d1/return", scopeWorkflow},
		{http.MethodPatch, "/api/applicants/a1/status", scopeWorkflow},
		{http.MethodPost, "/api/feedback/f1/respond", scopeWorkflow},
		{http.MethodPost, "/api/devices", scopeNone},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, classify(httptest.NewRequest(tc.method, tc.path, nil)), tc.path)
	}
}
