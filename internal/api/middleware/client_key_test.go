package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docqa-labs/docqa/internal/limiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientKey_SetsKeyInContext(t *testing.T) {
	var captured string
	handler := ClientKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetClientKey(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/ask", nil)
	req.RemoteAddr = "203.0.113.7:54321"
	req.Header.Set("User-Agent", "Mozilla/5.0 (test)")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.NotEmpty(t, captured)
	assert.Equal(t, limiter.Identify("203.0.113.7", "Mozilla/5.0 (test)"), captured)
}

func TestClientKey_StableAcrossRequests(t *testing.T) {
	keys := make([]string, 0, 2)
	handler := ClientKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, GetClientKey(r.Context()))
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ask", nil)
		req.RemoteAddr = "203.0.113.7:54321"
		req.Header.Set("User-Agent", "Mozilla/5.0 (test)")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.Len(t, keys, 2)
	assert.Equal(t, keys[0], keys[1])
}

func TestClientKey_DiffersByUserAgent(t *testing.T) {
	keys := make([]string, 0, 2)
	handler := ClientKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, GetClientKey(r.Context()))
	}))

	for _, ua := range []string{"browser-a", "browser-b"} {
		req := httptest.NewRequest(http.MethodGet, "/ask", nil)
		req.Header.Set("User-Agent", ua)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestClientIP_ForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")

	assert.Equal(t, "198.51.100.4", clientIP(req))
}

func TestClientIP_RealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Real-IP", "198.51.100.9")

	assert.Equal(t, "198.51.100.9", clientIP(req))
}

func TestClientIP_RemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:9999"

	assert.Equal(t, "192.0.2.10", clientIP(req))
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, captured)
	assert.Equal(t, captured, w.Header().Get("X-Request-ID"))
}

func TestRequestID_PreservesIncoming(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-123", captured)
}
