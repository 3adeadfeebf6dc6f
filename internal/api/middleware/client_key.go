package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/docqa-labs/docqa/internal/limiter"
)

const ClientKeyKey contextKey = "client_key"

// ClientKey derives an anonymous client identifier from the request and
// stores it in the context. The identifier feeds the question quota, so it
// must be stable across requests from the same browser session.
func ClientKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := limiter.Identify(clientIP(r), r.UserAgent())
		ctx := context.WithValue(r.Context(), ClientKeyKey, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientKey returns the client identifier from context.
func GetClientKey(ctx context.Context) string {
	key, _ := ctx.Value(ClientKeyKey).(string)
	return key
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
