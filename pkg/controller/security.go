package controller

import "net/http"

// ContentSecurityPolicy allows same-origin resources plus the Bootstrap
// stylesheet of the scan form page.
const ContentSecurityPolicy = "default-src 'self'; " +
	"style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; " +
	"img-src 'self' data:; " +
	"script-src 'self'; " +
	"frame-ancestors 'none'; " +
	"base-uri 'self'; " +
	"form-action 'self'"

// securityHeaders are set on every response unless the handler overrides them.
var securityHeaders = [][2]string{ //nolint: gochecknoglobals
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Referrer-Policy", "no-referrer"},
	{"Content-Security-Policy", ContentSecurityPolicy},
	{"Permissions-Policy", "camera=(), microphone=(), geolocation=()"},
	{"Cache-Control", "no-store"},
}

// WithSecurityHeaders returns a middleware that sets the security response
// headers on every response before calling next.
func WithSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range securityHeaders {
			h.Set(kv[0], kv[1])
		}

		next.ServeHTTP(w, r)
	})
}
