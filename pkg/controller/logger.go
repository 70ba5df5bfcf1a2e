package controller

import (
	"context"
	"net"
	"net/http"
	"secheaders/pkg/logger"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-Id"

// statusRecorder wraps http.ResponseWriter to capture the final HTTP status
// code and the number of body bytes written by the downstream handler.
type statusRecorder struct {
	http.ResponseWriter

	status int
	bytes  int
}

// WriteHeader records the status code and forwards the call to the underlying writer.
func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// Write counts the body bytes and forwards the call to the underlying writer.
func (rec *statusRecorder) Write(b []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n

	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// GetClientIP attempts to determine the originating client IP address for the
// given request by checking X-Forwarded-For and X-Real-IP headers before
// falling back to the connection's remote address.
func GetClientIP(r *http.Request) string {
	// may contain multiple IPs: "client, proxy1, proxy2"
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return ip
}

// CtxKey is a string-based type used for storing values in request contexts.
// It avoids collisions with other packages' context keys.
type CtxKey string

const (
	// RequestIDKey is the context key under which the current request ID is stored.
	RequestIDKey CtxKey = "RequestID"
)

// RequestID returns the request ID stored in ctx by WithLogger, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)

	return id
}

// WithLogger returns a middleware that injects a request-scoped logger and
// request ID into the context, echoes the request ID in the response, then
// logs a structured access log after the handler finishes. Server errors are
// logged at error level, client errors at warn level.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx = context.WithValue(ctx, RequestIDKey, requestID)
		ctx = logger.WithFields(ctx, zap.String(string(RequestIDKey), requestID))
		w.Header().Set(RequestIDHeader, requestID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(ctx))

		level := zapcore.InfoLevel
		switch {
		case rec.status >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case rec.status >= http.StatusBadRequest:
			level = zapcore.WarnLevel
		}
		logger.Get(ctx).Log(level, "Access log",
			zap.Int("status_code", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Float64("latency", time.Since(start).Seconds()),
			zap.String("client_ip", GetClientIP(r)),
			zap.String("user_agent", r.UserAgent()),
			zap.String("url", r.URL.String()),
			zap.String("referer", r.Referer()),
			zap.String("method", r.Method),
		)
	})
}
