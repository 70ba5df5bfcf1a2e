// Package scanapi serves POST /api/scan: it validates the URL list, scans
// every URL for security headers and answers with one result per URL.
package scanapi

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"secheaders/internal/headerscan"
	"secheaders/pkg/domain"
	"secheaders/pkg/logger"
	"secheaders/pkg/serrors"
	"secheaders/pkg/wire"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

// Response messages.
const (
	NoDataMessage        = "No data provided"
	InvalidFormatMessage = "Invalid request format"
	ServerErrorMessage   = "Server error"
)

// DefaultMaxBodyBytes bounds the request body.
const DefaultMaxBodyBytes = 1 << 20

const schemaURL = "urls.schema.json"

//go:embed urls.schema.json
var urlListSchema []byte

// Handler handles scan requests. It is safe for concurrent use.
type Handler struct {
	scanner      headerscan.Scanner
	schema       *jsonschema.Schema
	maxBodyBytes int64
}

// Ensure Handler implements http.Handler.
var _ http.Handler = (*Handler)(nil)

// New returns a Handler scanning with scanner. maxBodyBytes <= 0 means
// DefaultMaxBodyBytes.
func New(scanner headerscan.Scanner, maxBodyBytes int64) (*Handler, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, bytes.NewReader(urlListSchema)); err != nil {
		return nil, fmt.Errorf("could not add url list schema: %w", err)
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("could not compile url list schema: %w", err)
	}

	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}

	return &Handler{
		scanner:      scanner,
		schema:       schema,
		maxBodyBytes: maxBodyBytes,
	}, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	defer func() {
		if p := recover(); p != nil {
			h.writeError(ctx, w, serrors.With(serrors.ErrInternal, "%v", p))
		}
	}()

	urls, err := h.parse(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		h.writeError(ctx, w, err)

		return
	}

	results, err := h.scanner.ScanAll(ctx, urls)
	if err != nil {
		h.writeError(ctx, w, serrors.Wrap(serrors.ErrInternal, err, ""))

		return
	}

	if logger.IsDebug(ctx) {
		logger.Debug(ctx, "scanned urls", zap.Int("count", len(results)), zap.Int("failed", countFailed(results)))
	}
	writeJSON(w, http.StatusOK, wire.EncodeScanResponse(results))
}

func countFailed(results []domain.ScanResult) int {
	n := 0
	for i := range results {
		if !results[i].Succeeded() {
			n++
		}
	}

	return n
}

// parse reads and validates a scan request body and returns its URLs.
func (h *Handler) parse(body io.Reader) ([]string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, serrors.Wrap(serrors.ErrBadRequest, err, "")
		}

		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not read request body")
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, serrors.KindOnly(serrors.ErrBadRequest)
	}

	v, err := decodeJSON(b)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "")
	}
	if isEmpty(v) {
		return nil, serrors.KindOnly(serrors.ErrBadRequest)
	}
	if err := h.schema.Validate(v); err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "")
	}

	// the schema guarantees an object with a non-empty array of strings
	items, _ := v.(map[string]any)["urls"].([]any)
	urls := make([]string, 0, len(items))
	for _, item := range items {
		s, _ := item.(string)
		urls = append(urls, s)
	}

	return urls, nil
}

// decodeJSON decodes a single JSON value the way the schema validator expects
// it, with numbers kept as json.Number.
func decodeJSON(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("could not decode body: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("could not decode body: unexpected data after top-level value")
	}

	return v, nil
}

// isEmpty reports whether a decoded body carries no data: null, false, zero,
// an empty string, an empty object or an empty array.
func isEmpty(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case json.Number:
		f, err := v.Float64()

		return err == nil && f == 0
	default:
		return false
	}
}

// writeError maps err to an error response. A bad request without a cause
// is an empty body.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var se *serrors.Error
	if !errors.As(err, &se) {
		se = serrors.Wrap(serrors.ErrInternal, err, "")
	}

	switch {
	case errors.Is(se.Kind(), serrors.ErrBadRequest) && se.Cause() == nil:
		writeJSON(w, http.StatusBadRequest, wire.EncodeError(NoDataMessage, ""))
	case errors.Is(se.Kind(), serrors.ErrBadRequest):
		logger.Warn(ctx, "invalid scan request", zap.Error(se))
		writeJSON(w, http.StatusBadRequest, wire.EncodeError(InvalidFormatMessage, se.Error()))
	default:
		logger.Error(ctx, "could not handle scan request", zap.Error(se))
		writeJSON(w, http.StatusInternalServerError, wire.EncodeError(ServerErrorMessage, se.Error()))
	}
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
