// Package httpapi provides a scanservice.Client implementation that talks to
// the scan service over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"secheaders/pkg/domain"
	"secheaders/pkg/scanservice"
	"secheaders/pkg/serrors"
	"secheaders/pkg/wire"
	"strings"
)

// ScanPath is the path of the scan endpoint relative to the base URL.
const ScanPath = "/api/scan"

// FallbackMessage is shown when a failed response carries no usable message.
const FallbackMessage = "Failed to scan URLs"

// Client sends scan requests to a scan service. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs the HTTP requests
	endpoint   string       // endpoint is the absolute URL of the scan endpoint
}

// Scan posts urls to the scan endpoint and decodes the per-URL results.
//
// A non-2xx status yields a serrors.ErrService error whose message is the
// body's "error" field when it is a non-empty string, or FallbackMessage
// otherwise. A request that does not complete, or a 2xx body that cannot be
// decoded, yields a serrors.ErrTransport error wrapping the cause.
func (c *Client) Scan(ctx context.Context, urls domain.URLList) ([]domain.ScanResult, error) {
	req, err := http.NewRequestWithContext(ctx,
		http.MethodPost,
		c.endpoint,
		bytes.NewReader(wire.EncodeScanRequest(urls)))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrTransport, err, "could not create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrTransport, err, "")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrTransport, err, "could not read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := wire.DecodeErrorMessage(b)
		if msg == "" {
			msg = FallbackMessage
		}

		return nil, serrors.With(serrors.ErrService, "%s", msg)
	}

	// successful
	results, err := wire.DecodeScanResponse(b)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrTransport, err, "could not decode response")
	}

	return results, nil
}

// Ensure Client conforms to the scanservice.Client interface at compile time.
var _ scanservice.Client = (*Client)(nil)

// New constructs a Client that posts to baseURL + ScanPath using httpClient.
// A nil httpClient falls back to http.DefaultClient.
func New(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   fmt.Sprintf("%s%s", strings.TrimRight(baseURL, "/"), ScanPath),
	}
}
