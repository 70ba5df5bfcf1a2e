// Package scanservice defines the client side of the security header scan
// service reached over POST /api/scan.
package scanservice

import (
	"context"
	"secheaders/pkg/domain"
)

// Client submits a list of URLs to the scan service and returns one result
// per URL, in request order.
//
// Implementations report failures with serrors kinds: serrors.ErrService when
// the service answered with a non-success status (the message is the text to
// show the user) and serrors.ErrTransport when the request did not complete or
// the response could not be understood.
//
//go:generate mockgen -package mockscanservice -source=interface.go -destination=mock/mockscanservice.go *
type Client interface {
	Scan(ctx context.Context, urls domain.URLList) ([]domain.ScanResult, error)
}
