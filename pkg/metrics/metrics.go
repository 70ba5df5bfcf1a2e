// Package metrics holds the instrument names, attributes and buckets shared by
// the header probe and the metrics endpoint.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Instrument names. The Prometheus exporter rewrites dots to underscores, so
// they are scraped as headerscan_urls_total and headerscan_fetch_duration_seconds.
const (
	URLsScanned   = "headerscan.urls"
	FetchDuration = "headerscan.fetch.duration"
)

// StatusKey labels a scanned URL with the status of its result.
const StatusKey = attribute.Key("status")

// FetchBuckets are histogram buckets in seconds for outbound fetches. They run
// past the default probe timeout so that timeouts land in a bucket of their own.
var FetchBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 30} //nolint: gochecknoglobals

// NewMeterProvider returns a MeterProvider whose instruments are exported
// through reg.
func NewMeterProvider(reg prometheus.Registerer) (*sdkmetric.MeterProvider, error) {
	exp, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)), nil
}
