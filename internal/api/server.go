// Package api configures and exposes the HTTP server, routes, metrics, docs
// and related middleware for the security header scanner.
package api

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"secheaders/internal/api/handler/scanapi"
	"secheaders/internal/api/handler/webui"
	"secheaders/internal/config"
	"secheaders/internal/headerscan"
	"secheaders/pkg/controller"
	"secheaders/pkg/logger"
	"secheaders/pkg/metrics"
	"secheaders/pkg/scanservice"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
)

// scanSpec contains the embedded OpenAPI specification of the scan API.
//
//go:embed specs/scan.yaml
var scanSpec []byte

// Paths served besides the metrics path.
const (
	ScanPath  = "/api/scan"
	SpecsPath = "/specs/scan.yaml"
	DocsPath  = "/docs/"
)

// Options holds configuration for the HTTP server and its dependencies.
// It is typically created from a config.Config via NewOptions.
// All durations are used to configure server timeouts, and zero values
// should be considered as using the defaults provided by net/http where applicable.
type Options struct {
	// Scanner configures the header scanner behind the scan API.
	Scanner headerscan.Options

	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// RequestTimeout is the global timeout applied via http.TimeoutHandler for handling requests.
	RequestTimeout time.Duration
	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing the request header's keys and values, including the request line.
	MaxHeaderBytes int
	// MaxBodyBytes bounds the body of a scan request.
	MaxBodyBytes int64
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
	// EnablePprof mounts the pprof handlers under controller.PprofPath.
	EnablePprof bool

	// Registerer and Gatherer back the metrics endpoint. Nil means the
	// Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewOptions constructs an Options value from the provided application configuration.
// It maps HTTP server and scanner settings from config.Config to the Options used by the API server.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Scanner: headerscan.Options{
			Timeout:           cfg.Scanner.Timeout,
			UserAgent:         cfg.Scanner.UserAgent,
			MaxRedirects:      cfg.Scanner.MaxRedirects,
			Concurrency:       cfg.Scanner.Concurrency,
			RequestsPerSecond: cfg.Scanner.RequestsPerSecond,
			MaxBodyBytes:      cfg.Scanner.MaxBodyBytes,
		},

		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
		EnablePprof:       cfg.HTTP.EnablePprof,
	}
}

// Deps holds the collaborators of the server.
type Deps struct {
	// Client is used by the scan form page to reach the scan service.
	Client scanservice.Client
}

// NewServer wires up and returns a configured *http.Server using the provided Options.
// It sets up:
// - Prometheus metrics endpoint (MetricsPath)
// - OpenTelemetry metrics exporter (Prometheus) feeding the header scanner metrics
// - Embedded OpenAPI spec and Swagger UI
// - the scan API and the scan form page
// - pprof endpoints for profiling, when enabled
// It also wraps the routes with CORS, security header and logging middlewares and applies a request timeout.
func NewServer(ctx context.Context, deps Deps, opts Options) (*http.Server, error) {
	mux := http.NewServeMux()

	registerer, gatherer := opts.Registerer, opts.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// prometheus metrics server
	mux.Handle(opts.MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// otel
	mp, err := metrics.NewMeterProvider(registerer)
	if err != nil {
		return nil, err
	}

	// specs file
	mux.HandleFunc("GET "+SpecsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(scanSpec)
	})
	// swagger playground
	mux.Handle(DocsPath, v5emb.New(
		"Security Header Scanner",
		SpecsPath,
		DocsPath,
	))

	// scan api
	scannerOpts := opts.Scanner
	scannerOpts.MeterProvider = mp
	prober, err := headerscan.New(scannerOpts)
	if err != nil {
		return nil, fmt.Errorf("could not create header scanner: %w", err)
	}
	scanHandler, err := scanapi.New(prober, opts.MaxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("could not create scan handler: %w", err)
	}
	api := controller.WithCORS(controller.WithSecurityHeaders(scanHandler))
	mux.Handle("POST "+ScanPath, api)
	mux.Handle("OPTIONS "+ScanPath, api)

	// scan form page
	page, err := webui.New(deps.Client)
	if err != nil {
		return nil, fmt.Errorf("could not create scan form page: %w", err)
	}
	mux.Handle("GET /{$}", controller.WithSecurityHeaders(http.HandlerFunc(page.Index)))
	mux.Handle("POST /{$}", controller.WithSecurityHeaders(http.HandlerFunc(page.Submit)))

	// pprof
	if opts.EnablePprof {
		mux.Handle(controller.PprofPath, controller.PprofMux())
	}

	// logger
	handler := controller.WithLogger(mux)
	if opts.RequestTimeout > 0 {
		handler = http.TimeoutHandler(handler, opts.RequestTimeout, `{"error":"Request timed out"}`)
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(logger.SlogHandler(ctx), slog.LevelError),
	}, nil
}
