// Package headerscan fetches URLs and reports which security headers their
// responses carry.
package headerscan

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"secheaders/pkg/domain"
	"secheaders/pkg/logger"
	"secheaders/pkg/metrics"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Error messages reported on failed results.
const (
	InvalidURLMessage = "Invalid URL format"
	TimeoutMessage    = "Request timed out"
	ConnectionMessage = "Connection error"
	FailedPrefix      = "Request failed: "
)

const meterName = "secheaders/internal/headerscan"

// Options configures a Prober. Zero values fall back to the defaults below.
type Options struct {
	// Timeout bounds one fetch, redirects included. Default 10s.
	Timeout time.Duration
	// UserAgent is sent with every request. Default "Security Header Scanner/1.0".
	UserAgent string
	// MaxRedirects is the number of redirects followed before giving up. Default 10.
	MaxRedirects int
	// Concurrency is the number of URLs fetched at once by ScanAll. Default 4.
	Concurrency int
	// RequestsPerSecond paces outgoing fetches; zero or less disables pacing.
	RequestsPerSecond float64
	// MaxBodyBytes is how much of a response body is drained so the connection
	// can be reused. Default 64 KiB.
	MaxBodyBytes int64
	// Transport is the round tripper used for fetches; nil means a clone of
	// http.DefaultTransport.
	Transport http.RoundTripper
	// MeterProvider receives the probe metrics; nil disables them.
	MeterProvider metric.MeterProvider
}

func (o *Options) setDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.UserAgent == "" {
		o.UserAgent = "Security Header Scanner/1.0"
	}
	if o.MaxRedirects <= 0 {
		o.MaxRedirects = 10
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 64 << 10
	}
	if o.Transport == nil {
		o.Transport = http.DefaultTransport.(*http.Transport).Clone() //nolint: forcetypeassert
	}
	if o.MeterProvider == nil {
		o.MeterProvider = noop.NewMeterProvider()
	}
}

// Prober fetches URLs and inspects their security headers. It is safe for
// concurrent use.
type Prober struct {
	opts     Options
	client   *http.Client
	limiter  *rate.Limiter
	scanned  metric.Int64Counter
	duration metric.Float64Histogram
}

// New constructs a Prober from opts.
func New(opts Options) (*Prober, error) {
	opts.setDefaults()

	limit := rate.Inf
	burst := 1
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		burst = max(1, int(opts.RequestsPerSecond))
	}

	meter := opts.MeterProvider.Meter(meterName)
	scanned, err := meter.Int64Counter(metrics.URLsScanned,
		metric.WithDescription("Number of scanned URLs by result status."),
		metric.WithUnit("{url}"))
	if err != nil {
		return nil, fmt.Errorf("could not create url counter: %w", err)
	}
	duration, err := meter.Float64Histogram(metrics.FetchDuration,
		metric.WithDescription("Time spent fetching a URL, redirects included."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.FetchBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create fetch duration histogram: %w", err)
	}

	maxRedirects := opts.MaxRedirects
	client := &http.Client{
		Timeout:   opts.Timeout,
		Transport: opts.Transport,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return fmt.Errorf("exceeded %d redirects", maxRedirects)
			}

			return nil
		},
	}

	return &Prober{
		opts:     opts,
		client:   client,
		limiter:  rate.NewLimiter(limit, burst),
		scanned:  scanned,
		duration: duration,
	}, nil
}

// Scan fetches rawURL and reports its security headers. Failures are part of
// the result, never returned as errors.
func (p *Prober) Scan(ctx context.Context, rawURL string) domain.ScanResult {
	result := p.scan(ctx, rawURL)
	p.scanned.Add(ctx, 1, metric.WithAttributes(metrics.StatusKey.String(string(result.Status))))

	return result
}

func (p *Prober) scan(ctx context.Context, rawURL string) domain.ScanResult {
	result := domain.ScanResult{
		URL:            rawURL,
		Status:         domain.ScanStatusSuccess,
		Headers:        []domain.Header{},
		MissingHeaders: []string{},
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return failed(result, InvalidURLMessage)
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return failed(result, FailedPrefix+err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return failed(result, FailedPrefix+err.Error())
	}
	req.Header.Set("User-Agent", p.opts.UserAgent)

	start := time.Now()
	resp, err := p.client.Do(req)
	p.duration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		logger.Debug(ctx, "could not fetch url", zap.String("url", rawURL), zap.Error(err))

		return failed(result, errorMessage(err))
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, p.opts.MaxBodyBytes))
		_ = resp.Body.Close()
	}()

	code := resp.StatusCode
	result.StatusCode = &code
	result.Headers, result.MissingHeaders = inspect(resp.Header)

	return result
}

// ScanAll scans urls with bounded concurrency. The results are in the order of
// urls, one per entry. URLs with the same FetchKey are fetched once and share
// the outcome. It returns an error only when ctx ends before all scans finish.
func (p *Prober) ScanAll(ctx context.Context, urls []string) ([]domain.ScanResult, error) {
	// first index of every distinct fetch
	first := make(map[string]int, len(urls))
	sources := make([]int, len(urls))
	for i, u := range urls {
		key := FetchKey(u)
		if j, ok := first[key]; ok {
			sources[i] = j

			continue
		}
		first[key] = i
		sources[i] = i
	}

	results := make([]domain.ScanResult, len(urls))

	var g errgroup.Group
	g.SetLimit(p.opts.Concurrency)
	for i, u := range urls {
		if sources[i] != i {
			continue
		}
		g.Go(func() error {
			results[i] = p.Scan(ctx, u)

			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan interrupted: %w", err)
	}

	for i, src := range sources {
		if src != i {
			results[i] = results[src]
			results[i].URL = urls[i]
		}
	}

	return results, nil
}

// inspect splits SecurityHeaders into the present ones, with their values,
// and the missing ones. Multiple values of one header are joined with ", ".
func inspect(h http.Header) ([]domain.Header, []string) {
	present := []domain.Header{}
	missing := []string{}
	for _, name := range SecurityHeaders {
		values := h.Values(name)
		if len(values) == 0 {
			missing = append(missing, name)

			continue
		}
		present = append(present, domain.Header{
			Name:  name,
			Value: domain.StringValue(strings.Join(values, ", ")),
		})
	}

	return present, missing
}

func failed(result domain.ScanResult, msg string) domain.ScanResult {
	result.Status = domain.ScanStatusError
	result.StatusCode = nil
	result.Error = msg

	return result
}

// errorMessage maps a fetch error to the message reported on the result.
func errorMessage(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return TimeoutMessage
	}

	var (
		opErr   *net.OpError
		dnsErr  *net.DNSError
		certErr *tls.CertificateVerificationError
		authErr x509.UnknownAuthorityError
		hostErr x509.HostnameError
	)
	switch {
	case errors.As(err, &opErr),
		errors.As(err, &dnsErr),
		errors.As(err, &certErr),
		errors.As(err, &authErr),
		errors.As(err, &hostErr),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return ConnectionMessage
	}

	return FailedPrefix + err.Error()
}
