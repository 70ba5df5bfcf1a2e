package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, the HTTP server, the header
// scanner, the scan service client, and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"90s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MaxBodyBytes bounds the body of a scan request
		MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" env-default:"1048576" yaml:"maxBodyBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// EnablePprof exposes the pprof handlers under /debug/pprof/
		EnablePprof bool `env:"HTTP_ENABLE_PPROF" env-default:"false" yaml:"enablePprof"`
	} `yaml:"http"`

	// Scanner contains the settings of the header scanner behind POST /api/scan
	Scanner struct {
		// Timeout bounds the fetch of one URL, redirects included
		Timeout time.Duration `env:"SCANNER_TIMEOUT" env-default:"10s" yaml:"timeout"`
		// UserAgent is sent with every fetch
		UserAgent string `env:"SCANNER_USER_AGENT" env-default:"Security Header Scanner/1.0" yaml:"userAgent"`
		// Concurrency is the number of URLs of one request fetched at once
		Concurrency int `env:"SCANNER_CONCURRENCY" env-default:"4" yaml:"concurrency"`
		// RequestsPerSecond paces outgoing fetches across all requests; 0 disables pacing
		RequestsPerSecond float64 `env:"SCANNER_REQUESTS_PER_SECOND" env-default:"0" yaml:"requestsPerSecond"`
		// MaxRedirects is the number of redirects followed per URL
		MaxRedirects int `env:"SCANNER_MAX_REDIRECTS" env-default:"10" yaml:"maxRedirects"`
		// MaxBodyBytes is how much of a fetched body is drained for connection reuse
		MaxBodyBytes int64 `env:"SCANNER_MAX_BODY_BYTES" env-default:"65536" yaml:"maxBodyBytes"`
	} `yaml:"scanner"`

	// Client contains the settings used to reach the scan service
	Client struct {
		// BaseURL is the scan service root; POST /api/scan is appended to it
		BaseURL string `env:"CLIENT_BASE_URL" env-default:"http://localhost:8080" yaml:"baseURL"`
		// Timeout bounds one scan request
		Timeout time.Duration `env:"CLIENT_TIMEOUT" env-default:"2m" yaml:"timeout"`
	} `yaml:"client"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}

// LoadEnv returns a Config filled from the environment and defaults only, for
// runs without a config file.
func LoadEnv() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read environment: %w", err)
	}

	return &cfg, nil
}
