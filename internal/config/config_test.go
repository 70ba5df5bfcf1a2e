package config_test

import (
	"os"
	"path/filepath"
	"secheaders/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "environment: production\n"))
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, "/metrics", cfg.HTTP.MetricsPath)
	require.False(t, cfg.HTTP.EnablePprof)
	require.Equal(t, 10*time.Second, cfg.Scanner.Timeout)
	require.Equal(t, "Security Header Scanner/1.0", cfg.Scanner.UserAgent)
	require.Equal(t, 4, cfg.Scanner.Concurrency)
	require.Equal(t, 10, cfg.Scanner.MaxRedirects)
	require.Equal(t, "http://localhost:8080", cfg.Client.BaseURL)
	require.Equal(t, 10*time.Second, cfg.GracefulShutdownTimeout)
}

func TestLoad_fileAndEnv(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9090"
  enablePprof: true
scanner:
  timeout: 3s
  concurrency: 8
  requestsPerSecond: 2.5
client:
  baseURL: "http://scanner.internal"
`)
	t.Setenv("SCANNER_CONCURRENCY", "16")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTP.Addr)
	require.True(t, cfg.HTTP.EnablePprof)
	require.Equal(t, 3*time.Second, cfg.Scanner.Timeout)
	require.Equal(t, 16, cfg.Scanner.Concurrency)
	require.InDelta(t, 2.5, cfg.Scanner.RequestsPerSecond, 0.0001)
	require.Equal(t, "http://scanner.internal", cfg.Client.BaseURL)
}

func TestLoad_missingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("CLIENT_BASE_URL", "http://127.0.0.1:9000")

	cfg, err := config.LoadEnv()
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:9000", cfg.Client.BaseURL)
	require.Equal(t, 2*time.Minute, cfg.Client.Timeout)
}
