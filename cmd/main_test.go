package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"secheaders/internal/config"
	"secheaders/pkg/serrors"
	"sync/atomic"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_configFlagPosition(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	missing := filepath.Join(t.TempDir(), "missing.yml")
	for _, args := range [][]string{
		{"-c", missing, "scan", "--server", srv.URL, "https://a.example"},
		{"scan", "-c", missing, "--server", srv.URL, "https://a.example"},
		{"scan", "--server", srv.URL, "https://a.example", "--config", missing},
	} {
		var cfg config.Config
		cmd := newRootCommand(&cfg)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs(args)

		err := cmd.ExecuteContext(context.Background())
		require.ErrorContains(t, err, "could not load config file", args)
	}
	require.Zero(t, hits.Load())
}

func TestRootCommand_readsConfigAfterSubcommand(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = original })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"url":"https://a.example","status":"success","status_code":204}]}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "secheaders.yml")
	require.NoError(t, os.WriteFile(path, []byte("environment: production\nclient:\n  baseURL: "+srv.URL+"\n"), 0o600))

	var cfg config.Config
	var out bytes.Buffer
	cmd := newRootCommand(&cfg)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"scan", "-c", path, "https://a.example"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, srv.URL, cfg.Client.BaseURL)
	require.Contains(t, out.String(), "https://a.example [204]")
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, serrors.With(serrors.ErrService, "%s", "rate limited"))
	require.Empty(t, buf.String())

	reportError(&buf, errors.New("could not read url file: missing"))
	require.Equal(t, "Error: could not read url file: missing\n", buf.String())
}
