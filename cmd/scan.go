package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"secheaders/internal/config"
	"secheaders/pkg/render"
	"secheaders/pkg/scanform"
	"secheaders/pkg/scanservice"
	"secheaders/pkg/scanservice/httpapi"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

const reportHead = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Security Header Scan Report</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
</head>
<body>
<main class="container py-4">
<h1 class="mb-4">Security Header Scan Report</h1>
`

const reportTail = `
</main>
</body>
</html>
`

// readInput returns the raw URL text: the arguments one per line, else the
// file at path, else stdin.
func readInput(args []string, path string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, "\n"), nil
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("could not read url file: %w", err)
		}

		return string(b), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("could not read stdin: %w", err)
	}

	return string(b), nil
}

// writeReport writes results as a standalone HTML page to path.
func writeReport(path string, results render.Results) error {
	var b strings.Builder
	b.WriteString(reportHead)
	render.WriteHTML(&b, results)
	b.WriteString(reportTail)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil { //nolint: gosec
		return fmt.Errorf("could not write report: %w", err)
	}

	return nil
}

func scanCommand(cfg *config.Config) *cobra.Command {
	var (
		server string
		file   string
		report string
	)

	cmd := &cobra.Command{
		Use:   "scan [URL...]",
		Short: "Submits URLs to a scan service and prints the results",
		Long: "Submits URLs to a scan service and prints the results. URLs come from the arguments, " +
			"else from --file, else from stdin, one per line.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			raw, err := readInput(args, file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			if server == "" {
				server = cfg.Client.BaseURL
			}
			client := httpapi.New(&http.Client{Timeout: cfg.Client.Timeout}, server)
			results, err := runScan(ctx, client, raw, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			if report != "" {
				return writeReport(report, results)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Scan service base URL (default client.baseURL from the config)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "File with one URL per line")
	cmd.Flags().StringVar(&report, "html", "", "Write an HTML report to this path")

	return cmd
}

// runScan submits raw through a scan form controller printing to out and
// returns the results it displayed.
func runScan(ctx context.Context, client scanservice.Client, raw string, out io.Writer) (render.Results, error) {
	view := scanform.NewTerminalView(out)
	err := scanform.New(view, client).Submit(ctx, raw)

	return view.Results(), err
}
