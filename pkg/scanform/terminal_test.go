package scanform_test

import (
	"bytes"
	"secheaders/pkg/domain"
	"secheaders/pkg/render"
	"secheaders/pkg/scanform"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func noColor(t *testing.T) {
	t.Helper()

	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = original })
}

func TestTerminalView_results(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer
	v := scanform.NewTerminalView(&buf)
	code := 200

	res := render.Build([]domain.ScanResult{
		{
			URL:            "https://a.example",
			Status:         domain.ScanStatusSuccess,
			StatusCode:     &code,
			Headers:        []domain.Header{{Name: "X-Frame-Options", Value: domain.StringValue("DENY")}},
			MissingHeaders: []string{"Content-Security-Policy"},
		},
		{URL: "https://b.example", Status: domain.ScanStatusSuccess},
		{URL: "https://c.example", Status: domain.ScanStatusError, Error: "Connection error"},
	})
	v.SetLoading(true)
	v.ShowResults(res)
	v.SetLoading(false)

	require.Equal(t, "Scanning...\n"+
		"\nhttps://a.example [200]\n"+
		"  [+] X-Frame-Options: DENY\n"+
		"  [-] Content-Security-Policy: Missing\n"+
		"\nhttps://b.example [Success]\n"+
		"  No headers found\n"+
		"\nhttps://c.example [Failed]\n"+
		"  Connection error\n", buf.String())
	require.Equal(t, res, v.Results())
}

func TestTerminalView_noticeAndErrors(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer
	v := scanform.NewTerminalView(&buf)

	v.ShowResults(render.Build(nil))
	v.ShowError("rate limited")
	v.HideError()
	v.ClearResults()
	require.True(t, v.Results().Empty())
	require.Equal(t, "No results to display\nError: rate limited\n", buf.String())
}
