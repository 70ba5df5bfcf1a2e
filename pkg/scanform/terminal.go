package scanform

import (
	"fmt"
	"io"
	"secheaders/pkg/render"
	"sync"

	"github.com/fatih/color"
)

var ( //nolint: gochecknoglobals
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

// TerminalView is a View that prints to a terminal. Terminal output cannot be
// taken back, so ClearResults only resets the kept results and HideError does
// nothing.
type TerminalView struct {
	mu      sync.Mutex
	w       io.Writer
	results render.Results
}

// NewTerminalView returns a TerminalView writing to w.
func NewTerminalView(w io.Writer) *TerminalView {
	return &TerminalView{w: w}
}

// ClearResults implements View.
func (v *TerminalView) ClearResults() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.results = render.Results{}
}

// HideError implements View.
func (v *TerminalView) HideError() {}

// ShowError implements View.
func (v *TerminalView) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	_, _ = fmt.Fprintf(v.w, "%s %s\n", colorError("Error:"), message)
}

// SetLoading implements View.
func (v *TerminalView) SetLoading(loading bool) {
	if !loading {
		return
	}
	_, _ = fmt.Fprintln(v.w, colorInfo("Scanning..."))
}

// ShowResults implements View. Each card is printed as a block: the URL with
// its badge, then one line per header.
func (v *TerminalView) ShowResults(results render.Results) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.results = results
	if len(results.Cards) == 0 {
		_, _ = fmt.Fprintln(v.w, colorInfo(results.Notice))

		return
	}

	for i := range results.Cards {
		v.printCard(&results.Cards[i])
	}
}

func (v *TerminalView) printCard(c *render.Card) {
	if !c.Success {
		_, _ = fmt.Fprintf(v.w, "\n%s [%s]\n", c.Title, colorError(c.Badge))
		_, _ = fmt.Fprintf(v.w, "  %s\n", colorError(c.Error))

		return
	}

	_, _ = fmt.Fprintf(v.w, "\n%s [%s]\n", c.Title, colorSuccess(c.Badge))
	if len(c.Rows) == 0 {
		_, _ = fmt.Fprintf(v.w, "  %s\n", colorWarn(render.NoHeadersText))

		return
	}
	for _, row := range c.Rows {
		if row.Missing {
			_, _ = fmt.Fprintf(v.w, "  %s %s: %s\n", colorError("[-]"), row.Name, colorError(render.MissingText))

			continue
		}
		_, _ = fmt.Fprintf(v.w, "  %s %s: %s\n", colorSuccess("[+]"), row.Name, row.Value.String())
	}
}

// Results returns the results last shown, or the zero Results when none are.
func (v *TerminalView) Results() render.Results {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.results
}
