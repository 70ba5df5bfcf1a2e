// Package scanform implements the scan form controller: it turns the raw text
// of a URL form into a scan request, drives the loading and error affordances
// of a View while the scan service works, and hands the results to the
// renderer.
//
// The controller owns no display state itself. Everything visible goes through
// the View it was constructed with, so the same controller serves the web page
// and the terminal.
package scanform

import (
	"context"
	"errors"
	"secheaders/pkg/domain"
	"secheaders/pkg/logger"
	"secheaders/pkg/render"
	"secheaders/pkg/scanservice"
	"secheaders/pkg/serrors"
	"sync/atomic"

	"go.uber.org/zap"
)

// Messages shown in the error banner.
const (
	EmptyInputMessage = "Please enter at least one URL"
	TransportPrefix   = "An error occurred while scanning: "
)

// View is the display surface driven by a Controller.
type View interface {
	// ClearResults removes any rendered results.
	ClearResults()
	// HideError hides the error banner.
	HideError()
	// ShowError shows message in the error banner, replacing any previous one.
	ShowError(message string)
	// SetLoading disables the submit control and shows the busy indicator
	// while loading is true.
	SetLoading(loading bool)
	// ShowResults displays the rendered results.
	ShowResults(results render.Results)
}

// Controller runs the submit, scan and render cycle against one View. A
// Controller accepts one submit at a time and is safe for concurrent use.
type Controller struct {
	view   View
	client scanservice.Client
	busy   atomic.Bool
}

// New constructs a Controller bound to view and client.
func New(view View, client scanservice.Client) *Controller {
	return &Controller{
		view:   view,
		client: client,
	}
}

// Submit handles one form submission with the raw text of the URL field.
//
// A submit that arrives while another one is in flight returns
// serrors.ErrBusy and leaves the view untouched. Otherwise prior results and
// errors are cleared first. Input without any non-blank line shows
// EmptyInputMessage and returns a serrors.ErrValidation error without calling
// the scan service. While the scan service is called the view is in the
// loading state, which is released on every exit path.
//
// The returned error is the one already shown to the user, or nil when results
// were displayed.
func (c *Controller) Submit(ctx context.Context, raw string) error {
	if !c.busy.CompareAndSwap(false, true) {
		return serrors.With(serrors.ErrBusy, "a scan is already in progress")
	}
	defer c.busy.Store(false)

	c.view.ClearResults()
	c.view.HideError()

	urls := domain.ParseURLList(raw)
	if len(urls) == 0 {
		c.view.ShowError(EmptyInputMessage)

		return serrors.With(serrors.ErrValidation, "%s", EmptyInputMessage)
	}

	c.view.SetLoading(true)
	defer c.view.SetLoading(false)

	logger.Debug(ctx, "Submitting scan", zap.Int("urls", len(urls)))
	results, err := c.client.Scan(ctx, urls)
	if err != nil {
		logger.Debug(ctx, "Scan failed", zap.Error(err))
		c.view.ShowError(ErrorMessage(err))

		return err
	}

	c.view.ShowResults(render.Build(results))

	return nil
}

// ErrorMessage returns the banner text for an error returned by a
// scanservice.Client. Service errors are shown verbatim; anything else is a
// transport failure and gets TransportPrefix.
func ErrorMessage(err error) string {
	var se *serrors.Error
	if errors.As(err, &se) && errors.Is(se.Kind(), serrors.ErrService) && se.Message() != "" {
		return se.Message()
	}

	return TransportPrefix + err.Error()
}
