package webui

import (
	"secheaders/pkg/render"
	"secheaders/pkg/scanform"
)

// PageView is a scanform.View that keeps the state of the page in memory so
// it can be rendered once the submit has settled.
type PageView struct {
	Loading bool
	Error   string
	Results render.Results
}

// Ensure PageView implements scanform.View.
var _ scanform.View = (*PageView)(nil)

// ClearResults implements scanform.View.
func (v *PageView) ClearResults() { v.Results = render.Results{} }

// HideError implements scanform.View.
func (v *PageView) HideError() { v.Error = "" }

// ShowError implements scanform.View.
func (v *PageView) ShowError(message string) { v.Error = message }

// SetLoading implements scanform.View.
func (v *PageView) SetLoading(loading bool) { v.Loading = loading }

// ShowResults implements scanform.View.
func (v *PageView) ShowResults(results render.Results) { v.Results = results }
