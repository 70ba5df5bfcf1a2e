// Package webui serves the scan form page. GET renders the empty form; POST
// runs the scan form controller for the submitted text and renders the page
// with its outcome.
package webui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"secheaders/pkg/logger"
	"secheaders/pkg/render"
	"secheaders/pkg/scanform"
	"secheaders/pkg/scanservice"

	"go.uber.org/zap"
)

// FieldURLs is the name of the form field holding the URL list.
const FieldURLs = "urls"

//go:embed templates/index.html
var templatesFS embed.FS

type pageData struct {
	Raw     string
	Loading bool
	Error   string
	// Results is markup produced by render.HTML, which escapes all text.
	Results template.HTML
}

// Handler serves the scan form page.
type Handler struct {
	client scanservice.Client
	tmpl   *template.Template
}

// New returns a Handler submitting scans through client.
func New(client scanservice.Client) (*Handler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("could not parse page template: %w", err)
	}

	return &Handler{
		client: client,
		tmpl:   tmpl,
	}, nil
}

// Index renders the empty form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, pageData{})
}

// Submit runs one scan for the submitted form and renders the outcome. Each
// request gets its own controller and view.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "could not parse form", http.StatusBadRequest)

		return
	}
	raw := r.PostFormValue(FieldURLs)

	view := &PageView{}
	if err := scanform.New(view, h.client).Submit(ctx, raw); err != nil {
		logger.Debug(ctx, "scan form submit failed", zap.Error(err))
	}

	data := pageData{
		Raw:     raw,
		Loading: view.Loading,
		Error:   view.Error,
	}
	if !view.Results.Empty() {
		data.Results = template.HTML(render.HTML(view.Results)) //nolint: gosec
	}
	h.renderPage(w, r, data)
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, data pageData) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		logger.Error(r.Context(), "could not render page", zap.Error(err))
		http.Error(w, "could not render page", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
