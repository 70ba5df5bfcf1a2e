package render

import (
	"secheaders/pkg/domain"
	"strings"
)

// HTML returns the markup of the display tree.
func HTML(r Results) string {
	var b strings.Builder
	WriteHTML(&b, r)

	return b.String()
}

// WriteHTML appends the markup of the display tree to b.
func WriteHTML(b *strings.Builder, r Results) {
	if len(r.Cards) == 0 {
		notice := r.Notice
		if notice == "" {
			notice = NoResultsText
		}
		b.WriteString(`<div class="alert alert-info">`)
		b.WriteString(Escape(notice))
		b.WriteString(`</div>`)

		return
	}

	for i := range r.Cards {
		writeCard(b, &r.Cards[i])
	}
}

func writeCard(b *strings.Builder, c *Card) {
	cardClass, badgeClass := "border-danger", "bg-danger"
	if c.Success {
		cardClass, badgeClass = "border-success", "bg-success"
	}

	b.WriteString("\n<div class=\"card url-card ")
	b.WriteString(cardClass)
	b.WriteString("\">")
	b.WriteString("\n  <div class=\"card-header d-flex justify-content-between align-items-center\">")
	b.WriteString("\n    <h5 class=\"mb-0\">")
	b.WriteString(Escape(c.Title))
	b.WriteString("</h5>")
	b.WriteString("\n    <span class=\"badge ")
	b.WriteString(badgeClass)
	b.WriteString("\">")
	b.WriteString(Escape(c.Badge))
	b.WriteString("</span>")
	b.WriteString("\n  </div>")
	b.WriteString("\n  <div class=\"card-body\">")

	if c.Success {
		writeTable(b, c.Rows)
	} else {
		b.WriteString("\n    <div class=\"alert alert-danger\">")
		b.WriteString(Escape(c.Error))
		b.WriteString("</div>")
	}

	b.WriteString("\n  </div>")
	b.WriteString("\n</div>")
}

func writeTable(b *strings.Builder, rows []Row) {
	b.WriteString("\n    <div class=\"table-responsive\">")
	b.WriteString("\n      <table class=\"table table-striped\">")
	b.WriteString("\n        <thead><tr><th>Header Name</th><th>Value</th></tr></thead>")
	b.WriteString("\n        <tbody>")

	if len(rows) == 0 {
		b.WriteString("\n          <tr><td colspan=\"2\">")
		b.WriteString(NoHeadersText)
		b.WriteString("</td></tr>")
	}
	for _, row := range rows {
		if row.Missing {
			b.WriteString("\n          <tr><td class=\"header-name missing-header\">")
			b.WriteString(Escape(row.Name))
			b.WriteString("</td><td><span class=\"badge bg-danger\">")
			b.WriteString(MissingText)
			b.WriteString("</span></td></tr>")

			continue
		}
		b.WriteString("\n          <tr><td class=\"header-name present-header\">")
		b.WriteString(Escape(row.Name))
		b.WriteString("</td><td>")
		b.WriteString(valueHTML(row.Value))
		b.WriteString("</td></tr>")
	}

	b.WriteString("\n        </tbody>")
	b.WriteString("\n      </table>")
	b.WriteString("\n    </div>")
}

// valueHTML emits a header value. Numbers, booleans and null contain none of
// the escaped characters, so they come out unchanged.
func valueHTML(v domain.HeaderValue) string {
	return Escape(v.Raw)
}
