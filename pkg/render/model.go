// Package render turns scan results into a display tree and writes that tree
// as HTML cards.
//
// Build is a pure mapping from results to a view-model that holds raw,
// unescaped text. Only the writers in this package produce markup, and they
// pass every piece of user-influenced text through Escape, so callers cannot
// skip escaping.
package render

import (
	"secheaders/pkg/domain"
	"strconv"
)

// Texts shown by the results view.
const (
	NoResultsText = "No results to display"
	NoHeadersText = "No headers found"
	MissingText   = "Missing"
	SuccessLabel  = "Success"
	FailedLabel   = "Failed"
	UnknownError  = "Unknown error"
)

// Results is the display tree for one scan response: either a single notice
// or a list of cards.
type Results struct {
	Notice string
	Cards  []Card
}

// Empty reports whether nothing has been built into r.
func (r Results) Empty() bool {
	return r.Notice == "" && len(r.Cards) == 0
}

// Card displays the result of one URL.
type Card struct {
	// Success selects the visual state (success or danger).
	Success bool
	// Title is the scanned URL.
	Title string
	// Badge is the status code, SuccessLabel or FailedLabel.
	Badge string
	// Rows is the header table of a successful scan. An empty table is shown
	// as a single NoHeadersText row.
	Rows []Row
	// Error is the message of a failed scan.
	Error string
}

// Row is one line of the header table.
type Row struct {
	Name string
	// Value is the header value; ignored for missing rows.
	Value domain.HeaderValue
	// Missing marks an expected header that was not observed.
	Missing bool
}

// Build maps scan results to the display tree. A nil or empty slice yields
// the NoResultsText notice.
func Build(results []domain.ScanResult) Results {
	if len(results) == 0 {
		return Results{Notice: NoResultsText}
	}

	cards := make([]Card, 0, len(results))
	for i := range results {
		cards = append(cards, buildCard(&results[i]))
	}

	return Results{Cards: cards}
}

func buildCard(r *domain.ScanResult) Card {
	c := Card{
		Success: r.Succeeded(),
		Title:   r.URL,
	}

	if !c.Success {
		c.Badge = FailedLabel
		c.Error = r.Error
		if c.Error == "" {
			c.Error = UnknownError
		}

		return c
	}

	c.Badge = SuccessLabel
	if r.StatusCode != nil && *r.StatusCode != 0 {
		c.Badge = strconv.Itoa(*r.StatusCode)
	}

	c.Rows = make([]Row, 0, len(r.Headers)+len(r.MissingHeaders))
	for _, h := range r.Headers {
		c.Rows = append(c.Rows, Row{Name: h.Name, Value: h.Value})
	}
	for _, name := range r.MissingHeaders {
		c.Rows = append(c.Rows, Row{Name: name, Missing: true})
	}

	return c
}
