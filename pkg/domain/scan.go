package domain

// ScanStatus is the outcome reported for a single URL. The scan service uses
// "success" and "error", but any value other than "success" is treated as a
// failure.
type ScanStatus string

const (
	// ScanStatusSuccess indicates the URL was fetched and its headers inspected.
	ScanStatusSuccess ScanStatus = "success"
	// ScanStatusError indicates the URL could not be fetched; see ScanResult.Error.
	ScanStatusError ScanStatus = "error"
)

// ValueKind classifies the JSON type of a header value.
type ValueKind uint8

const (
	// ValueString is a JSON string. Raw holds the decoded text.
	ValueString ValueKind = iota
	// ValueScalar is a JSON number, boolean or null. Raw holds its literal text.
	ValueScalar
	// ValueComposite is a JSON object or array. Raw holds its compact JSON text.
	ValueComposite
)

// HeaderValue is the value of one reported header. The scan service sends
// strings, but the contract does not forbid other JSON values, so the kind is
// kept for the renderer to decide how the text is emitted.
type HeaderValue struct {
	Raw  string
	Kind ValueKind
}

// StringValue returns a HeaderValue holding a plain string.
func StringValue(s string) HeaderValue {
	return HeaderValue{Raw: s, Kind: ValueString}
}

// String returns the value text.
func (v HeaderValue) String() string { return v.Raw }

// Header is one security header observed on the scanned URL.
type Header struct {
	// Name is the header name as reported by the scan service.
	Name string
	// Value is the header value.
	Value HeaderValue
}

// ScanResult is the scan outcome for one submitted URL.
type ScanResult struct {
	// URL is the submitted URL.
	URL string
	// Status tells whether the scan succeeded.
	Status ScanStatus
	// StatusCode is the HTTP status code of the scanned URL, nil when unknown.
	StatusCode *int
	// Headers lists the present security headers in the order they were reported.
	Headers []Header
	// MissingHeaders lists expected security headers that were not observed.
	MissingHeaders []string
	// Error describes why the scan failed. Empty when not reported.
	Error string
}

// Succeeded reports whether the result has the success status.
func (r ScanResult) Succeeded() bool {
	return r.Status == ScanStatusSuccess
}
