// Package wire encodes and decodes the JSON bodies of the scan endpoint
// (POST /api/scan). It is built on go-faster/jx instead of encoding/json so
// the order of the "headers" object survives a round trip: the scan service
// reports present headers in a meaningful order and the renderer shows them
// in that order.
package wire

import (
	"bytes"
	"encoding/json"
	"math"
	"secheaders/pkg/domain"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// maxStatusCode bounds the status codes taken from a response body.
const maxStatusCode = 999

// Field names of the scan endpoint contract.
const (
	FieldURLs           = "urls"
	FieldResults        = "results"
	FieldURL            = "url"
	FieldStatus         = "status"
	FieldStatusCode     = "status_code"
	FieldHeaders        = "headers"
	FieldMissingHeaders = "missing_headers"
	FieldError          = "error"
	FieldDetails        = "details"
)

// EncodeScanRequest returns the request body {"urls": [...]}.
func EncodeScanRequest(urls []string) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart(FieldURLs)
	e.ArrStart()
	for _, u := range urls {
		e.Str(u)
	}
	e.ArrEnd()
	e.ObjEnd()

	return e.Bytes()
}

// EncodeScanResponse returns the success body {"results": [...]}. Every result
// carries all contract keys; optional ones are encoded as null, {} or [].
func EncodeScanResponse(results []domain.ScanResult) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart(FieldResults)
	e.ArrStart()
	for i := range results {
		encodeResult(&e, &results[i])
	}
	e.ArrEnd()
	e.ObjEnd()

	return e.Bytes()
}

func encodeResult(e *jx.Encoder, r *domain.ScanResult) {
	e.ObjStart()

	e.FieldStart(FieldURL)
	e.Str(r.URL)

	e.FieldStart(FieldStatus)
	e.Str(string(r.Status))

	e.FieldStart(FieldStatusCode)
	if r.StatusCode != nil {
		e.Int(*r.StatusCode)
	} else {
		e.Null()
	}

	e.FieldStart(FieldHeaders)
	e.ObjStart()
	for _, h := range r.Headers {
		e.FieldStart(h.Name)
		if h.Value.Kind == domain.ValueString {
			e.Str(h.Value.Raw)
		} else {
			e.Raw([]byte(h.Value.Raw))
		}
	}
	e.ObjEnd()

	e.FieldStart(FieldMissingHeaders)
	e.ArrStart()
	for _, name := range r.MissingHeaders {
		e.Str(name)
	}
	e.ArrEnd()

	e.FieldStart(FieldError)
	if r.Error != "" {
		e.Str(r.Error)
	} else {
		e.Null()
	}

	e.ObjEnd()
}

// EncodeError returns an error body {"error": msg} with an optional
// "details" field.
func EncodeError(msg, details string) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart(FieldError)
	e.Str(msg)
	if details != "" {
		e.FieldStart(FieldDetails)
		e.Str(details)
	}
	e.ObjEnd()

	return e.Bytes()
}

// DecodeScanResponse parses a success body. A missing or null "results" field
// yields a nil slice. Unknown fields are ignored. Anything but whitespace
// after the top-level object is an error.
func DecodeScanResponse(b []byte) ([]domain.ScanResult, error) {
	b = bytes.TrimSpace(b)
	if err := jx.DecodeBytes(b).Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid json")
	}

	d := jx.DecodeBytes(b)
	if d.Next() != jx.Object {
		return nil, errors.New("response is not a JSON object")
	}

	var results []domain.ScanResult
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != FieldResults {
			return d.Skip()
		}
		if d.Next() == jx.Null {
			return d.Null()
		}
		results = []domain.ScanResult{}

		return d.Arr(func(d *jx.Decoder) error {
			r, err := decodeResult(d)
			if err != nil {
				return errors.Wrapf(err, "result %d", len(results))
			}
			results = append(results, r)

			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode results")
	}

	return results, nil
}

func decodeResult(d *jx.Decoder) (domain.ScanResult, error) {
	var r domain.ScanResult
	if d.Next() != jx.Object {
		return r, errors.Errorf("expected object, got %s", d.Next())
	}

	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case FieldURL:
			r.URL, err = decodeText(d)
		case FieldStatus:
			var s string
			s, err = decodeText(d)
			r.Status = domain.ScanStatus(s)
		case FieldStatusCode:
			r.StatusCode, err = decodeStatusCode(d)
		case FieldHeaders:
			r.Headers, err = decodeHeaders(d)
		case FieldMissingHeaders:
			r.MissingHeaders, err = decodeMissing(d)
		case FieldError:
			r.Error, err = decodeText(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}

		return nil
	})

	return r, err
}

// decodeText reads a value meant to be shown as text. Strings are returned
// as is, null as "", anything else as its JSON text.
func decodeText(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Null:
		return "", d.Null()
	default:
		raw, err := d.Raw()
		if err != nil {
			return "", err
		}

		return strings.TrimSpace(raw.String()), nil
	}
}

// decodeStatusCode accepts any JSON number with an integral value within the
// HTTP status range, so 200, 200.0 and 2e2 all read as 200. Other numbers and
// non-numbers read as absent.
func decodeStatusCode(d *jx.Decoder) (*int, error) {
	if d.Next() != jx.Number {
		return nil, d.Skip()
	}
	f, err := d.Float64()
	if err != nil {
		return nil, err
	}
	if f != math.Trunc(f) || f < 0 || f > maxStatusCode {
		return nil, nil //nolint: nilnil
	}
	code := int(f)

	return &code, nil
}

func decodeHeaders(d *jx.Decoder) ([]domain.Header, error) {
	if d.Next() != jx.Object {
		return nil, d.Skip()
	}

	// a repeated name keeps its first position and its last value
	headers := []domain.Header{}
	seen := map[string]int{}
	err := d.Obj(func(d *jx.Decoder, name string) error {
		v, err := decodeHeaderValue(d)
		if err != nil {
			return err
		}
		if i, ok := seen[name]; ok {
			headers[i].Value = v

			return nil
		}
		seen[name] = len(headers)
		headers = append(headers, domain.Header{Name: name, Value: v})

		return nil
	})

	return headers, err
}

func decodeHeaderValue(d *jx.Decoder) (domain.HeaderValue, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()

		return domain.StringValue(s), err
	case jx.Object, jx.Array:
		raw, err := d.Raw()
		if err != nil {
			return domain.HeaderValue{}, err
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return domain.HeaderValue{}, err
		}

		return domain.HeaderValue{Raw: buf.String(), Kind: domain.ValueComposite}, nil
	default:
		raw, err := d.Raw()
		if err != nil {
			return domain.HeaderValue{}, err
		}

		return domain.HeaderValue{Raw: strings.TrimSpace(raw.String()), Kind: domain.ValueScalar}, nil
	}
}

func decodeMissing(d *jx.Decoder) ([]string, error) {
	if d.Next() != jx.Array {
		return nil, d.Skip()
	}

	names := []string{}
	err := d.Arr(func(d *jx.Decoder) error {
		name, err := decodeText(d)
		if err != nil {
			return err
		}
		names = append(names, name)

		return nil
	})

	return names, err
}

// DecodeErrorMessage extracts the "error" field of an error body. It returns
// "" when the body is empty, not a JSON object, or the field is missing, not
// a string or empty.
func DecodeErrorMessage(b []byte) string {
	d := jx.DecodeBytes(b)
	if d.Next() != jx.Object {
		return ""
	}

	var msg string
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != FieldError || d.Next() != jx.String {
			return d.Skip()
		}
		s, err := d.Str()
		if err != nil {
			return err
		}
		msg = s

		return nil
	})
	if err != nil {
		return ""
	}

	return msg
}
