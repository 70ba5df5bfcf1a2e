package wire_test

import (
	"encoding/json"
	"secheaders/pkg/domain"
	"secheaders/pkg/wire"
	"testing"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestEncodeScanRequest(t *testing.T) {
	body := wire.EncodeScanRequest([]string{"https://b.example", "https://a.example", "https://b.example"})

	var got struct {
		URLs []string `json:"urls"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, []string{"https://b.example", "https://a.example", "https://b.example"}, got.URLs)
}

func TestEncodeScanRequest_EscapesStrings(t *testing.T) {
	body := wire.EncodeScanRequest([]string{`https://a.example/?q="x"`})
	require.JSONEq(t, `{"urls":["https://a.example/?q=\"x\""]}`, string(body))
}

func TestDecodeScanResponse_PreservesHeaderOrder(t *testing.T) {
	body := `{"results":[{"url":"https://a.example","status":"success","status_code":200,
		"headers":{"X-Frame-Options":"DENY","Content-Security-Policy":"default-src 'self'","Cache-Control":"no-store"},
		"missing_headers":["Expect-CT","Feature-Policy"],"error":null}]}`

	results, err := wire.DecodeScanResponse([]byte(body))
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	require.Equal(t, "https://a.example", r.URL)
	require.True(t, r.Succeeded())
	require.Equal(t, intPtr(200), r.StatusCode)
	require.Equal(t, []domain.Header{
		{Name: "X-Frame-Options", Value: domain.StringValue("DENY")},
		{Name: "Content-Security-Policy", Value: domain.StringValue("default-src 'self'")},
		{Name: "Cache-Control", Value: domain.StringValue("no-store")},
	}, r.Headers)
	require.Equal(t, []string{"Expect-CT", "Feature-Policy"}, r.MissingHeaders)
	require.Empty(t, r.Error)
}

func TestDecodeScanResponse_FailureAndNulls(t *testing.T) {
	body := `{"results":[
		{"url":"not a url","status":"error","status_code":null,"headers":{},"missing_headers":[],"error":"Invalid URL format"},
		{"url":"https://b.example","status":"success"}
	]}`

	results, err := wire.DecodeScanResponse([]byte(body))
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.False(t, results[0].Succeeded())
	require.Nil(t, results[0].StatusCode)
	require.Equal(t, "Invalid URL format", results[0].Error)
	require.Empty(t, results[0].Headers)

	require.True(t, results[1].Succeeded())
	require.Nil(t, results[1].StatusCode)
	require.Nil(t, results[1].Headers)
	require.Nil(t, results[1].MissingHeaders)
}

func TestDecodeScanResponse_NonStringHeaderValues(t *testing.T) {
	body := `{"results":[{"url":"u","status":"success","headers":{"A":42,"B":true,"C":null,"D":{ "x" : "<b>" },"E":[1, 2]}}]}`

	results, err := wire.DecodeScanResponse([]byte(body))
	require.NoError(t, err)
	require.Equal(t, []domain.Header{
		{Name: "A", Value: domain.HeaderValue{Raw: "42", Kind: domain.ValueScalar}},
		{Name: "B", Value: domain.HeaderValue{Raw: "true", Kind: domain.ValueScalar}},
		{Name: "C", Value: domain.HeaderValue{Raw: "null", Kind: domain.ValueScalar}},
		{Name: "D", Value: domain.HeaderValue{Raw: `{"x":"<b>"}`, Kind: domain.ValueComposite}},
		{Name: "E", Value: domain.HeaderValue{Raw: `[1,2]`, Kind: domain.ValueComposite}},
	}, results[0].Headers)
}

func TestDecodeScanResponse_StatusCodeNumberForms(t *testing.T) {
	tests := []struct {
		code string
		want *int
	}{
		{code: `200`, want: intPtr(200)},
		{code: `200.0`, want: intPtr(200)},
		{code: `2e2`, want: intPtr(200)},
		{code: `3.01E2`, want: intPtr(301)},
		{code: `0`, want: intPtr(0)},
		{code: `200.5`, want: nil},
		{code: `-1`, want: nil},
		{code: `1e9`, want: nil},
		{code: `"200"`, want: nil},
		{code: `null`, want: nil},
	}

	for _, tt := range tests {
		body := `{"results":[{"url":"u","status":"success","status_code":` + tt.code + `,"headers":{"A":"1"}}]}`
		results, err := wire.DecodeScanResponse([]byte(body))
		require.NoError(t, err, tt.code)
		require.Len(t, results, 1, tt.code)
		require.Equal(t, tt.want, results[0].StatusCode, tt.code)
		require.Len(t, results[0].Headers, 1, tt.code)
	}
}

func TestDecodeScanResponse_DuplicateHeaderNames(t *testing.T) {
	body := `{"results":[{"url":"u","status":"success","headers":{"A":"1","B":"x","A":"2","a":"3"}}]}`

	results, err := wire.DecodeScanResponse([]byte(body))
	require.NoError(t, err)
	require.Equal(t, []domain.Header{
		{Name: "A", Value: domain.StringValue("2")},
		{Name: "B", Value: domain.StringValue("x")},
		{Name: "a", Value: domain.StringValue("3")},
	}, results[0].Headers)
}

func TestDecodeScanResponse_TrailingData(t *testing.T) {
	for _, body := range []string{`{"results":[]} garbage`, `{"results":[]}{}`, `{"results":[]}]`} {
		_, err := wire.DecodeScanResponse([]byte(body))
		require.Error(t, err, body)
	}

	for _, body := range []string{"{\"results\":[]}\n", " \t{\"results\":[]}\r\n "} {
		results, err := wire.DecodeScanResponse([]byte(body))
		require.NoError(t, err, body)
		require.Empty(t, results)
	}
}

func TestDecodeScanResponse_ResultsAbsentOrEmpty(t *testing.T) {
	for _, body := range []string{`{}`, `{"results":null}`, `{"other":1}`} {
		results, err := wire.DecodeScanResponse([]byte(body))
		require.NoError(t, err, body)
		require.Nil(t, results, body)
	}

	results, err := wire.DecodeScanResponse([]byte(`{"results":[]}`))
	require.NoError(t, err)
	require.NotNil(t, results)
	require.Empty(t, results)
}

func TestDecodeScanResponse_Malformed(t *testing.T) {
	for _, body := range []string{``, `null`, `[]`, `{"results":`, `{"results":"nope"}`, `{"results":[1]}`, `<html>`} {
		_, err := wire.DecodeScanResponse([]byte(body))
		require.Error(t, err, body)
	}
}

func TestDecodeErrorMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{body: `{"error":"rate limited"}`, want: "rate limited"},
		{body: `{"details":"x","error":"Invalid request format"}`, want: "Invalid request format"},
		{body: `{"error":""}`, want: ""},
		{body: `{"error":42}`, want: ""},
		{body: `{"message":"nope"}`, want: ""},
		{body: ``, want: ""},
		{body: `Internal Server Error`, want: ""},
		{body: `{"error":"truncated`, want: ""},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, wire.DecodeErrorMessage([]byte(tt.body)), tt.body)
	}
}

func TestScanResponse_RoundTrip(t *testing.T) {
	in := []domain.ScanResult{
		{
			URL:        "https://a.example",
			Status:     domain.ScanStatusSuccess,
			StatusCode: intPtr(301),
			Headers: []domain.Header{
				{Name: "Strict-Transport-Security", Value: domain.StringValue("max-age=63072000")},
				{Name: "Set-Cookie", Value: domain.StringValue("a=1, b=2")},
			},
			MissingHeaders: []string{"Expect-CT"},
		},
		{
			URL:    "https://down.example",
			Status: domain.ScanStatusError,
			Error:  "Connection error",
		},
	}

	body := wire.EncodeScanResponse(in)
	out, err := wire.DecodeScanResponse(body)
	require.NoError(t, err)

	require.Equal(t, in[0], out[0])
	require.Equal(t, "https://down.example", out[1].URL)
	require.Equal(t, "Connection error", out[1].Error)
	require.Nil(t, out[1].StatusCode)
	require.Empty(t, out[1].Headers)
	require.Empty(t, out[1].MissingHeaders)
}

func TestEncodeScanResponse_AlwaysCarriesAllKeys(t *testing.T) {
	body := wire.EncodeScanResponse([]domain.ScanResult{{URL: "u", Status: domain.ScanStatusError, Error: "Request timed out"}})
	require.JSONEq(t,
		`{"results":[{"url":"u","status":"error","status_code":null,"headers":{},"missing_headers":[],"error":"Request timed out"}]}`,
		string(body))
}

func TestEncodeError(t *testing.T) {
	require.JSONEq(t, `{"error":"No data provided"}`, string(wire.EncodeError("No data provided", "")))
	require.JSONEq(t, `{"error":"Invalid request format","details":"missing urls"}`,
		string(wire.EncodeError("Invalid request format", "missing urls")))
}
