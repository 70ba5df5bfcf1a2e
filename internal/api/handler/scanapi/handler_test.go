package scanapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"secheaders/internal/api/handler/scanapi"
	mockheaderscan "secheaders/internal/headerscan/mock"
	"secheaders/pkg/domain"
	"secheaders/pkg/logger"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func setup(t *testing.T) (*scanapi.Handler, *mockheaderscan.MockScanner) {
	t.Helper()

	ctrl := gomock.NewController(t)
	scanner := mockheaderscan.NewMockScanner(ctrl)
	h, err := scanapi.New(scanner, 0)
	require.NoError(t, err)

	return h, scanner
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_success(t *testing.T) {
	h, scanner := setup(t)
	code := 200

	scanner.EXPECT().
		ScanAll(gomock.Any(), []string{"https://b.example", "not a url"}).
		Return([]domain.ScanResult{
			{
				URL:            "https://b.example",
				Status:         domain.ScanStatusSuccess,
				StatusCode:     &code,
				Headers:        []domain.Header{{Name: "X-Frame-Options", Value: domain.StringValue("DENY")}},
				MissingHeaders: []string{"Content-Security-Policy"},
			},
			{URL: "not a url", Status: domain.ScanStatusError, Error: "Invalid URL format"},
		}, nil)

	rec := post(h, `{"urls":["https://b.example","not a url"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"results":[
		{"url":"https://b.example","status":"success","status_code":200,"headers":{"X-Frame-Options":"DENY"},
		 "missing_headers":["Content-Security-Policy"],"error":null},
		{"url":"not a url","status":"error","status_code":null,"headers":{},"missing_headers":[],"error":"Invalid URL format"}
	]}`, rec.Body.String())
}

func TestHandler_debugLogCountsFailures(t *testing.T) {
	results := []domain.ScanResult{
		{URL: "https://a.example", Status: domain.ScanStatusSuccess},
		{URL: "b", Status: domain.ScanStatusError, Error: "Invalid URL format"},
		{URL: "c", Status: domain.ScanStatusError, Error: "Connection error"},
	}

	for _, level := range []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel} {
		h, scanner := setup(t)
		scanner.EXPECT().ScanAll(gomock.Any(), gomock.Any()).Return(results, nil)

		core, logs := observer.New(level)
		req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{"urls":["https://a.example","b","c"]}`))
		req = req.WithContext(logger.WithLogger(req.Context(), zap.New(core)))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		entries := logs.FilterMessage("scanned urls").All()
		if level == zapcore.InfoLevel {
			require.Empty(t, entries)

			continue
		}
		require.Len(t, entries, 1)
		require.Equal(t, int64(3), entries[0].ContextMap()["count"])
		require.Equal(t, int64(2), entries[0].ContextMap()["failed"])
	}
}

func TestHandler_noData(t *testing.T) {
	for _, body := range []string{``, `  `, `null`, `{}`, `[]`, `""`, `0`, `false`} {
		h, _ := setup(t)

		rec := post(h, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		require.JSONEq(t, `{"error":"No data provided"}`, rec.Body.String(), body)
	}
}

func TestHandler_invalidFormat(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"urls":`},
		{name: "trailing data", body: `{"urls":["https://a.example"]} x`},
		{name: "missing urls", body: `{"targets":["https://a.example"]}`},
		{name: "empty list", body: `{"urls":[]}`},
		{name: "not a list", body: `{"urls":"https://a.example"}`},
		{name: "non-string item", body: `{"urls":["https://a.example", 42]}`},
		{name: "not an object", body: `["https://a.example"]`},
		{name: "number", body: `12`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setup(t)

			rec := post(h, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body struct {
				Error   string `json:"error"`
				Details string `json:"details"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, scanapi.InvalidFormatMessage, body.Error)
			require.NotEmpty(t, body.Details)
		})
	}
}

func TestHandler_bodyTooLarge(t *testing.T) {
	ctrl := gomock.NewController(t)
	h, err := scanapi.New(mockheaderscan.NewMockScanner(ctrl), 16)
	require.NoError(t, err)

	rec := post(h, `{"urls":["https://a.example","https://b.example"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), scanapi.InvalidFormatMessage)
}

func TestHandler_scanFailure(t *testing.T) {
	h, scanner := setup(t)

	scanner.EXPECT().ScanAll(gomock.Any(), gomock.Any()).Return(nil, errors.New("scan interrupted"))

	rec := post(h, `{"urls":["https://a.example"]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"Server error","details":"scan interrupted"}`, rec.Body.String())
}

func TestHandler_panic(t *testing.T) {
	h, scanner := setup(t)

	scanner.EXPECT().ScanAll(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, []string) ([]domain.ScanResult, error) {
			panic("boom")
		})

	rec := post(h, `{"urls":["https://a.example"]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"Server error","details":"boom"}`, rec.Body.String())
}
