// Package testutil holds helpers shared by handler, middleware, and CLI tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptacheck/pkg/platform/httputil"
)

// NewRequest builds a request with no body.
func NewRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest marshals body and sends it as application/json.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err, "marshal request body")
	return NewRequestWithBody(t, method, target, string(raw))
}

// NewRequestWithBody sends body verbatim, for payloads that are deliberately
// not valid JSON.
func NewRequestWithBody(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DoRequest serves req on h and returns the recorded reply.
func DoRequest(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// UnmarshalResponse decodes the reply body into T. The body is left intact
// so later assertions can read it again.
func UnmarshalResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&out), "decode response: %s", rr.Body.String())
	return &out
}

// UnmarshalErrorResponse decodes an error reply written by httputil.WriteError.
func UnmarshalErrorResponse(t *testing.T, rr *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	return *UnmarshalResponse[httputil.ErrorResponse](t, rr)
}

func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	assert.Equal(t, want, rr.Code, "status code; body: %s", rr.Body.String())
}

func AssertStatusOK(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	AssertStatus(t, rr, http.StatusOK)
}

// AssertStatusAndError checks the status and the machine-readable error code.
func AssertStatusAndError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	AssertStatus(t, rr, status)
	assert.Equal(t, code, UnmarshalErrorResponse(t, rr).Error, "error code")
}

// AssertJSONContains checks one top-level field of a JSON object reply.
func AssertJSONContains(t *testing.T, rr *httptest.ResponseRecorder, key string, want any) {
	t.Helper()
	fields := *UnmarshalResponse[map[string]any](t, rr)
	assert.Equal(t, want, fields[key], "field %q", key)
}
