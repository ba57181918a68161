package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope matches the API success and error response shape
type Envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertSuccessData verifies a success envelope and decodes its data into v
func AssertSuccessData(t *testing.T, resp *http.Response, v interface{}) Envelope {
	t.Helper()

	var env Envelope
	AssertJSONResponse(t, resp, &env)
	assert.True(t, env.Success, "expected success envelope")
	assert.Equal(t, resp.StatusCode, env.StatusCode, "envelope status mismatch")

	if v != nil {
		require.NoError(t, json.Unmarshal(env.Data, v), "failed to unmarshal data: %s", string(env.Data))
	}
	return env
}

// AssertErrorResponse verifies an error envelope with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) Envelope {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var env Envelope
	AssertJSONResponse(t, resp, &env)
	assert.False(t, env.Success)
	if expectedMessage != "" {
		assert.Equal(t, expectedMessage, env.Message, "error message mismatch")
	}
	return env
}

// FindCookie returns the named cookie set by the response, or nil
func FindCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
