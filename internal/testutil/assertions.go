package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the API's uniform response shape with the data payload
// left raw for the caller to decode.
type Envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

// ReadBody drains and returns the response body.
func ReadBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	return body
}

// AssertSuccessResponse decodes a success envelope and unmarshals its data
// payload into v (which may be nil when the payload is irrelevant).
func AssertSuccessResponse(t *testing.T, resp *http.Response, v any) []byte {
	t.Helper()

	body := ReadBody(t, resp)

	var env Envelope
	require.NoError(t, json.Unmarshal(body, &env), "failed to unmarshal envelope: %s", string(body))
	assert.True(t, env.Success, "expected success envelope: %s", string(body))
	assert.Equal(t, resp.StatusCode, env.StatusCode, "envelope status mismatch")

	if v != nil {
		require.NoError(t, json.Unmarshal(env.Data, v), "failed to unmarshal data: %s", string(env.Data))
	}
	return body
}

// AssertErrorResponse verifies an error envelope's status and message.
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var env Envelope
	body := ReadBody(t, resp)
	require.NoError(t, json.Unmarshal(body, &env), "failed to unmarshal envelope: %s", string(body))

	assert.False(t, env.Success, "expected error envelope")
	assert.Equal(t, expectedStatus, env.StatusCode, "envelope status mismatch")
	if expectedMessage != "" {
		assert.Contains(t, env.Message, expectedMessage, "error message mismatch")
	}
}

// AssertNoSensitiveFields fails if a serialized user or project leaks the
// password hash or refresh token.
func AssertNoSensitiveFields(t *testing.T, body []byte) {
	t.Helper()
	assert.NotContains(t, string(body), `"password"`, "response leaks password field")
	assert.NotContains(t, string(body), `"refreshToken":"ey`, "response leaks refresh token")
}
