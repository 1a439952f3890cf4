package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/anish/devshowcase/internal/domain"
	"github.com/anish/devshowcase/internal/testutil"
	"github.com/stretchr/testify/require"
)

type filePart struct {
	field string
	name  string
	data  string
}

func multipartBody(t *testing.T, fields map[string]string, files ...filePart) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.data))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func doMultipart(t *testing.T, ts *testutil.TestServer, method, path string, fields map[string]string, files ...filePart) *http.Response {
	t.Helper()

	body, contentType := multipartBody(t, fields, files...)
	req, err := http.NewRequest(method, ts.URL(path), body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func postJSON(t *testing.T, ts *testutil.TestServer, path string, payload any) *http.Response {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := ts.Client.Post(ts.URL(path), "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

// postPlainJSON sends a request through an arbitrary client, bypassing the
// test server's cookie jar.
func postPlainJSON(t *testing.T, client *http.Client, fullURL string, payload any) *http.Response {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := client.Post(fullURL, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, ts *testutil.TestServer, path string) *http.Response {
	t.Helper()

	resp, err := ts.Client.Get(ts.URL(path))
	require.NoError(t, err)
	return resp
}

type authPayload struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// login authenticates through the HTTP API so the client's cookie jar picks
// up the auth cookies, mirroring a browser session.
func login(t *testing.T, ts *testutil.TestServer, identifier, password string) *authPayload {
	t.Helper()

	resp := postJSON(t, ts, "/users/login", map[string]string{
		"identifier": identifier,
		"password":   password,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload authPayload
	testutil.AssertSuccessResponse(t, resp, &payload)
	return &payload
}

// createAndLogin seeds a user directly in the repository and signs it in.
func createAndLogin(t *testing.T, ts *testutil.TestServer) *domain.User {
	t.Helper()

	user, password := testutil.NewUserBuilder().Build(t, ts.Repos.User)
	login(t, ts, user.Username, password)
	return user
}
