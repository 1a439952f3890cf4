package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/anish/devshowcase/internal/domain"
	"github.com/anish/devshowcase/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)

	// Stage the registration. Only an opaque reference comes back.
	resp := doMultipart(t, ts, http.MethodPost, "/users/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"githubId": "alice",
		"password": "password123",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var staged struct {
		RegistrationID string `json:"registrationId"`
		Email          string `json:"email"`
	}
	body := testutil.AssertSuccessResponse(t, resp, &staged)
	testutil.AssertNoSensitiveFields(t, body)
	assert.NotEmpty(t, staged.RegistrationID)
	assert.Equal(t, "alice@example.com", staged.Email)

	// No account yet: login must fail until the code is verified.
	loginResp := postJSON(t, ts, "/users/login", map[string]string{
		"identifier": "alice",
		"password":   "password123",
	})
	testutil.AssertErrorResponse(t, loginResp, http.StatusNotFound, "user not found")
	loginResp.Body.Close()

	// A wrong code is rejected without consuming the staged registration.
	wrongResp := postJSON(t, ts, "/users/verify-otp", map[string]string{
		"registrationId": staged.RegistrationID,
		"otp":            "000000",
	})
	testutil.AssertErrorResponse(t, wrongResp, http.StatusUnauthorized, "incorrect verification code")
	wrongResp.Body.Close()

	// The emailed code creates the account.
	verifyResp := postJSON(t, ts, "/users/verify-otp", map[string]string{
		"registrationId": staged.RegistrationID,
		"otp":            ts.Mailer.LastOTP(t),
	})
	defer verifyResp.Body.Close()
	require.Equal(t, http.StatusOK, verifyResp.StatusCode)

	var created domain.User
	verifyBody := testutil.AssertSuccessResponse(t, verifyResp, &created)
	testutil.AssertNoSensitiveFields(t, verifyBody)
	assert.Equal(t, "alice", created.Username)

	// And the credentials now work end to end.
	payload := login(t, ts, "alice", "password123")
	assert.Equal(t, created.ID, payload.User.ID)

	meResp := get(t, ts, "/users/me")
	defer meResp.Body.Close()
	var me domain.User
	meBody := testutil.AssertSuccessResponse(t, meResp, &me)
	testutil.AssertNoSensitiveFields(t, meBody)
	assert.Equal(t, "alice", me.Username)
}

func TestRegisterDuplicateIdentity(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, _ := testutil.NewUserBuilder().Build(t, ts.Repos.User)

	resp := doMultipart(t, ts, http.MethodPost, "/users/register", map[string]string{
		"username": user.Username,
		"email":    "other@example.com",
		"githubId": "otherhandle",
		"password": "password123",
	})
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusConflict, "already in use")
}

func TestRegisterValidationErrors(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := doMultipart(t, ts, http.MethodPost, "/users/register", map[string]string{
		"username": "alice",
	})
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "required")
}

func TestVerifyOTPExpiredCode(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := doMultipart(t, ts, http.MethodPost, "/users/register", map[string]string{
		"username": "bob",
		"email":    "bob@example.com",
		"githubId": "bob",
		"password": "password123",
	})
	var staged struct {
		RegistrationID string `json:"registrationId"`
	}
	testutil.AssertSuccessResponse(t, resp, &staged)
	resp.Body.Close()

	code := ts.Mailer.LastOTP(t)
	ts.PendingRepo().ExpireAll()

	verifyResp := postJSON(t, ts, "/users/verify-otp", map[string]string{
		"registrationId": staged.RegistrationID,
		"otp":            code,
	})
	defer verifyResp.Body.Close()
	testutil.AssertErrorResponse(t, verifyResp, http.StatusNotFound, "no pending registration")
}

func TestLoginSetsAuthCookies(t *testing.T) {
	ts := testutil.NewTestServer(t)
	createAndLogin(t, ts)

	serverURL, err := url.Parse(ts.Server.URL)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, cookie := range ts.Client.Jar.Cookies(serverURL) {
		names[cookie.Name] = true
	}
	assert.True(t, names["accessToken"], "access token cookie missing")
	assert.True(t, names["refreshToken"], "refresh token cookie missing")
}

func TestLoginFailures(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, _ := testutil.NewUserBuilder().Build(t, ts.Repos.User)

	t.Run("wrong password", func(t *testing.T) {
		resp := postJSON(t, ts, "/users/login", map[string]string{
			"identifier": user.Username,
			"password":   "wrong-password",
		})
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "incorrect password")
	})

	t.Run("unknown user", func(t *testing.T) {
		resp := postJSON(t, ts, "/users/login", map[string]string{
			"identifier": "nobody",
			"password":   "password123",
		})
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "user not found")
	})
}

func TestMeRequiresAuth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.URL("/users/me"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "authentication required")
}

func TestBearerHeaderFallback(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, password := testutil.NewUserBuilder().Build(t, ts.Repos.User)
	payload := login(t, ts, user.Username, password)

	// Non-browser clients send the access token as a bearer header instead
	// of a cookie.
	req, err := http.NewRequest(http.MethodGet, ts.URL("/users/me"), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+payload.AccessToken)

	resp, err := (&http.Client{}).Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me domain.User
	testutil.AssertSuccessResponse(t, resp, &me)
	assert.Equal(t, user.Username, me.Username)
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, password := testutil.NewUserBuilder().Build(t, ts.Repos.User)
	first := login(t, ts, user.Username, password)

	// Rotate via the cookie the jar carries.
	refreshResp := postJSON(t, ts, "/users/refresh-token", nil)
	defer refreshResp.Body.Close()
	require.Equal(t, http.StatusOK, refreshResp.StatusCode)

	var second authPayload
	testutil.AssertSuccessResponse(t, refreshResp, &second)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The pre-rotation token is dead. Use a jarless client so the new
	// cookie does not shadow the stale token in the body.
	plain := &http.Client{}
	staleResp := postPlainJSON(t, plain, ts.URL("/users/refresh-token"), map[string]string{
		"refreshToken": first.RefreshToken,
	})
	defer staleResp.Body.Close()
	testutil.AssertErrorResponse(t, staleResp, http.StatusUnauthorized, "expired or already used")

	// The current token still rotates cleanly.
	freshResp := postPlainJSON(t, plain, ts.URL("/users/refresh-token"), map[string]string{
		"refreshToken": second.RefreshToken,
	})
	defer freshResp.Body.Close()
	assert.Equal(t, http.StatusOK, freshResp.StatusCode)
}

func TestLogoutEndsSession(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, password := testutil.NewUserBuilder().Build(t, ts.Repos.User)
	payload := login(t, ts, user.Username, password)

	logoutResp := postJSON(t, ts, "/users/logout", nil)
	logoutResp.Body.Close()
	require.Equal(t, http.StatusOK, logoutResp.StatusCode)

	// Cookies are cleared, so authenticated routes reject the client.
	meResp := get(t, ts, "/users/me")
	defer meResp.Body.Close()
	testutil.AssertErrorResponse(t, meResp, http.StatusUnauthorized, "authentication required")

	// The stored refresh token is gone too.
	refreshResp := postPlainJSON(t, &http.Client{}, ts.URL("/users/refresh-token"), map[string]string{
		"refreshToken": payload.RefreshToken,
	})
	defer refreshResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, refreshResp.StatusCode)
}
