package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authcore "github.com/lumenlms/authcore"
	"github.com/lumenlms/authcore/directory"
)

// captureMailer records the last activation code instead of sending mail.
type captureMailer struct {
	mu    sync.Mutex
	email string
	code  string
}

func (m *captureMailer) SendActivation(ctx context.Context, email, name, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.email, m.code = email, code
	return nil
}

func (m *captureMailer) lastCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.code
}

type env struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
	users  *directory.Memory
	mailer *captureMailer
	mr     *miniredis.Miniredis
	auth   *authcore.Authenticator
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	auth, err := authcore.New(authcore.Config{
		Token: authcore.TokenConfig{
			AccessSecret:     []byte("access-secret"),
			RefreshSecret:    []byte("refresh-secret"),
			ActivationSecret: []byte("activation-secret"),
		},
	}, rdb)
	require.NoError(t, err)

	users := directory.NewMemory()
	mailer := &captureMailer{}
	srv := httptest.NewServer(New(auth, users, mailer, zerolog.Nop()).Router())

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		srv.Close()
		rdb.Close()
		mr.Close()
	})
	return &env{
		t:      t,
		srv:    srv,
		client: &http.Client{Jar: jar},
		users:  users,
		mailer: mailer,
		mr:     mr,
		auth:   auth,
	}
}

func (e *env) postJSON(path string, body interface{}) *http.Response {
	e.t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(e.t, err)
	resp, err := e.client.Post(e.srv.URL+path, "application/json", bytes.NewReader(buf))
	require.NoError(e.t, err)
	return resp
}

func (e *env) putJSON(path string, body interface{}) *http.Response {
	e.t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(e.t, err)
	req, err := http.NewRequest(http.MethodPut, e.srv.URL+path, bytes.NewReader(buf))
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.client.Do(req)
	require.NoError(e.t, err)
	return resp
}

func (e *env) get(path string) *http.Response {
	e.t.Helper()
	resp, err := e.client.Get(e.srv.URL + path)
	require.NoError(e.t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// registerAndActivate drives the two-step signup and returns the credentials.
func (e *env) registerAndActivate(name, email, password string) {
	e.t.Helper()

	resp := e.postJSON("/api/v1/registration", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(e.t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(e.t, resp)
	require.Equal(e.t, true, body["success"])
	require.NotEmpty(e.t, body["activationToken"])

	resp = e.postJSON("/api/v1/activate-user", map[string]string{
		"activation_Token": body["activationToken"].(string),
		"activation_Code":  e.mailer.lastCode(),
	})
	require.Equal(e.t, http.StatusCreated, resp.StatusCode)
	require.Equal(e.t, "Account activated successfully", decodeBody(e.t, resp)["message"])
}

func (e *env) login(email, password string) map[string]interface{} {
	e.t.Helper()
	resp := e.postJSON("/api/v1/login", map[string]string{"email": email, "password": password})
	require.Equal(e.t, http.StatusOK, resp.StatusCode)
	return decodeBody(e.t, resp)
}

// seedAdmin plants an already verified admin account in the directory.
func (e *env) seedAdmin(email, password string) {
	e.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(e.t, err)
	require.NoError(e.t, e.users.Create(context.Background(), &directory.User{
		ID:           "admin-1",
		Name:         "Root",
		Email:        email,
		PasswordHash: string(hash),
		Role:         "admin",
		IsVerified:   true,
	}))
}

func TestSignupLoginFlow(t *testing.T) {
	e := newEnv(t)
	e.registerAndActivate("Ada", "ada@example.com", "hunter22")

	body := e.login("ada@example.com", "hunter22")
	require.Equal(t, true, body["success"])
	require.NotEmpty(t, body["accessToken"])
	require.NotEmpty(t, body["refreshToken"])

	user := body["user"].(map[string]interface{})
	require.Equal(t, "ada@example.com", user["email"])
	require.Equal(t, "user", user["role"])
	require.Equal(t, true, user["isVerified"])

	// Login upserted the session record under the user's id.
	require.True(t, e.mr.Exists("user:"+user["_id"].(string)))

	resp := e.get("/api/v1/me")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeBody(t, resp)
	require.Equal(t, "ada@example.com", me["user"].(map[string]interface{})["email"])
}

func TestProtectedRouteWithoutCookies(t *testing.T) {
	e := newEnv(t)

	resp := e.get("/api/v1/me")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Please log in to access this resource", body["message"])
}

func TestRegistrationRejectsDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	e.registerAndActivate("Ada", "ada@example.com", "hunter22")

	resp := e.postJSON("/api/v1/registration", map[string]string{
		"name": "Imposter", "email": "ada@example.com", "password": "x",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Email already exist", decodeBody(t, resp)["message"])
}

func TestActivationRejectsWrongCode(t *testing.T) {
	e := newEnv(t)

	resp := e.postJSON("/api/v1/registration", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tok := decodeBody(t, resp)["activationToken"].(string)

	// Codes are drawn from [1000, 9999], so "0000" never matches.
	resp = e.postJSON("/api/v1/activate-user", map[string]string{
		"activation_Token": tok,
		"activation_Code":  "0000",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid activation code", decodeBody(t, resp)["message"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e := newEnv(t)
	e.registerAndActivate("Ada", "ada@example.com", "hunter22")

	resp := e.postJSON("/api/v1/login", map[string]string{
		"email": "ada@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid email or password", decodeBody(t, resp)["message"])

	resp = e.postJSON("/api/v1/login", map[string]string{"email": "ada@example.com"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Please enter email and password", decodeBody(t, resp)["message"])
}

func TestSocialAuthCreatesThenReusesAccount(t *testing.T) {
	e := newEnv(t)

	resp := e.postJSON("/api/v1/social-auth", map[string]string{
		"email": "gh@example.com", "name": "Hubber",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decodeBody(t, resp)["user"].(map[string]interface{})["_id"].(string)

	resp = e.postJSON("/api/v1/social-auth", map[string]string{
		"email": "gh@example.com", "name": "Hubber",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, first, decodeBody(t, resp)["user"].(map[string]interface{})["_id"])

	// Password login is closed for social accounts.
	resp = e.postJSON("/api/v1/login", map[string]string{
		"email": "gh@example.com", "password": "anything",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid email or password", decodeBody(t, resp)["message"])
}

func TestMetricsRequiresAdminRole(t *testing.T) {
	e := newEnv(t)
	e.registerAndActivate("Ada", "ada@example.com", "hunter22")
	e.login("ada@example.com", "hunter22")

	resp := e.get("/api/v1/metrics")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "Role (user) is not allowed to access this resource", decodeBody(t, resp)["message"])

	e.seedAdmin("root@example.com", "s3cret")
	e.login("root@example.com", "s3cret")

	resp = e.get("/api/v1/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeBody(t, resp)
	require.NotEmpty(t, snap)
}

func TestLogoutEndsSession(t *testing.T) {
	e := newEnv(t)
	e.registerAndActivate("Ada", "ada@example.com", "hunter22")
	body := e.login("ada@example.com", "hunter22")
	id := body["user"].(map[string]interface{})["_id"].(string)

	resp := e.get("/api/v1/logout")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Logged out successfully", decodeBody(t, resp)["message"])
	require.False(t, e.mr.Exists("user:"+id))

	resp = e.get("/api/v1/me")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshEndpoint(t *testing.T) {
	e := newEnv(t)

	resp := e.get("/api/v1/refresh")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Please log in to access this resource", decodeBody(t, resp)["message"])

	e.registerAndActivate("Ada", "ada@example.com", "hunter22")
	first := e.login("ada@example.com", "hunter22")

	resp = e.get("/api/v1/refresh")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])
	require.NotEmpty(t, body["accessToken"])
	require.NotEqual(t, first["accessToken"], body["accessToken"])

	// A fresh refresh token sits above the renewal window and is not rotated.
	require.Equal(t, first["refreshToken"], body["refreshToken"])
}

func TestUpdateUserInfoSyncsSession(t *testing.T) {
	e := newEnv(t)
	e.registerAndActivate("Ada", "ada@example.com", "hunter22")
	e.login("ada@example.com", "hunter22")

	resp := e.putJSON("/api/v1/update-user-info", map[string]string{
		"name": "Ada L.", "email": "lovelace@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Ada L.", decodeBody(t, resp)["user"].(map[string]interface{})["name"])

	// The live session record, not the token claim, drives /me.
	resp = e.get("/api/v1/me")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeBody(t, resp)["user"].(map[string]interface{})
	require.Equal(t, "lovelace@example.com", me["email"])
	require.Equal(t, "Ada L.", me["name"])
}

func TestUpdateUserInfoRejectsTakenEmail(t *testing.T) {
	e := newEnv(t)
	e.registerAndActivate("Ada", "ada@example.com", "hunter22")
	e.registerAndActivate("Bob", "bob@example.com", "hunter22")
	e.login("ada@example.com", "hunter22")

	resp := e.putJSON("/api/v1/update-user-info", map[string]string{
		"email": "bob@example.com",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Email already exists", decodeBody(t, resp)["message"])
}

func TestUpdatePassword(t *testing.T) {
	e := newEnv(t)
	e.registerAndActivate("Ada", "ada@example.com", "hunter22")
	e.login("ada@example.com", "hunter22")

	resp := e.putJSON("/api/v1/update-user-password", map[string]string{
		"oldPassword": "wrong", "newPassword": "n3wpass",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid old password", decodeBody(t, resp)["message"])

	resp = e.putJSON("/api/v1/update-user-password", map[string]string{
		"oldPassword": "hunter22", "newPassword": "n3wpass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Password updated successfully", decodeBody(t, resp)["message"])

	e.login("ada@example.com", "n3wpass")
}
