package server

import (
	"net/http"
	"net/url"
	"testing"

	"implantstock/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.post("/register", url.Values{
		"username":         {"dr_kim"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Nil(t, cookieNamed(resp, "session"), "registration must not start a session")

	flash := cookieNamed(resp, "flash")
	require.NotNil(t, flash)

	page := env.get("/login", flash)
	require.Equal(t, http.StatusOK, page.StatusCode)
	var view formViewBody
	decodeBody(t, page, &view)
	assert.Equal(t, "login", view.Page)
	assert.Equal(t, []Flash{{Category: FlashSuccess, Message: msgRegistered}}, view.Flashes)
	cleared := cookieNamed(page, "flash")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	resp = env.post("/login", url.Values{"username": {"dr_kim"}, "password": {"secret1"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	session := cookieNamed(resp, "session")
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	var list listViewBody
	decodeBody(t, env.get("/", session), &list)
	assert.Equal(t, "dr_kim", list.User.Username)
	assert.Empty(t, list.Implants)
	assert.Equal(t, models.CommonBrands, list.CommonBrands)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t, false)
	env.register("dr_kim", "secret1")

	for _, form := range []url.Values{
		{"username": {"dr_kim"}, "password": {"wrong"}},
		{"username": {"nobody"}, "password": {"secret1"}},
	} {
		resp := env.post("/login", form)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		session := cookieNamed(resp, "session")
		assert.True(t, session == nil || session.Value == "")

		var view formViewBody
		decodeBody(t, resp, &view)
		assert.Equal(t, "Invalid username or password", view.Error)
		assert.Equal(t, []Flash{{Category: FlashDanger, Message: "Invalid username or password"}}, view.Flashes)
		assert.Equal(t, form.Get("username"), view.Form["username"])
	}
}

func TestLogin_Next(t *testing.T) {
	env := newTestEnv(t, false)
	env.register("dr_kim", "secret1")

	tests := []struct {
		next     string
		location string
	}{
		{"", "/"},
		{"/add?search=Astra", "/add?search=Astra"},
		{"//evil.example", "/"},
		{"https://evil.example/", "/"},
		{`/\evil.example`, "/"},
		{"/\t/evil.example", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			path := "/login"
			if tt.next != "" {
				path += "?next=" + url.QueryEscape(tt.next)
			}
			resp := env.post(path, url.Values{"username": {"dr_kim"}, "password": {"secret1"}})
			require.Equal(t, http.StatusSeeOther, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get("Location"))
		})
	}
}

func TestRegister_Rejections(t *testing.T) {
	env := newTestEnv(t, false)
	env.register("taken", "secret1")

	tests := []struct {
		name    string
		form    url.Values
		status  int
		message string
	}{
		{
			name:    "passwords differ",
			form:    url.Values{"username": {"dr_lee"}, "password": {"a1"}, "confirm_password": {"a2"}},
			status:  http.StatusBadRequest,
			message: "Passwords do not match",
		},
		{
			name:    "username taken",
			form:    url.Values{"username": {"taken"}, "password": {"x"}, "confirm_password": {"x"}},
			status:  http.StatusConflict,
			message: "Username already exists",
		},
		{
			name:    "empty username",
			form:    url.Values{"username": {""}, "password": {"x"}, "confirm_password": {"x"}},
			status:  http.StatusBadRequest,
			message: "Username is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.post("/register", tt.form)
			require.Equal(t, tt.status, resp.StatusCode)
			var view formViewBody
			decodeBody(t, resp, &view)
			assert.Equal(t, "register", view.Page)
			assert.Equal(t, []Flash{{Category: FlashDanger, Message: tt.message}}, view.Flashes)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthenticatedUsersSkipLoginAndRegister(t *testing.T) {
	env := newTestEnv(t, false)
	session := env.login("dr_kim", "secret1")

	for _, path := range []string{"/login", "/register"} {
		resp := env.get(path, session)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/", resp.Header.Get("Location"), path)
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t, false)

	t.Run("browser is sent to login", func(t *testing.T) {
		resp := env.get("/?search=Astra")
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login?next="+url.QueryEscape("/?search=Astra"), resp.Header.Get("Location"))

		flash := cookieNamed(resp, "flash")
		require.NotNil(t, flash)
		var view formViewBody
		decodeBody(t, env.get("/login", flash), &view)
		assert.Equal(t, []Flash{{Category: FlashInfo, Message: msgLoginRequired}}, view.Flashes)
	})

	t.Run("json client gets 401", func(t *testing.T) {
		resp := env.getJSON("/profile")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("bearer token works like the cookie", func(t *testing.T) {
		token, _, err := env.srv.sessions.Issue(999)
		require.NoError(t, err)
		req := httpGet("/profile")
		req.Header.Set("Authorization", "Bearer "+token)
		// user 999 does not exist
		assert.Equal(t, http.StatusUnauthorized, env.do(req).StatusCode)

		session := env.login("dr_kim", "secret1")
		req = httpGet("/profile")
		req.Header.Set("Authorization", "Bearer "+session.Value)
		assert.Equal(t, http.StatusOK, env.do(req).StatusCode)
	})

	t.Run("tampered cookie", func(t *testing.T) {
		resp := env.get("/", &http.Cookie{Name: "session", Value: "not-a-token"})
		require.Equal(t, http.StatusFound, resp.StatusCode)
		cleared := cookieNamed(resp, "session")
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, true)
	session := env.login("dr_kim", "secret1")

	resp := env.get("/logout", session)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	cleared := cookieNamed(resp, "session")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	var view formViewBody
	decodeBody(t, env.get("/login", cookieNamed(resp, "flash")), &view)
	assert.Equal(t, []Flash{{Category: FlashInfo, Message: msgLoggedOut}}, view.Flashes)

	// The old token is revoked even if a client kept it.
	resp = env.get("/", session)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                    "/",
		"/":                   "/",
		"/edit/3?search=x":    "/edit/3?search=x",
		"//evil.example":      "/",
		"http://evil.example": "/",
		`/\evil.example`:      "/",
		"relative":            "/",
		"/\t/evil.example":    "/",
		"/\n/evil.example":    "/",
		"/\r\n/evil.example":  "/",
		"/a\x00b":             "/",
		"/profile#top":        "/profile#top",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeNext(in), in)
	}
}
