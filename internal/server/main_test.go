package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"implantstock/internal/cache"
	"implantstock/internal/config"
	"implantstock/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

type testEnv struct {
	t   *testing.T
	srv *Server
	app *fiber.App
	db  *gorm.DB
	rdb *redis.Client
	mr  *miniredis.Miniredis
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:                "test",
		Port:               "0",
		JWTSecret:          testSecret,
		SessionTTLHours:    1,
		BcryptCost:         4,
		DBDriver:           "sqlite",
		DBPath:             filepath.Join(t.TempDir(), "inventory.db"),
		DBSchemaMode:       "auto",
		StockAlertsEnabled: true,
	}
}

// newTestEnv starts a server on a fresh SQLite file. withRedis adds a
// miniredis instance as cache, revocation store and alert bus.
func newTestEnv(t *testing.T, withRedis bool) *testEnv {
	t.Helper()

	cfg := testConfig(t)
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{t: t, db: db}
	if withRedis {
		env.mr = miniredis.RunT(t)
		env.rdb = redis.NewClient(&redis.Options{Addr: env.mr.Addr()})
		t.Cleanup(func() { _ = env.rdb.Close() })
	}
	cache.SetClient(env.rdb)
	t.Cleanup(func() { cache.SetClient(nil) })

	env.srv, err = NewServerWithDeps(cfg, db, env.rdb)
	require.NoError(t, err)
	env.app = env.srv.App()
	return env
}

func (e *testEnv) do(req *http.Request, cookies ...*http.Cookie) *http.Response {
	e.t.Helper()
	for _, c := range cookies {
		if c != nil && c.Value != "" {
			req.AddCookie(c)
		}
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	e.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *http.Response {
	e.t.Helper()
	return e.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (e *testEnv) getJSON(path string, cookies ...*http.Cookie) *http.Response {
	e.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	return e.do(req, cookies...)
}

func (e *testEnv) post(path string, form url.Values, cookies ...*http.Cookie) *http.Response {
	e.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return e.do(req, cookies...)
}

func (e *testEnv) register(username, password string) {
	e.t.Helper()
	resp := e.post("/register", url.Values{
		"username":         {username},
		"password":         {password},
		"confirm_password": {password},
	})
	require.Equal(e.t, http.StatusSeeOther, resp.StatusCode)
}

// login registers username and returns its session cookie.
func (e *testEnv) login(username, password string) *http.Cookie {
	e.t.Helper()
	e.register(username, password)
	resp := e.post("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(e.t, http.StatusSeeOther, resp.StatusCode)
	session := cookieNamed(resp, "session")
	require.NotNil(e.t, session)
	require.NotEmpty(e.t, session.Value)
	return session
}

func (e *testEnv) addImplant(session *http.Cookie, size, brand, stock, minStock string) uint {
	e.t.Helper()
	resp := e.post("/add", url.Values{
		"size":      {size},
		"brand":     {brand},
		"stock":     {stock},
		"min_stock": {minStock},
	}, session)
	require.Equal(e.t, http.StatusSeeOther, resp.StatusCode)

	var view listViewBody
	decodeBody(e.t, e.get("/?search="+url.QueryEscape(brand), session), &view)
	for _, implant := range view.Implants {
		if implant.Size == size && implant.Brand == brand {
			return implant.ID
		}
	}
	e.t.Fatalf("implant %s %s not listed after add", brand, size)
	return 0
}

func cookieNamed(resp *http.Response, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v), string(body))
}

type implantBody struct {
	ID         uint   `json:"id"`
	UserID     uint   `json:"user_id"`
	Size       string `json:"size"`
	Brand      string `json:"brand"`
	Stock      int    `json:"stock"`
	MinStock   int    `json:"min_stock"`
	IsLowStock bool   `json:"is_low_stock"`
}

type listViewBody struct {
	User struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
	Implants     []implantBody `json:"implants"`
	Sizes        []string      `json:"sizes"`
	Brands       []string      `json:"brands"`
	LowStock     []implantBody `json:"low_stock"`
	CommonBrands []string      `json:"common_brands"`
	Filters      Filters       `json:"filters"`
	Flashes      []Flash       `json:"flashes"`
}

type formViewBody struct {
	Page    string            `json:"page"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Form    map[string]string `json:"form"`
	Implant *implantBody      `json:"implant"`
	Filters *Filters          `json:"filters"`
	Flashes []Flash           `json:"flashes"`
}

func httpGet(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}
