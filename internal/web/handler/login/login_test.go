package login

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/config"
	"github.com/eirs-ng/vras/internal/db/models"
	websess "github.com/eirs-ng/vras/internal/web/session"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")

	require.NoError(t, db.AutoMigrate(&models.User{}), "failed to migrate user model")

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		DevMode: false,
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}
}

// testStorage is a minimal in-memory implementation of storage.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func initSessionStore() {
	websess.Init(&testStorage{data: make(map[string][]byte)})
}

func createUser(t *testing.T, db *gorm.DB, username, password string, active, blacklisted bool) {
	t.Helper()

	require.NoError(t, db.Create(&models.User{
		Username:    username,
		Email:       username + "@example.org",
		Password:    models.HashPassword(password),
		Role:        string(access.RoleLgaAgent),
		Active:      active,
		Blacklisted: blacklisted,
	}).Error)
}

func performLogin(t *testing.T, app *fiber.App, username, password string) *http.Response {
	t.Helper()

	body, err := json.Marshal(Request{Username: username, Password: password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, Path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

func TestPostSuccessSetsCookie(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := fiber.New()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, cfg, db, nil))

	createUser(t, db, "bob", "s3cr3tpass", true, false)

	resp := performLogin(t, app, "bob", "s3cr3tpass")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	setCookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, setCookie, "session=")
	assert.Contains(t, strings.ToLower(setCookie), "secure",
		"cookie must be Secure outside dev mode")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"username":"bob"`)
}

func TestPostDevModeDisablesSecure(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	cfg.DevMode = true

	app := fiber.New()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, cfg, db, nil))

	createUser(t, db, "carol", "passpass", true, false)

	resp := performLogin(t, app, "carol", "passpass")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, strings.ToLower(resp.Header.Get("Set-Cookie")), "secure")
}

func TestPostWrongPassword(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, newTestConfig(), db, nil))

	createUser(t, db, "dave", "rightpass", true, false)

	resp := performLogin(t, app, "dave", "wrongpass")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Unknown users get the same answer as wrong passwords.
	resp2 := performLogin(t, app, "nobody", "whatever")
	defer resp2.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}

func TestPostRestrictedAccounts(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, newTestConfig(), db, nil))

	createUser(t, db, "inactive", "passpass", false, false)
	createUser(t, db, "listed", "passpass", true, true)

	resp := performLogin(t, app, "inactive", "passpass")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Blacklisting blocks login even with the right password.
	resp2 := performLogin(t, app, "listed", "passpass")
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp2.StatusCode)
}

func TestPostInvalidBody(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, newTestConfig(), db, nil))

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Missing password fails validation.
	req = httptest.NewRequest(http.MethodPost, Path, strings.NewReader(`{"username":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogoutClearsSession(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, newTestConfig(), db, nil))

	createUser(t, db, "erin", "passpass", true, false)

	resp := performLogin(t, app, "erin", "passpass")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := resp.Header.Get("Set-Cookie")
	sessionID := strings.TrimPrefix(strings.Split(cookie, ";")[0], "session=")
	require.NotEmpty(t, sessionID)

	req := httptest.NewRequest(http.MethodPost, LogoutPath, nil)
	req.Header.Set("Cookie", "session="+sessionID)

	logoutResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer logoutResp.Body.Close()

	require.Equal(t, http.StatusOK, logoutResp.StatusCode)

	sessData := new(websess.Data)
	_ = sessData.Read(sessionID)
	assert.Zero(t, sessData.User.ID, "session data must be gone after logout")
}
