package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/db/models"
	websess "github.com/eirs-ng/vras/internal/web/session"
)

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

func storeSession(t *testing.T, user models.User) string {
	t.Helper()

	sessionID, err := websess.GenerateSessionID()
	require.NoError(t, err)

	data := &websess.Data{User: user}
	require.NoError(t, data.Write(sessionID, time.Minute))

	return sessionID
}

func performGet(t *testing.T, app *fiber.App, sessionID string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if sessionID != "" {
		req.Header.Set("Cookie", "session="+sessionID)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

func TestRequireCapability(t *testing.T) {
	websess.Init(&testStorage{data: make(map[string][]byte)})

	app := fiber.New()
	app.Get("/protected", RequireCapability(access.CapManageUsers), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// No session cookie.
	resp := performGet(t, app, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// An agent cannot manage users.
	agentSession := storeSession(t, models.User{
		ID: 7, Username: "agent", Role: string(access.RoleLgaAgent), Active: true,
	})

	resp = performGet(t, app, agentSession)
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, string(access.ReasonRoleNotPermitted), payload["reason"])

	// An admin can.
	adminSession := storeSession(t, models.User{
		ID: 1, Username: "admin", Role: string(access.RoleAdmin), Active: true,
	})

	resp = performGet(t, app, adminSession)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestRequireCapabilityBlacklistedSession proves that a restriction applied
// after login bites on the next request: the session is still stored but
// the account state in it is restricted.
func TestRequireCapabilityBlacklistedSession(t *testing.T) {
	websess.Init(&testStorage{data: make(map[string][]byte)})

	app := fiber.New()
	app.Get("/protected", RequireCapability(access.CapAccessAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	session := storeSession(t, models.User{
		ID: 2, Username: "super", Role: string(access.RoleSuperAdmin), Active: true, Blacklisted: true,
	})

	resp := performGet(t, app, session)
	defer resp.Body.Close()

	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, string(access.ReasonAccountRestricted), payload["reason"],
		"blacklist overrides the most powerful role")
}

func TestRequireRoles(t *testing.T) {
	websess.Init(&testStorage{data: make(map[string][]byte)})

	app := fiber.New()
	app.Get("/protected",
		RequireRoles(nil, []access.Role{access.RoleVehicleOwner}),
		func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})

	// Empty allow-list admits any authenticated role not on the deny-list.
	agentSession := storeSession(t, models.User{
		ID: 5, Username: "agent", Role: string(access.RoleLgaAgent), Active: true,
	})

	resp := performGet(t, app, agentSession)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ownerSession := storeSession(t, models.User{
		ID: 6, Username: "owner", Role: string(access.RoleVehicleOwner), Active: true,
	})

	resp = performGet(t, app, ownerSession)
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, string(access.ReasonRoleNotPermitted), payload["reason"])
}

func TestRequireAuthenticated(t *testing.T) {
	websess.Init(&testStorage{data: make(map[string][]byte)})

	app := fiber.New()
	app.Get("/protected", RequireAuthenticated(), func(c *fiber.Ctx) error {
		user := UserFromContext(c)
		require.NotNil(t, user)

		return c.SendString(user.Username)
	})

	session := storeSession(t, models.User{
		ID: 3, Username: "owner", Role: string(access.RoleVehicleOwner), Active: true,
	})

	resp := performGet(t, app, session)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "owner", string(body))

	// Garbage session id is unauthorized.
	resp = performGet(t, app, "deadbeef")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
