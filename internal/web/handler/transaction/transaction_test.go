package transaction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
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
	"github.com/eirs-ng/vras/internal/auth"
	"github.com/eirs-ng/vras/internal/config"
	transactionctrl "github.com/eirs-ng/vras/internal/db/controller/transaction"
	"github.com/eirs-ng/vras/internal/db/models"
	"github.com/eirs-ng/vras/internal/paygate"
	websess "github.com/eirs-ng/vras/internal/web/session"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")

	err = db.AutoMigrate(
		&models.Vehicle{},
		&models.FeeSetting{},
		&models.Transaction{},
		&models.AuditTrail{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
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

// newTestApp wires the handler against an in-memory database with the
// payment gateway disabled, so every reference verifies as paid.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	app := fiber.New()

	websess.Init(&testStorage{data: make(map[string][]byte)})
	paygate.Open(newTestConfig())

	var s Service
	require.NoError(t, s.Init(app, newTestConfig(), db, auth.NewService(db)))

	return app, db
}

func storeSession(t *testing.T, user models.User) string {
	t.Helper()

	sessionID, err := websess.GenerateSessionID()
	require.NoError(t, err)

	data := &websess.Data{User: user}
	require.NoError(t, data.Write(sessionID, time.Minute))

	return sessionID
}

func ownerSession(t *testing.T, id uint64) string {
	t.Helper()

	return storeSession(t, models.User{
		ID:       id,
		Username: fmt.Sprintf("owner%d", id),
		Role:     string(access.RoleVehicleOwner),
		Active:   true,
	})
}

func seedVehicle(t *testing.T, db *gorm.DB, plate string, ownerID uint64) *models.Vehicle {
	t.Helper()

	v := &models.Vehicle{
		PlateNumber:     plate,
		Category:        "minibus",
		Status:          models.VehicleStatusActive,
		OwnerID:         ownerID,
		RegisteredLgaID: 1,
		RegisteredByID:  7,
	}
	require.NoError(t, db.Create(v).Error)

	return v
}

func seedPendingTransaction(t *testing.T, db *gorm.DB, v *models.Vehicle) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		VehicleID:  v.ID,
		OwnerID:    v.OwnerID,
		LgaID:      v.RegisteredLgaID,
		AmountKobo: 3_000_000,
		Channel:    "cash",
	}
	require.NoError(t, transactionctrl.Record(db, tx))

	return tx
}

func performConfirm(t *testing.T, app *fiber.App, sessionID, reference string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path+"/"+reference+"/confirm", nil)
	req.Header.Set("Cookie", "session="+sessionID)

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

func performRecord(t *testing.T, app *fiber.App, sessionID string, vehicleID uint64) *http.Response {
	t.Helper()

	body, err := json.Marshal(RecordRequest{VehicleID: vehicleID, Channel: "cash"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, Path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", "session="+sessionID)

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

// TestConfirmScopedToOwner proves the settlement path runs inside the
// caller's scope: another owner holding the recording capability can
// neither settle nor read a foreign transaction by guessing its reference.
func TestConfirmScopedToOwner(t *testing.T) {
	app, db := newTestApp(t)

	v := seedVehicle(t, db, "EKY-301", 42)
	tx := seedPendingTransaction(t, db, v)

	resp := performConfirm(t, app, ownerSession(t, 41), tx.Reference)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var stored models.Transaction
	require.NoError(t, db.First(&stored, tx.ID).Error)
	assert.Equal(t, models.TransactionStatusPending, stored.Status,
		"a foreign confirm must not settle the row")

	// The paying owner settles their own transaction.
	resp = performConfirm(t, app, ownerSession(t, 42), tx.Reference)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), string(models.TransactionStatusConfirmed))

	require.NoError(t, db.First(&stored, tx.ID).Error)
	assert.Equal(t, models.TransactionStatusConfirmed, stored.Status)
	assert.NotNil(t, stored.PaidAt)
}

// TestRecordScopedToOwnVehicles proves owners can only raise payments
// against vehicles they own, while state revenue service staff record
// against any vehicle.
func TestRecordScopedToOwnVehicles(t *testing.T) {
	app, db := newTestApp(t)

	foreign := seedVehicle(t, db, "EKY-302", 42)
	own := seedVehicle(t, db, "EKY-303", 41)

	require.NoError(t, db.Create(&models.FeeSetting{
		Name: "Minibus levy", Category: "minibus", AmountKobo: 3_000_000, PeriodDays: 365, Active: true,
	}).Error)

	resp := performRecord(t, app, ownerSession(t, 41), foreign.ID)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count, "a rejected record must not insert")

	resp = performRecord(t, app, ownerSession(t, 41), own.ID)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, uint64(41), created.OwnerID)
	assert.Equal(t, models.TransactionStatusPending, created.Status)
	assert.Equal(t, int64(3_000_000), created.AmountKobo)

	// State revenue service staff record for any owner.
	agentSession := storeSession(t, models.User{
		ID: 7, Username: "eirs", Role: string(access.RoleEirsAgent), Active: true,
	})

	resp = performRecord(t, app, agentSession, foreign.ID)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
