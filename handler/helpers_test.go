package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/zac-t-smith/restoration-intel/allocator"
	"github.com/zac-t-smith/restoration-intel/config"
	"github.com/zac-t-smith/restoration-intel/middleware"
	"github.com/zac-t-smith/restoration-intel/service"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryArchive struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (a *memoryArchive) Put(_ context.Context, objectName string, data []byte, _ string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[objectName] = data
	return nil
}

func (a *memoryArchive) PresignedURL(_ context.Context, objectName string) (string, error) {
	return "https://archive.test/" + objectName, nil
}

func (a *memoryArchive) Remove(_ context.Context, objectName string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.objects, objectName)
	return nil
}

type testEnv struct {
	t       *testing.T
	cfg     *config.Config
	router  *gin.Engine
	ledger  *service.Ledger
	archive *memoryArchive
	token   string
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	return &config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret", TokenExpireHours: 1},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Users: []config.User{
			{Username: "alice", PasswordHash: string(hash), Tenant: "acme"},
		},
	}
}

// newTestEnv builds the full router over a fresh SQLite ledger. With
// archive false the report routes are disabled.
func newTestEnv(t *testing.T, archive bool) *testEnv {
	t.Helper()
	cfg := testConfig(t)

	db, err := service.OpenDatabase(&config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "api.db"),
	})
	require.NoError(t, err)
	require.NoError(t, service.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	ledger := service.NewLedger(db, nil, time.Minute)
	payables := service.NewPayablesService(ledger, allocator.New(allocator.DefaultPolicy()), 60)

	env := &testEnv{t: t, cfg: cfg, ledger: ledger}
	var reportArchive service.ReportArchive
	if archive {
		env.archive = &memoryArchive{objects: make(map[string][]byte)}
		reportArchive = env.archive
	}
	reports := service.NewReportService(payables, service.NewReportStore(10), reportArchive)

	env.router = NewRouter(cfg, Services{Ledger: ledger, Payables: payables, Reports: reports})
	env.token, _, err = middleware.GenerateToken("alice", "acme", &cfg.Auth)
	require.NoError(t, err)
	return env
}

// do sends an authenticated request; body is JSON-encoded unless it is
// already a string.
func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func dateIn(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(dateLayout)
}

func assertStatus(t *testing.T, want int, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, w.Code, w.Body.String())
}
