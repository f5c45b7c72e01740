package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"sealed-auction/internal/auction"
	"sealed-auction/internal/clock"
	"sealed-auction/internal/notify"
	"sealed-auction/internal/repository"
	"sealed-auction/internal/repository/sqlstore"
	"sealed-auction/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var startTime = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

// testEnv is a router over a real service with a controllable clock
type testEnv struct {
	router   *gin.Engine
	service  *auction.Service
	clock    *clock.Fixed
	notifier *notify.Recorder
}

// SetupTestEnv initializes the router with an in-memory repository for integration testing.
func SetupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupWithRepo(repository.NewMemoryRepo())
}

// SetupSQLiteTestEnv initializes the router over a temporary SQLite store.
func SetupSQLiteTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlstore.OpenSQLite(filepath.Join(t.TempDir(), "auction.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return setupWithRepo(store)
}

func setupWithRepo(repo repository.AuctionDB) *testEnv {
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		clock:    clock.NewFixed(startTime),
		notifier: &notify.Recorder{},
	}
	env.service = auction.NewService(repo, env.notifier, env.clock, 4)
	env.router = server.SetupRouter(env.service)
	return env
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		require.NoError(t, err, "failed to marshal body")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "failed to unmarshal response")
	}
	return resp, w
}
