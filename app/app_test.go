package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/staffing/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.RunMode = "debug"
	cfg.Data.Driver = config.DriverMemory
	cfg.Auth.JWT.Secret = "test-secret"
	cfg.Auth.Managers = []config.ManagerAccount{{Email: "boss@x.io", Name: "Boss", Password: "pw"}}
	cfg.Logger.Output = "stderr"
	cfg.Logger.Level = 0
	return cfg
}

func TestHealth(t *testing.T) {
	a, cleanup, err := NewApp(testConfig())
	require.NoError(t, err)
	defer cleanup()

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body, "events")
}

func TestManagersSeeded(t *testing.T) {
	a, cleanup, err := NewApp(testConfig())
	require.NoError(t, err)
	defer cleanup()

	token, err := a.service.Account.ManagerLogin(testContext(t), "boss@x.io", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
}

func TestNewAppBadEmailProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Email.Provider = "pigeon"
	_, _, err := NewApp(cfg)
	assert.Error(t, err)
}

func TestRouterRecoversPanic(t *testing.T) {
	a, cleanup, err := NewApp(testConfig())
	require.NoError(t, err)
	defer cleanup()

	r := a.Router()
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
}

// testContext stands in for testing.T.Context (Go 1.24+): a context that is
// cancelled when the test finishes.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
