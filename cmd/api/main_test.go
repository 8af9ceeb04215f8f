package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/backend/internal/config"
	"todo-api/backend/internal/logging"
)

func TestNewHTTPServer(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	srv := newHTTPServer(config.Config{HTTPPort: "9090"}, handler)

	assert.Equal(t, ":9090", srv.Addr)
	assert.NotZero(t, srv.ReadHeaderTimeout)

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRun_RejectsShortSignKey(t *testing.T) {
	cfg := config.Config{
		AppEnv:   "development",
		HTTPPort: "0",
		DBDriver: "sqlite",
		JWT:      config.JWTConfig{SignKey: "short", ExpireMinutes: 60},
	}

	err := run(cfg, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 bytes")
}
