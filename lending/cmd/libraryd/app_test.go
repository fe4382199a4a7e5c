package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/lending/shell/config"
	"github.com/AntonStoeckl/library-lending/lending/shell/httpapi"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func Test_NewApp_WithDefaults_ServesHealthz(t *testing.T) {
	// arrange
	a, err := newApp(context.Background(), config.Defaults(), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.close(context.Background()) })

	rec := httptest.NewRecorder()

	// act
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	// assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, config.DriverMemory, a.store.Driver)
	assert.Nil(t, a.limiter)
	assert.Nil(t, a.telemetry)
}

func Test_NewApp_WiresSQLiteRateLimitAndTelemetry(t *testing.T) {
	// arrange
	redis := miniredis.RunT(t)

	cfg := config.Defaults()
	cfg.Store.Driver = config.DriverSQLite
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "library.db")
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RedisAddr = redis.Addr()
	cfg.Telemetry.Enabled = true

	a, err := newApp(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.close(context.Background()) })

	admin := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"isbn":"isbn-1","title":"Dune","totalCopies":1}`))
	req.Header.Set(httpapi.HeaderUserID, admin)
	req.Header.Set(httpapi.HeaderUserRole, "admin")
	rec := httptest.NewRecorder()

	// act
	a.server.Handler.ServeHTTP(rec, req)

	// assert
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, config.DriverSQLite, a.store.Driver)
	assert.NotNil(t, a.limiter)
	assert.NotNil(t, a.telemetry)
}

func Test_NewApp_Fails_ForAnInvalidPolicy(t *testing.T) {
	// arrange
	cfg := config.Defaults()
	cfg.Policy.DailyFineRate = "-1"

	// act
	a, err := newApp(context.Background(), cfg, discardLogger())

	// assert
	assert.Error(t, err)
	assert.Nil(t, a)
}

func Test_Run_StopsGracefully_WhenTheContextIsCanceled(t *testing.T) {
	// arrange
	cfg := config.Defaults()
	cfg.HTTP.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// act
	go func() { done <- run(ctx, cfg, discardLogger()) }()
	cancel()

	// assert
	assert.NoError(t, <-done)
}
