// AngelaMos | 2026
// server_test.go

package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taslimapopi/lifelog-server/internal/config"
)

type recordingNotifier struct {
	ready, shutdown bool
}

func (n *recordingNotifier) SetReady(ready bool)       { n.ready = ready }
func (n *recordingNotifier) SetShutdown(shutdown bool) { n.shutdown = shutdown }

func newTestServer(notifier ShutdownNotifier) *Server {
	return New(Config{
		ServerConfig: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: time.Second,
			RequestTimeout:  time.Second,
		},
		HealthHandler: notifier,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestRouterServesThroughWrappedHandler(t *testing.T) {
	srv := newTestServer(nil)
	srv.Router().Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestRecovererTurnsPanicInto500(t *testing.T) {
	srv := newTestServer(nil)
	srv.Router().Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestShutdownMarksDraining(t *testing.T) {
	notifier := &recordingNotifier{ready: true}
	srv := newTestServer(notifier)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx, 0))
	assert.True(t, notifier.shutdown)
	assert.False(t, notifier.ready)
}
