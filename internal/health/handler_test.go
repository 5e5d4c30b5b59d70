// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy() Checker {
	return pingFunc(func(context.Context) error { return nil })
}

func failing() Checker {
	return pingFunc(func(context.Context) error { return errors.New("down") })
}

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     []NamedChecker
		wantStatus int
		wantBody   string
	}{
		{
			name: "all healthy",
			checks: []NamedChecker{
				{Name: "mongo", Checker: healthy()},
				{Name: "redis", Checker: healthy()},
			},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
		{
			name: "redis down",
			checks: []NamedChecker{
				{Name: "mongo", Checker: healthy()},
				{Name: "redis", Checker: failing()},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "degraded",
		},
		{
			name:       "unconfigured checker",
			checks:     []NamedChecker{{Name: "mongo"}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(tt.checks...), "/readyz")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ReadinessResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantBody, body.Status)
			assert.Len(t, body.Checks, len(tt.checks))
		})
	}
}

func TestShutdownFailsProbes(t *testing.T) {
	h := NewHandler(NamedChecker{Name: "mongo", Checker: healthy()})

	assert.Equal(t, http.StatusOK, serve(h, "/livez").Code)

	h.SetShutdown(true)

	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/livez").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/readyz").Code)
}
