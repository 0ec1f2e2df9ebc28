package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediavault/internal/infrastructure/presence"
	"mediavault/internal/presentation"
)

func TestSurfaceHeartbeat(t *testing.T) {
	t.Parallel()

	tracker := presence.NewMemoryTracker()

	e := echo.New()
	e.Use(SurfaceHeartbeat(tracker))
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	tests := []struct {
		name    string
		surface string
	}{
		{"named surface", "gallery"},
		{"anonymous request", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		if tt.surface != "" {
			req.Header.Set(presentation.SurfaceTag, tt.surface)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, tt.name)
	}

	active, err := tracker.Active(t.Context(), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, []string{"gallery"}, active)
}
