package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/landscape/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestResourceFromRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/api/v1/projects/:id/parcels", "projects"},
		{"/api/v1/budget/templates", "budget"},
		{"/api/v2/gis/parcels", "gis"},
		{"/health", "health"},
		{"/api/v1", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resourceFromRoute(tt.route), tt.route)
	}
}

func TestProfiling_LabelsRequestContext(t *testing.T) {
	r := gin.New()
	r.Use(Profiling(DefaultProfilingConfig()))

	var route, resource string
	r.GET("/api/v1/projects/:id", func(c *gin.Context) {
		route, _ = pprof.Label(c.Request.Context(), telemetry.ProfilingLabelRoute)
		resource, _ = pprof.Label(c.Request.Context(), telemetry.ProfilingLabelResource)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/projects/abc", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/projects/:id", route)
	assert.Equal(t, "projects", resource)
}

func TestProfiling_SkipsHealth(t *testing.T) {
	r := gin.New()
	r.Use(Profiling(DefaultProfilingConfig()))

	labeled := true
	r.GET("/health", func(c *gin.Context) {
		_, labeled = pprof.Label(c.Request.Context(), telemetry.ProfilingLabelRoute)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, labeled)
}
