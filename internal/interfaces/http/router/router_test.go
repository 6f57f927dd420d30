package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func echo(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func TestNewRouter_Defaults(t *testing.T) {
	r := NewRouter(gin.New())

	require.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
	assert.Empty(t, r.middleware)

	assert.Equal(t, "v2", NewRouter(gin.New(), WithAPIVersion("v2")).apiVersion)
}

func TestRouter_VersionPrefix(t *testing.T) {
	engine := gin.New()
	NewRouter(engine, WithAPIVersion("v2")).
		Register(NewDomainGroup("projects", "/projects").GET("", echo("projects"))).
		Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v2/projects").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/projects").Code)
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("planning", "/areas")
	g.GET("/:id", echo("get")).
		POST("", echo("post")).
		PUT("/:id", echo("put")).
		PATCH("/:id", echo("patch")).
		DELETE("/:id", echo("delete"))
	g.RegisterRoutes(engine.Group("/api/v1"))

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/areas/7", "get"},
		{http.MethodPost, "/api/v1/areas", "post"},
		{http.MethodPut, "/api/v1/areas/7", "put"},
		{http.MethodPatch, "/api/v1/areas/7", "patch"},
		{http.MethodDelete, "/api/v1/areas/7", "delete"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestDomainGroup_MiddlewareAndSubgroups(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("landuse", "/landuse").Use(func(c *gin.Context) {
		c.Header("X-Domain", "landuse")
		c.Next()
	})
	g.Group("taxonomy", "/taxonomy").GET("", echo("taxonomy list"))
	g.Group("mappings", "/mappings").GET("", echo("mappings list"))
	g.RegisterRoutes(engine.Group("/api/v1"))

	assert.Equal(t, "landuse", g.Name())
	assert.Equal(t, "/landuse", g.Prefix())

	w := serve(engine, http.MethodGet, "/api/v1/landuse/taxonomy")
	assert.Equal(t, "taxonomy list", w.Body.String())
	assert.Equal(t, "landuse", w.Header().Get("X-Domain"))

	w = serve(engine, http.MethodGet, "/api/v1/landuse/mappings")
	assert.Equal(t, "mappings list", w.Body.String())
	assert.Equal(t, "landuse", w.Header().Get("X-Domain"), "subgroups inherit parent middleware")
}

func TestRouter_RootLevelGroup(t *testing.T) {
	engine := gin.New()
	projects := NewDomainGroup("projects", "/projects").GET("", echo("projects"))
	planning := NewDomainGroup("planning", "").GET("/areas/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "area "+c.Param("id"))
	})
	NewRouter(engine).RegisterGroups(projects, planning).Setup()

	assert.Equal(t, "projects", serve(engine, http.MethodGet, "/api/v1/projects").Body.String())
	assert.Equal(t, "area 7", serve(engine, http.MethodGet, "/api/v1/areas/7").Body.String())
}

func TestRouterWithMiddleware(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", echo("ok"))

	NewRouter(engine, WithMiddleware(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	})).
		Register(NewDomainGroup("projects", "/projects").GET("", echo("projects"))).
		Setup()

	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/projects").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health").Code)
}

func TestDomainGroupRoutes(t *testing.T) {
	noop := func(c *gin.Context) {}
	g := NewDomainGroup("budget", "")
	g.Group("templates", "/budget/templates").
		GET("", noop).
		POST("/:id/categories", noop)
	g.PUT("/budget/items/:id", noop)

	assert.Equal(t, []RouteInfo{
		{Group: "budget", Method: "PUT", Path: "/budget/items/:id"},
		{Group: "templates", Method: "GET", Path: "/budget/templates"},
		{Group: "templates", Method: "POST", Path: "/budget/templates/:id/categories"},
	}, g.Routes())
}
