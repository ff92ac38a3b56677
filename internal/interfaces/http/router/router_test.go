package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/resto/backend/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group)
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/test/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("stock", "/stock")
		assert.Equal(t, "stock", g.Name())
		assert.Equal(t, "/stock", g.Prefix())
	})

	t.Run("applies group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.Use(func(c *gin.Context) {
			c.Header("X-Touched", "yes")
			c.Next()
		})
		g.GET("/items", func(c *gin.Context) {
			c.String(http.StatusOK, "items")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("GET", "/api/v1/test/items", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "yes", w.Header().Get("X-Touched"))
	})

	t.Run("registers all HTTP methods", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g.GET("/r", ok).POST("/r", ok).PUT("/r", ok).DELETE("/r", ok)

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		for _, method := range []string{"GET", "POST", "PUT", "DELETE"} {
			req := httptest.NewRequest(method, "/api/v1/test/r", nil)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, method)
		}
	})
}

func TestRegisterAll(t *testing.T) {
	engine := gin.New()

	RegisterAll(engine, Handlers{
		Stock:       handler.NewStockHandler(nil),
		Section:     handler.NewSectionHandler(nil),
		Consumption: handler.NewConsumptionHandler(nil),
		Catalog:     handler.NewCatalogHandler(nil),
		Health:      handler.NewHealthHandler(nil),
	})

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/stock/receipts",
		"POST /api/v1/stock/movements",
		"GET /api/v1/stock/levels",
		"GET /api/v1/stock/levels/:id",
		"GET /api/v1/stock/entries/expiring",
		"DELETE /api/v1/stock/entries/:id",
		"GET /api/v1/stock/entries/:id/movements",
		"GET /api/v1/stock/materials/:id/entries",
		"GET /api/v1/stock/materials/:id/movements",
		"POST /api/v1/sections/assignments",
		"PUT /api/v1/sections/assignments/:id",
		"DELETE /api/v1/sections/assignments/:id",
		"GET /api/v1/sections/:id/inventory",
		"GET /api/v1/sections/:id/consumptions",
		"POST /api/v1/consumptions",
		"GET /api/v1/consumptions/materials/:id",
		"GET /api/v1/consumptions/orders/:orderId",
		"POST /api/v1/catalog/materials",
		"GET /api/v1/catalog/materials",
		"GET /api/v1/catalog/materials/:id",
		"DELETE /api/v1/catalog/materials/:id",
		"POST /api/v1/catalog/sections",
		"GET /api/v1/catalog/sections",
		"DELETE /api/v1/catalog/sections/:id",
	}
	for _, route := range expected {
		assert.True(t, registered[route], route)
	}

	t.Run("health endpoint responds", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
