package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRouter_Setup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("registers groups under the versioned prefix", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine, WithAPIVersion("v1"))

		group := NewDomainGroup("map", "/map")
		group.GET("/statistics", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		r.Register(group)
		r.Setup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/map/statistics", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("applies group middleware before handlers", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		var order []string
		group := NewDomainGroup("map", "/map")
		group.Use(func(c *gin.Context) {
			order = append(order, "middleware")
			c.Next()
		})
		group.GET("/ping", func(c *gin.Context) {
			order = append(order, "handler")
			c.String(http.StatusOK, "pong")
		})
		r.Register(group)
		r.Setup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/map/ping", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, []string{"middleware", "handler"}, order)
	})

	t.Run("unknown routes fall through to 404", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)
		r.Register(NewDomainGroup("map", "/map"))
		r.Setup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/map/nope", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDomainGroup_Accessors(t *testing.T) {
	group := NewDomainGroup("map", "/map")
	assert.Equal(t, "map", group.Name())
	assert.Equal(t, "/map", group.Prefix())
}
