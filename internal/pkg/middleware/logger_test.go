package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	log := logger.Wrap(zap.New(core))
	r.Use(RequestLogger(log), Recovery(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := logs.FilterMessage("request").All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
		assert.Equal(t, int64(http.StatusInternalServerError), entries[1].ContextMap()["status"])
	}
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}
