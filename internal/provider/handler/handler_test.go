package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/internal/provider/repository"
	"github.com/fekuna/omnipos-pos-service/internal/provider/usecase"
	"github.com/fekuna/omnipos-pos-service/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestProviderHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.Wrap(zaptest.NewLogger(t))
	uc := usecase.NewProviderUseCase(repository.NewPGRepository(testutil.NewDB(t)), nil, log)
	r := gin.New()
	NewProviderHandler(uc, log).RegisterRoutes(r.Group("/providers"))

	send := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := send(http.MethodPost, "/providers", `{"name":"Acme","email":"a@acme.test"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created model.Provider
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = send(http.MethodPost, "/providers", `{"email":"a@acme.test"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(http.MethodGet, "/providers?name=acme", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = send(http.MethodPut, "/providers/"+created.ID, `{"name":"Acme Corp"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(http.MethodDelete, "/providers/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = send(http.MethodGet, "/providers/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
