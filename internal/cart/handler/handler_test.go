package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-pos-service/internal/cart/dto"
	"github.com/fekuna/omnipos-pos-service/internal/cart/repository"
	"github.com/fekuna/omnipos-pos-service/internal/cart/usecase"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	productrepo "github.com/fekuna/omnipos-pos-service/internal/product/repository"
	"github.com/fekuna/omnipos-pos-service/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCartHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	log := logger.Wrap(zaptest.NewLogger(t))
	uc := usecase.NewCartUseCase(repository.NewPGRepository(db), productrepo.NewPGRepository(db), log)
	r := gin.New()
	NewCartHandler(uc, log).RegisterRoutes(r.Group("/cart"))
	testutil.InsertProduct(t, db, "111", "Milk", "1.50", 10)

	send := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := send(http.MethodPost, "/cart", `{"barcode":"111"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = send(http.MethodPost, "/cart", `{"barcode":"111","count":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	var item model.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, 3, item.Count)

	w = send(http.MethodPost, "/cart", `{"barcode":"nope"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = send(http.MethodPost, "/cart", `{"barcode":"111","count":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(http.MethodPost, "/cart/"+item.ID+"/decrement", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary dto.CartSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "3.00", summary.Total.StringFixed(2))

	w = send(http.MethodDelete, "/cart", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"removed":1}`, w.Body.String())

	w = send(http.MethodDelete, "/cart/"+item.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
