package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/internal/product/repository"
	"github.com/fekuna/omnipos-pos-service/internal/product/usecase"
	"github.com/fekuna/omnipos-pos-service/internal/receipt"
	"github.com/fekuna/omnipos-pos-service/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap/zaptest"
)

type noSales struct{}

func (noSales) MonthlySalesForProduct(ctx context.Context, productID string) (*model.MonthlySales, error) {
	return &model.MonthlySales{ProductID: productID, Total: decimal.Zero}, nil
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Wrap(zaptest.NewLogger(t))
	uc := usecase.NewProductUseCase(repository.NewPGRepository(testutil.NewDB(t)), noSales{}, nil, nil, log)

	r := gin.New()
	NewProductHandler(uc, receipt.Header{StoreName: "Test"}, log).RegisterRoutes(r.Group("/products"))
	return r
}

func do(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProductHandler_CRUD(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/products", map[string]interface{}{
		"barcode": "7501", "name": "Milk", "price_purchase": "0.80", "price_sale": "1.20", "stok": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(r, http.MethodPost, "/products", map[string]interface{}{"barcode": "7501", "name": "Dup"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/products", map[string]interface{}{"name": "No barcode"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/products/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/products?kword=mil", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	w = do(r, http.MethodGet, "/products/filter?date_start=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/products/"+created.ID, map[string]interface{}{
		"barcode": "7501", "name": "Milk 1L", "price_sale": "1.30",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, "/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_ReportAndExport(t *testing.T) {
	r := setupRouter(t)
	w := do(r, http.MethodPost, "/products", map[string]interface{}{
		"barcode": "7501", "name": "Milk", "price_sale": "1.20", "stok": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created model.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(r, http.MethodGet, "/products/"+created.ID+"/report", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = do(r, http.MethodGet, "/products/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	file, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	rows := file.Sheets[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "Barcode", rows[0].Cells[1].Value)
	assert.Equal(t, "7501", rows[1].Cells[1].Value)
	assert.Equal(t, "1.20", rows[1].Cells[6].Value)
}
