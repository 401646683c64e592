package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/auth"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/internal/receipt"
	"github.com/fekuna/omnipos-pos-service/internal/sale/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubUseCase struct {
	emptyCart bool
	sale      *model.Sale
	lastInput *dto.ProcessSaleInput
	closedBy  string
}

func (s *stubUseCase) ProcessSale(ctx context.Context, input *dto.ProcessSaleInput) (*dto.ProcessSaleOutput, error) {
	s.lastInput = input
	if !input.InvoiceType.Valid() {
		return nil, fmt.Errorf("%w: invalid invoice type", model.ErrValidation)
	}
	if s.emptyCart {
		return &dto.ProcessSaleOutput{}, nil
	}
	return &dto.ProcessSaleOutput{Sale: s.sale, Details: s.sale.Details, Total: s.sale.Total()}, nil
}

func (s *stubUseCase) Annul(ctx context.Context, input *dto.AnnulInput) (*dto.AnnulOutput, error) {
	if input.SaleID != s.sale.ID {
		return nil, fmt.Errorf("%w: sale %s", model.ErrNotFound, input.SaleID)
	}
	annulled := *s.sale
	annulled.Annulled = true
	return &dto.AnnulOutput{Sale: &annulled}, nil
}

func (s *stubUseCase) UnclosedSales(ctx context.Context) ([]model.Sale, error) {
	return []model.Sale{*s.sale}, nil
}

func (s *stubUseCase) GetSale(ctx context.Context, id string) (*model.Sale, error) {
	if id != s.sale.ID {
		return nil, fmt.Errorf("%w: sale %s", model.ErrNotFound, id)
	}
	return s.sale, nil
}

func (s *stubUseCase) MonthlySalesForProduct(ctx context.Context, productID string) (*model.MonthlySales, error) {
	return &model.MonthlySales{ProductID: productID}, nil
}

func (s *stubUseCase) CloseRegister(ctx context.Context, userID string) (*dto.RegisterSummary, error) {
	s.closedBy = userID
	return &dto.RegisterSummary{SalesClosed: 1, Total: s.sale.Total()}, nil
}

func newSale() *model.Sale {
	return &model.Sale{
		BaseModel:   model.BaseModel{ID: "sale-1"},
		DateSale:    time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		InvoiceType: model.InvoiceNone,
		PaymentType: model.PaymentCash,
		UserID:      "cashier",
		Details: []model.SaleDetail{
			{ID: "d1", SaleID: "sale-1", ProductID: "p1", ProductName: "Milk", Count: 2, PriceSale: decimal.RequireFromString("10.00")},
			{ID: "d2", SaleID: "sale-1", ProductID: "p2", ProductName: "Bread", Count: 1, PriceSale: decimal.RequireFromString("5.00")},
		},
	}
}

func newRouter(t *testing.T, uc *stubUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := auth.WithUser(c.Request.Context(), auth.UserContext{UserID: "cashier", Role: auth.RoleSales})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	h := NewSaleHandler(uc, receipt.Header{StoreName: "Corner Shop"}, logger.Wrap(zaptest.NewLogger(t)))
	h.RegisterRoutes(r.Group("/sales"))
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSimpleSale(t *testing.T) {
	uc := &stubUseCase{sale: newSale()}
	r := newRouter(t, uc)

	w := send(r, http.MethodPost, "/sales/simple", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Processed  bool            `json:"processed"`
		Total      decimal.Decimal `json:"total"`
		VoucherURL string          `json:"voucher_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Processed)
	assert.Equal(t, "25.00", body.Total.StringFixed(2))
	assert.Equal(t, "/sales/sale-1/voucher", body.VoucherURL)

	assert.Equal(t, model.InvoiceNone, uc.lastInput.InvoiceType)
	assert.Equal(t, model.PaymentCash, uc.lastInput.PaymentType)
	assert.Equal(t, "cashier", uc.lastInput.UserID)
}

func TestSimpleSale_EmptyCart(t *testing.T) {
	r := newRouter(t, &stubUseCase{sale: newSale(), emptyCart: true})

	w := send(r, http.MethodPost, "/sales/simple", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"processed":false,"message":"cart is empty"}`, w.Body.String())
}

func TestVoucherSale(t *testing.T) {
	uc := &stubUseCase{sale: newSale()}
	r := newRouter(t, uc)

	w := send(r, http.MethodPost, "/sales/voucher", `{"invoice_type":"voucher","payment_type":"other"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, model.InvoiceVoucher, uc.lastInput.InvoiceType)
	assert.Equal(t, model.PaymentOther, uc.lastInput.PaymentType)

	w = send(r, http.MethodPost, "/sales/voucher", `{"payment_type":"cash"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPost, "/sales/voucher", `{"invoice_type":"fiscal","payment_type":"cash"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUnclosed_IncludesTotals(t *testing.T) {
	r := newRouter(t, &stubUseCase{sale: newSale()})

	w := send(r, http.MethodGet, "/sales", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Sales []struct {
			ID      string          `json:"id"`
			Total   decimal.Decimal `json:"total"`
			Details []any           `json:"details"`
		} `json:"sales"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Sales, 1)
	assert.Equal(t, "sale-1", body.Sales[0].ID)
	assert.Equal(t, "25.00", body.Sales[0].Total.StringFixed(2))
	assert.Len(t, body.Sales[0].Details, 2)
}

func TestVoucher_RendersPDF(t *testing.T) {
	r := newRouter(t, &stubUseCase{sale: newSale()})

	w := send(r, http.MethodGet, "/sales/sale-1/voucher", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = send(r, http.MethodGet, "/sales/missing/voucher", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnnul(t *testing.T) {
	r := newRouter(t, &stubUseCase{sale: newSale()})

	w := send(r, http.MethodPost, "/sales/sale-1/annul", "")
	require.Equal(t, http.StatusOK, w.Code)
	var out dto.AnnulOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, out.Sale.Annulled)
	assert.False(t, out.AlreadyAnnulled)

	w = send(r, http.MethodPost, "/sales/missing/annul", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCloseRegister(t *testing.T) {
	uc := &stubUseCase{sale: newSale()}
	r := newRouter(t, uc)

	w := send(r, http.MethodPost, "/sales/close", "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary dto.RegisterSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.SalesClosed)
	assert.Equal(t, "25.00", summary.Total.StringFixed(2))
	assert.Equal(t, "cashier", uc.closedBy)
}
