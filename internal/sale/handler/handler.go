package handler

import (
	"fmt"
	"net/http"
	"path"

	"github.com/fekuna/omnipos-pos-service/internal/auth"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/response"
	"github.com/fekuna/omnipos-pos-service/internal/receipt"
	"github.com/fekuna/omnipos-pos-service/internal/sale"
	"github.com/fekuna/omnipos-pos-service/internal/sale/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SaleHandler struct {
	uc     sale.UseCase
	header receipt.Header
	logger logger.ZapLogger
}

func NewSaleHandler(uc sale.UseCase, header receipt.Header, log logger.ZapLogger) *SaleHandler {
	return &SaleHandler{uc: uc, header: header, logger: log}
}

func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListUnclosed)
	rg.POST("/simple", h.SimpleSale)
	rg.POST("/voucher", h.VoucherSale)
	rg.POST("/close", h.CloseRegister)
	rg.GET("/:id/voucher", h.Voucher)
	rg.POST("/:id/annul", h.Annul)
}

type saleView struct {
	*model.Sale
	Total decimal.Decimal `json:"total"`
}

func viewOf(s *model.Sale) saleView {
	return saleView{Sale: s, Total: s.Total()}
}

func (h *SaleHandler) ListUnclosed(c *gin.Context) {
	sales, err := h.uc.UnclosedSales(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, "failed to list sales", err)
		return
	}

	views := make([]saleView, len(sales))
	for i := range sales {
		views[i] = viewOf(&sales[i])
	}
	c.JSON(http.StatusOK, gin.H{"sales": views})
}

// SimpleSale charges the cart in cash without an invoice.
func (h *SaleHandler) SimpleSale(c *gin.Context) {
	h.process(c, model.InvoiceNone, model.PaymentCash)
}

type voucherSaleRequest struct {
	InvoiceType model.InvoiceType `json:"invoice_type" binding:"required"`
	PaymentType model.PaymentType `json:"payment_type" binding:"required"`
}

func (h *SaleHandler) VoucherSale(c *gin.Context) {
	var req voucherSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}
	h.process(c, req.InvoiceType, req.PaymentType)
}

func (h *SaleHandler) process(c *gin.Context, invoice model.InvoiceType, payment model.PaymentType) {
	out, err := h.uc.ProcessSale(c.Request.Context(), &dto.ProcessSaleInput{
		InvoiceType: invoice,
		PaymentType: payment,
		UserID:      auth.GetUserID(c.Request.Context()),
	})
	if err != nil {
		response.Error(c, h.logger, "failed to process sale", err)
		return
	}
	if out.Empty() {
		c.JSON(http.StatusOK, gin.H{"processed": false, "message": "cart is empty"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"processed":   true,
		"sale":        out.Sale,
		"total":       out.Total,
		"voucher_url": path.Join(path.Dir(c.FullPath()), out.Sale.ID, "voucher"),
	})
}

func (h *SaleHandler) Voucher(c *gin.Context) {
	s, err := h.uc.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, "failed to load sale", err)
		return
	}

	pdf, err := receipt.RenderSaleVoucher(h.header, s, s.Details)
	if err != nil {
		response.Error(c, h.logger, "failed to render voucher", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=voucher-%s.pdf", s.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *SaleHandler) Annul(c *gin.Context) {
	out, err := h.uc.Annul(c.Request.Context(), &dto.AnnulInput{
		SaleID: c.Param("id"),
		UserID: auth.GetUserID(c.Request.Context()),
	})
	if err != nil {
		response.Error(c, h.logger, "failed to annul sale", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *SaleHandler) CloseRegister(c *gin.Context) {
	summary, err := h.uc.CloseRegister(c.Request.Context(), auth.GetUserID(c.Request.Context()))
	if err != nil {
		response.Error(c, h.logger, "failed to close register", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
