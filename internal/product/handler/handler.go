package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/auth"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/response"
	"github.com/fekuna/omnipos-pos-service/internal/product"
	"github.com/fekuna/omnipos-pos-service/internal/product/dto"
	"github.com/fekuna/omnipos-pos-service/internal/receipt"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type ProductHandler struct {
	uc     product.UseCase
	header receipt.Header
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, header receipt.Header, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		header: header,
		logger: log,
	}
}

func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.SearchProducts)
	rg.POST("", h.CreateProduct)
	rg.GET("/filter", h.FilterProducts)
	rg.GET("/export", h.ExportProducts)
	rg.GET("/:id", h.GetProduct)
	rg.PUT("/:id", h.UpdateProduct)
	rg.DELETE("/:id", h.DeleteProduct)
	rg.GET("/:id/report", h.ProductReport)
}

type productRequest struct {
	Barcode       string          `json:"barcode" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Brand         string          `json:"brand"`
	ProviderID    string          `json:"provider_id"`
	PricePurchase decimal.Decimal `json:"price_purchase"`
	PriceSale     decimal.Decimal `json:"price_sale"`
	Stok          int             `json:"stok"`
}

type listResponse struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), &dto.CreateProductInput{
		Barcode:       req.Barcode,
		Name:          req.Name,
		Description:   req.Description,
		Brand:         req.Brand,
		ProviderID:    req.ProviderID,
		PricePurchase: req.PricePurchase,
		PriceSale:     req.PriceSale,
		Stok:          req.Stok,
		UserID:        auth.GetUserID(c.Request.Context()),
	})
	if err != nil {
		response.Error(c, h.logger, "failed to create product", err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	detail, err := h.uc.GetProductDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, "failed to get product", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// SearchProducts serves the keyword search of the catalog page.
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	filters, err := parseFilters(c, false)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.list(c, filters)
}

func (h *ProductHandler) FilterProducts(c *gin.Context) {
	filters, err := parseFilters(c, true)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.list(c, filters)
}

func (h *ProductHandler) list(c *gin.Context, filters *dto.ProductFilters) {
	products, count, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, h.logger, "failed to list products", err)
		return
	}
	c.JSON(http.StatusOK, listResponse{
		Products: products,
		Total:    count,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	})
}

func parseFilters(c *gin.Context, advanced bool) (*dto.ProductFilters, error) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filters := &dto.ProductFilters{
		Kword:    c.Query("kword"),
		Order:    c.Query("order"),
		Page:     page,
		PageSize: pageSize,
	}
	if !advanced {
		return filters, nil
	}

	filters.Provider = c.Query("provider")
	filters.Brand = c.Query("brand")
	for param, dst := range map[string]**time.Time{
		"date_start": &filters.DateStart,
		"date_end":   &filters.DateEnd,
	} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be formatted as %s", param, dateLayout)
		}
		*dst = &t
	}
	return filters, nil
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	p, err := h.uc.UpdateProduct(c.Request.Context(), &dto.UpdateProductInput{
		ID:            c.Param("id"),
		Barcode:       req.Barcode,
		Name:          req.Name,
		Description:   req.Description,
		Brand:         req.Brand,
		ProviderID:    req.ProviderID,
		PricePurchase: req.PricePurchase,
		PriceSale:     req.PriceSale,
	})
	if err != nil {
		response.Error(c, h.logger, "failed to update product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.uc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.logger, "failed to delete product", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) ProductReport(c *gin.Context) {
	detail, err := h.uc.GetProductDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, "failed to load product report", err)
		return
	}

	pdf, err := receipt.RenderProductReport(h.header, detail.Product, detail.MonthlySales)
	if err != nil {
		response.Error(c, h.logger, "failed to render product report", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=product-%s.pdf", detail.Product.Barcode))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *ProductHandler) ExportProducts(c *gin.Context) {
	products, _, err := h.uc.ListProducts(c.Request.Context(), &dto.ProductFilters{Order: "name"})
	if err != nil {
		response.Error(c, h.logger, "failed to export products", err)
		return
	}

	file, err := catalogWorkbook(products)
	if err != nil {
		response.Error(c, h.logger, "failed to build catalog workbook", err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := file.Write(c.Writer); err != nil {
		response.Error(c, h.logger, "failed to write catalog workbook", err)
	}
}
