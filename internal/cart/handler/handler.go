package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-pos-service/internal/cart"
	"github.com/fekuna/omnipos-pos-service/internal/cart/dto"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	uc     cart.UseCase
	logger logger.ZapLogger
}

func NewCartHandler(uc cart.UseCase, log logger.ZapLogger) *CartHandler {
	return &CartHandler{uc: uc, logger: log}
}

func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListItems)
	rg.POST("", h.AddItem)
	rg.DELETE("", h.Clear)
	rg.POST("/:id/decrement", h.Decrement)
	rg.DELETE("/:id", h.Remove)
}

type addItemRequest struct {
	Barcode string `json:"barcode" binding:"required"`
	Count   *int   `json:"count"`
}

func (h *CartHandler) ListItems(c *gin.Context) {
	summary, err := h.uc.ListItems(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, "failed to list cart", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AddItem scans one product into the cart; count defaults to 1.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}
	count := 1
	if req.Count != nil {
		count = *req.Count
	}

	item, err := h.uc.AddOrIncrement(c.Request.Context(), &dto.AddItemInput{Barcode: req.Barcode, Count: count})
	if err != nil {
		response.Error(c, h.logger, "failed to add cart item", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CartHandler) Decrement(c *gin.Context) {
	item, err := h.uc.Decrement(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, "failed to decrement cart item", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CartHandler) Remove(c *gin.Context) {
	if err := h.uc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.logger, "failed to remove cart item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) Clear(c *gin.Context) {
	removed, err := h.uc.ClearAll(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, "failed to clear cart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
