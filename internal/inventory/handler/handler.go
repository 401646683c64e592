package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/auth"
	"github.com/fekuna/omnipos-pos-service/internal/inventory"
	"github.com/fekuna/omnipos-pos-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/adjust", h.AdjustInventory)
	rg.GET("/movements", h.ListMovements)
	rg.GET("/low-stock", h.ListLowStock)
}

type adjustRequest struct {
	ProductID      string             `json:"product_id" binding:"required"`
	QuantityChange int                `json:"quantity_change" binding:"required"`
	MovementType   model.MovementType `json:"movement_type"`
	Reason         string             `json:"reason"`
	ReferenceID    string             `json:"reference_id"`
	ReferenceType  string             `json:"reference_type"`
}

func (h *InventoryHandler) AdjustInventory(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	movement, err := h.uc.AdjustInventory(c.Request.Context(), &dto.AdjustInventoryInput{
		ProductID:      req.ProductID,
		QuantityChange: req.QuantityChange,
		MovementType:   req.MovementType,
		Reason:         req.Reason,
		ReferenceID:    req.ReferenceID,
		ReferenceType:  req.ReferenceType,
		UserID:         auth.GetUserID(c.Request.Context()),
	})
	if err != nil {
		response.Error(c, h.logger, "failed to adjust inventory", err)
		return
	}
	c.JSON(http.StatusOK, movement)
}

func (h *InventoryHandler) ListMovements(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	filters := &dto.MovementFilters{
		ProductID:    c.Query("product_id"),
		MovementType: c.Query("movement_type"),
		Page:         page,
		PageSize:     pageSize,
	}
	for param, dst := range map[string]**time.Time{
		"start_date": &filters.StartDate,
		"end_date":   &filters.EndDate,
	} {
		if raw := c.Query(param); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				response.BadRequest(c, param+" must be an RFC 3339 timestamp")
				return
			}
			*dst = &t
		}
	}

	items, count, err := h.uc.ListMovements(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, h.logger, "failed to list movements", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": items, "total": count})
}

func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	threshold, err := strconv.Atoi(c.DefaultQuery("threshold", "5"))
	if err != nil {
		response.BadRequest(c, "threshold must be an integer")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	products, count, err := h.uc.ListLowStock(c.Request.Context(), &dto.LowStockFilters{
		Threshold: threshold,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		response.Error(c, h.logger, "failed to list low stock", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": count})
}
