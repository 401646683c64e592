package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/response"
	"github.com/fekuna/omnipos-pos-service/internal/provider"
	"github.com/fekuna/omnipos-pos-service/internal/provider/dto"
	"github.com/gin-gonic/gin"
)

type ProviderHandler struct {
	uc     provider.UseCase
	logger logger.ZapLogger
}

func NewProviderHandler(uc provider.UseCase, log logger.ZapLogger) *ProviderHandler {
	return &ProviderHandler{uc: uc, logger: log}
}

func (h *ProviderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListProviders)
	rg.POST("", h.CreateProvider)
	rg.GET("/:id", h.GetProvider)
	rg.PUT("/:id", h.UpdateProvider)
	rg.DELETE("/:id", h.DeleteProvider)
}

type providerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
}

func (h *ProviderHandler) CreateProvider(c *gin.Context) {
	var req providerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	p, err := h.uc.CreateProvider(c.Request.Context(), &dto.CreateProviderInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Website: req.Website,
	})
	if err != nil {
		response.Error(c, h.logger, "failed to create provider", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProviderHandler) GetProvider(c *gin.Context) {
	p, err := h.uc.GetProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.logger, "failed to get provider", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProviderHandler) ListProviders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	providers, count, err := h.uc.ListProviders(c.Request.Context(), &dto.ProviderFilters{
		Name:     c.Query("name"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Error(c, h.logger, "failed to list providers", err)
		return
	}

	c.JSON(http.StatusOK, struct {
		Providers []model.Provider `json:"providers"`
		Total     int              `json:"total"`
	}{providers, count})
}

func (h *ProviderHandler) UpdateProvider(c *gin.Context) {
	var req providerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	p, err := h.uc.UpdateProvider(c.Request.Context(), &dto.UpdateProviderInput{
		ID:      c.Param("id"),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Website: req.Website,
	})
	if err != nil {
		response.Error(c, h.logger, "failed to update provider", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProviderHandler) DeleteProvider(c *gin.Context) {
	if err := h.uc.DeleteProvider(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.logger, "failed to delete provider", err)
		return
	}
	c.Status(http.StatusNoContent)
}
