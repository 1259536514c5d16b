package handler

import (
	"github.com/gin-gonic/gin"

	"lifex-api/internal/application/trending"
	"lifex-api/internal/domain/entity"
	"lifex-api/internal/interfaces/http/dto"
	"lifex-api/pkg/logger"
)

// TrendingHandler 热门商家处理器
type TrendingHandler struct {
	service *trending.Service
}

// NewTrendingHandler 创建热门商家处理器
func NewTrendingHandler(service *trending.Service) *TrendingHandler {
	return &TrendingHandler{service: service}
}

// Trending 返回热门商家榜单，可按类目过滤
func (h *TrendingHandler) Trending(c *gin.Context) {
	category := entity.BusinessCategory(c.Query("category"))

	businesses, err := h.service.Trending(c.Request.Context(), category)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to load trending businesses", err, "category", string(category))
		dto.InternalError(c, "failed to load trending businesses")
		return
	}

	dto.Success(c, dto.ToBusinessDTOs(businesses))
}
