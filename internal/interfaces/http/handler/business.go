package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
	"lifex-api/internal/interfaces/http/dto"
	apperrors "lifex-api/pkg/errors"
	"lifex-api/pkg/logger"
)

// BusinessHandler 商家处理器
type BusinessHandler struct {
	businessRepo repository.BusinessRepository
}

// NewBusinessHandler 创建商家处理器
func NewBusinessHandler(businessRepo repository.BusinessRepository) *BusinessHandler {
	return &BusinessHandler{businessRepo: businessRepo}
}

// Search 按条件检索商家
func (h *BusinessHandler) Search(c *gin.Context) {
	var req dto.BusinessSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	filter := repository.BusinessFilter{
		Query:     req.Query,
		Category:  entity.BusinessCategory(req.Category),
		City:      req.City,
		MinRating: req.MinRating,
		BBox: entity.BoundingBox{
			MinLat: req.MinLat,
			MaxLat: req.MaxLat,
			MinLng: req.MinLng,
			MaxLng: req.MaxLng,
		},
	}

	result, err := h.businessRepo.Search(c.Request.Context(), filter,
		repository.NewPagination(req.Page, req.PageSize))
	if err != nil {
		logger.Error(c.Request.Context(), "business search failed", err, "query", req.Query)
		dto.InternalError(c, "failed to search businesses")
		return
	}

	dto.SuccessWithPage(c, dto.ToBusinessDTOs(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// GetByID 查询单个商家详情
func (h *BusinessHandler) GetByID(c *gin.Context) {
	id := c.Param("bid")
	if _, err := uuid.Parse(id); err != nil {
		dto.BadRequest(c, "invalid business id")
		return
	}

	business, err := h.businessRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to get business", err, "business_id", id)
		dto.InternalError(c, "failed to get business")
		return
	}
	if business == nil || !business.Active {
		dto.AppError(c, apperrors.New(apperrors.CodeBusinessNotFound, "business not found"))
		return
	}

	dto.Success(c, dto.ToBusinessDTO(business))
}
