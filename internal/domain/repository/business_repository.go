// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"lifex-api/internal/domain/entity"
)

// BusinessFilter 商家检索过滤条件
type BusinessFilter struct {
	Query     string
	Category  entity.BusinessCategory
	City      string
	BBox      entity.BoundingBox
	MinRating float64
}

type BusinessRepository interface {
	Create(ctx context.Context, business *entity.Business) error
	GetByID(ctx context.Context, id string) (*entity.Business, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Business, error)
	Search(ctx context.Context, filter BusinessFilter, pagination Pagination) (*PagedResult[*entity.Business], error)
	// TopRated 按评分/热度返回前 n 个商家（热门榜单数据源），可按类目过滤
	TopRated(ctx context.Context, category entity.BusinessCategory, n int) ([]*entity.Business, error)
}
