package postgres

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
)

// BusinessRepository 商家仓储实现
type BusinessRepository struct {
	client *Client
}

func NewBusinessRepository(client *Client) *BusinessRepository {
	return &BusinessRepository{client: client}
}

func (r *BusinessRepository) Create(ctx context.Context, business *entity.Business) error {
	ctx, span := tracer.Start(ctx, "postgres.BusinessRepository.Create")
	span.SetAttributes(attribute.String("business.name", business.Name))
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(business).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create business: %w", err)
	}
	return nil
}

// GetByID 按 ID 查询商家；未找到时返回 nil, nil
func (r *BusinessRepository) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	ctx, span := tracer.Start(ctx, "postgres.BusinessRepository.GetByID")
	span.SetAttributes(attribute.String("business.id", id))
	defer span.End()

	db := getDB(ctx, r.client.db)
	var business entity.Business
	if err := db.First(&business, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get business: %w", err)
	}
	return &business, nil
}

// GetByIDs 批量查询商家，返回顺序与入参一致，缺失的 ID 被跳过
func (r *BusinessRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Business, error) {
	ctx, span := tracer.Start(ctx, "postgres.BusinessRepository.GetByIDs")
	span.SetAttributes(attribute.Int("business.id_count", len(ids)))
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	db := getDB(ctx, r.client.db)
	var businesses []*entity.Business
	if err := db.Where("id IN ?", ids).Find(&businesses).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get businesses by ids: %w", err)
	}

	byID := make(map[string]*entity.Business, len(businesses))
	for _, b := range businesses {
		byID[b.ID] = b
	}
	ordered := make([]*entity.Business, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			ordered = append(ordered, b)
		}
	}
	return ordered, nil
}

// Search 按条件过滤商家，评分降序
func (r *BusinessRepository) Search(ctx context.Context, filter repository.BusinessFilter, p repository.Pagination) (*repository.PagedResult[*entity.Business], error) {
	ctx, span := tracer.Start(ctx, "postgres.BusinessRepository.Search")
	span.SetAttributes(
		attribute.String("business.query", filter.Query),
		attribute.String("business.category", string(filter.Category)),
	)
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Business{})
	query = applyBusinessFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count businesses: %w", err)
	}

	var businesses []*entity.Business
	err := query.Order("rating DESC, review_count DESC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&businesses).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search businesses: %w", err)
	}
	return repository.NewPagedResult(businesses, total, p), nil
}

// TopRated 取评分最高的 n 个商家，可按分类过滤
func (r *BusinessRepository) TopRated(ctx context.Context, category entity.BusinessCategory, n int) ([]*entity.Business, error) {
	ctx, span := tracer.Start(ctx, "postgres.BusinessRepository.TopRated")
	span.SetAttributes(attribute.String("business.category", string(category)))
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Business{}).Where("active = TRUE")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var businesses []*entity.Business
	err := query.Order("rating DESC, review_count DESC").Limit(n).Find(&businesses).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list top rated businesses: %w", err)
	}
	return businesses, nil
}

func applyBusinessFilter(query *gorm.DB, filter repository.BusinessFilter) *gorm.DB {
	query = query.Where("active = TRUE")
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR ? = ANY(tags)", like, like, filter.Query)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if !filter.BBox.IsZero() {
		query = query.Where("latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?",
			filter.BBox.MinLat, filter.BBox.MaxLat, filter.BBox.MinLng, filter.BBox.MaxLng)
	}
	if filter.MinRating > 0 {
		query = query.Where("rating >= ?", filter.MinRating)
	}
	return query
}
