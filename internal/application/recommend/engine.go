// Package recommend 提供商家推荐检索
package recommend

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"

	embedclient "lifex-api/internal/infrastructure/embedding"
	"lifex-api/internal/infrastructure/persistence/milvus"
	"lifex-api/pkg/logger"

	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
)

// Query 推荐查询
type Query struct {
	Text      string
	Category  entity.BusinessCategory
	City      string
	BBox      entity.BoundingBox
	MinRating float64
	Limit     int
}

// Engine 推荐引擎。主路径是 Postgres 条件检索；
// 配置了向量检索时先做语义召回再用行存补全，向量侧失败回落到主路径。
type Engine struct {
	businessRepo repository.BusinessRepository
	vectorRepo   *milvus.Repository
	embedder     embedding.Embedder
}

// NewEngine 创建推荐引擎。vectorRepo 与 embedder 允许为 nil（未启用向量检索）。
func NewEngine(businessRepo repository.BusinessRepository, vectorRepo *milvus.Repository, embedder embedding.Embedder) *Engine {
	return &Engine{
		businessRepo: businessRepo,
		vectorRepo:   vectorRepo,
		embedder:     embedder,
	}
}

// Recommend 按查询条件返回推荐商家
func (e *Engine) Recommend(ctx context.Context, q Query) ([]*entity.Business, error) {
	if e == nil || e.businessRepo == nil {
		return nil, fmt.Errorf("business repository not configured")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 5
	}

	if e.vectorRepo != nil && e.embedder != nil && q.Text != "" {
		businesses, err := e.semanticSearch(ctx, q, limit)
		if err == nil && len(businesses) > 0 {
			return businesses, nil
		}
		if err != nil {
			logger.Warn(ctx, "semantic search failed, falling back to filter search", "error", err)
		}
	}

	return e.filterSearch(ctx, q, limit)
}

// semanticSearch 向量语义召回，再按行存补全完整商家数据
func (e *Engine) semanticSearch(ctx context.Context, q Query, limit int) ([]*entity.Business, error) {
	vector, err := embedclient.EmbedOne(ctx, e.embedder, q.Text)
	if err != nil {
		return nil, err
	}

	results, err := e.vectorRepo.SearchBusinesses(ctx, &milvus.SearchParams{
		QueryVector: vector,
		Category:    string(q.Category),
		City:        q.City,
		MinRating:   float32(q.MinRating),
		TopK:        limit,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	return e.businessRepo.GetByIDs(ctx, ids)
}

// filterSearch 行存条件检索，评分降序
func (e *Engine) filterSearch(ctx context.Context, q Query, limit int) ([]*entity.Business, error) {
	result, err := e.businessRepo.Search(ctx, repository.BusinessFilter{
		Category:  q.Category,
		City:      q.City,
		BBox:      q.BBox,
		MinRating: q.MinRating,
	}, repository.NewPagination(1, limit))
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}
