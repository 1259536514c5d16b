// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Repository 商家向量检索仓储
type Repository struct {
	client *Client
}

// NewRepository 创建向量检索仓储
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// SearchParams 检索参数
type SearchParams struct {
	QueryVector []float32
	Category    string
	City        string
	MinRating   float32
	TopK        int
}

// SearchResult 检索结果
type SearchResult struct {
	ID          string
	Score       float32
	Name        string
	Category    string
	ProfileText string
}

// CreateCollection 创建集合
func (r *Repository) CreateCollection(ctx context.Context, schema *entity.Schema) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.CreateCollection",
		trace.WithAttributes(attribute.String("collection", schema.CollectionName)))
	defer span.End()

	collName := r.client.CollectionName(schema.CollectionName)
	schema.CollectionName = collName

	err := r.client.milvus.CreateCollection(ctx, schema, entity.DefaultShardNumber)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// CreateIndex 创建 HNSW 索引
func (r *Repository) CreateIndex(ctx context.Context, collection string) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.CreateIndex",
		trace.WithAttributes(attribute.String("collection", collection)))
	defer span.End()

	collName := r.client.CollectionName(collection)

	idx, err := entity.NewIndexHNSW(
		entity.COSINE,
		r.client.config.HNSWM,
		r.client.config.HNSWEfConstruction,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	err = r.client.milvus.CreateIndex(ctx, collName, "vector", idx, false)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// SearchBusinesses 语义检索商家，返回按相似度降序的商家 ID 与得分
func (r *Repository) SearchBusinesses(ctx context.Context, params *SearchParams) ([]*SearchResult, error) {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return nil, fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.SearchBusinesses",
		trace.WithAttributes(
			attribute.String("category", params.Category),
			attribute.Int("top_k", params.TopK),
		))
	defer span.End()

	collName := r.client.CollectionName(CollectionBusinessProfiles)

	// 构建过滤表达式
	filter := ""
	appendFilter := func(expr string) {
		if filter == "" {
			filter = expr
		} else {
			filter += " && " + expr
		}
	}
	if params.Category != "" {
		appendFilter(fmt.Sprintf(`category == "%s"`, params.Category))
	}
	if params.City != "" {
		appendFilter(fmt.Sprintf(`city == "%s"`, params.City))
	}
	if params.MinRating > 0 {
		appendFilter(fmt.Sprintf(`rating >= %f`, params.MinRating))
	}

	sp, err := entity.NewIndexHNSWSearchParam(128)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	results, err := r.client.milvus.Search(ctx,
		collName,
		nil,
		filter,
		[]string{"id", "name", "category", "profile_text"},
		[]entity.Vector{entity.FloatVector(params.QueryVector)},
		"vector",
		entity.COSINE,
		params.TopK,
		sp,
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var searchResults []*SearchResult
	for _, result := range results {
		for i := 0; i < result.ResultCount; i++ {
			sr := &SearchResult{
				Score: result.Scores[i],
			}

			if idCol, ok := result.Fields.GetColumn("id").(*entity.ColumnVarChar); ok {
				sr.ID = idCol.Data()[i]
			}
			if nameCol, ok := result.Fields.GetColumn("name").(*entity.ColumnVarChar); ok {
				sr.Name = nameCol.Data()[i]
			}
			if catCol, ok := result.Fields.GetColumn("category").(*entity.ColumnVarChar); ok {
				sr.Category = catCol.Data()[i]
			}
			if textCol, ok := result.Fields.GetColumn("profile_text").(*entity.ColumnVarChar); ok {
				sr.ProfileText = textCol.Data()[i]
			}

			searchResults = append(searchResults, sr)
		}
	}

	span.SetAttributes(attribute.Int("result_count", len(searchResults)))
	return searchResults, nil
}

// UpsertProfiles 写入商家画像向量
func (r *Repository) UpsertProfiles(ctx context.Context, profiles []*BusinessProfile) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.UpsertProfiles",
		trace.WithAttributes(attribute.Int("count", len(profiles))))
	defer span.End()

	if len(profiles) == 0 {
		return nil
	}

	collName := r.client.CollectionName(CollectionBusinessProfiles)

	ids := make([]string, len(profiles))
	vectors := make([][]float32, len(profiles))
	categories := make([]string, len(profiles))
	cities := make([]string, len(profiles))
	ratings := make([]float32, len(profiles))
	names := make([]string, len(profiles))
	texts := make([]string, len(profiles))

	for i, p := range profiles {
		ids[i] = p.ID
		vectors[i] = p.Vector
		categories[i] = p.Category
		cities[i] = p.City
		ratings[i] = p.Rating
		names[i] = p.Name
		texts[i] = p.ProfileText
	}

	columns := []entity.Column{
		entity.NewColumnVarChar("id", ids),
		entity.NewColumnFloatVector("vector", VectorDimension, vectors),
		entity.NewColumnVarChar("category", categories),
		entity.NewColumnVarChar("city", cities),
		entity.NewColumnFloat("rating", ratings),
		entity.NewColumnVarChar("name", names),
		entity.NewColumnVarChar("profile_text", texts),
	}

	if _, err := r.client.milvus.Upsert(ctx, collName, "", columns...); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert profiles: %w", err)
	}

	return nil
}

// DeleteProfiles 删除商家画像向量
func (r *Repository) DeleteProfiles(ctx context.Context, ids []string) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.DeleteProfiles",
		trace.WithAttributes(attribute.Int("count", len(ids))))
	defer span.End()

	if len(ids) == 0 {
		return nil
	}

	collName := r.client.CollectionName(CollectionBusinessProfiles)

	expr := "id in ["
	for i, id := range ids {
		if i > 0 {
			expr += ", "
		}
		expr += fmt.Sprintf(`"%s"`, id)
	}
	expr += "]"

	if err := r.client.milvus.Delete(ctx, collName, "", expr); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete profiles: %w", err)
	}

	return nil
}
