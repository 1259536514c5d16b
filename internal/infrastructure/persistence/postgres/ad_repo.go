package postgres

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"lifex-api/internal/domain/entity"
)

// AdRepository 广告仓储实现
type AdRepository struct {
	client *Client
}

func NewAdRepository(client *Client) *AdRepository {
	return &AdRepository{client: client}
}

func (r *AdRepository) Create(ctx context.Context, ad *entity.Ad) error {
	ctx, span := tracer.Start(ctx, "postgres.AdRepository.Create")
	span.SetAttributes(attribute.String("ad.title", ad.Title))
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(ad).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create ad: %w", err)
	}
	return nil
}

// ListLive 查询指定位置当前生效的广告
func (r *AdRepository) ListLive(ctx context.Context, placement entity.AdPlacement) ([]*entity.Ad, error) {
	ctx, span := tracer.Start(ctx, "postgres.AdRepository.ListLive")
	span.SetAttributes(attribute.String("ad.placement", string(placement)))
	defer span.End()

	now := time.Now().UTC()
	db := getDB(ctx, r.client.db)
	var ads []*entity.Ad
	err := db.Where("placement = ? AND active = TRUE AND starts_at <= ? AND ends_at > ?", placement, now, now).
		Order("weight DESC").
		Find(&ads).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list live ads: %w", err)
	}
	return ads, nil
}
