// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"lifex-api/internal/domain/entity"
)

// UsageCounterRepository 用量计数仓储实现。
// Increment 使用单条 upsert 语句完成自增并取回新值，并发请求不会丢失更新。
type UsageCounterRepository struct {
	client *Client
}

func NewUsageCounterRepository(client *Client) *UsageCounterRepository {
	return &UsageCounterRepository{client: client}
}

// GetCount 读取当前周期计数；无记录时返回 0
func (r *UsageCounterRepository) GetCount(ctx context.Context, identityKey string, feature entity.Feature, periodKey string) (int, error) {
	ctx, span := tracer.Start(ctx, "postgres.UsageCounterRepository.GetCount")
	span.SetAttributes(
		attribute.String("usage.identity_key", identityKey),
		attribute.String("usage.feature", string(feature)),
		attribute.String("usage.period_key", periodKey),
	)
	defer span.End()

	db := getDB(ctx, r.client.db)
	var counter entity.UsageCounter
	err := db.First(&counter, "identity_key = ? AND feature = ? AND period_key = ?", identityKey, feature, periodKey).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		span.RecordError(err)
		return 0, fmt.Errorf("failed to get usage counter: %w", err)
	}
	return counter.Count, nil
}

// Increment 原子自增并返回新计数
func (r *UsageCounterRepository) Increment(ctx context.Context, identityKey string, feature entity.Feature, periodKey string) (int, error) {
	ctx, span := tracer.Start(ctx, "postgres.UsageCounterRepository.Increment")
	span.SetAttributes(
		attribute.String("usage.identity_key", identityKey),
		attribute.String("usage.feature", string(feature)),
		attribute.String("usage.period_key", periodKey),
	)
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int
	err := db.Raw(`
		INSERT INTO usage_counters (identity_key, feature, period_key, count, created_at, updated_at)
		VALUES (?, ?, ?, 1, NOW(), NOW())
		ON CONFLICT (identity_key, feature, period_key)
		DO UPDATE SET count = usage_counters.count + 1, updated_at = NOW()
		RETURNING count`,
		identityKey, feature, periodKey,
	).Scan(&count).Error
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to increment usage counter: %w", err)
	}

	span.SetAttributes(attribute.Int("usage.count", count))
	return count, nil
}
