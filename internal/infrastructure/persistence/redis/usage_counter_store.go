package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"lifex-api/internal/domain/entity"
)

var usageTracer = otel.Tracer("redis.usage")

// UsageCounterStore 匿名身份用量计数存储。
// 匿名会话无需跨周期留存，计数直接落在 Redis 上，
// 键在周期重置点之后自动过期，无需后台清理任务。
type UsageCounterStore struct {
	client *Client
}

func NewUsageCounterStore(client *Client) *UsageCounterStore {
	return &UsageCounterStore{client: client}
}

func buildUsageKey(identityKey string, feature entity.Feature, periodKey string) string {
	return fmt.Sprintf("usage:%s:%s:%s", identityKey, feature, periodKey)
}

// GetCount 读取当前周期计数；键不存在时返回 0
func (s *UsageCounterStore) GetCount(ctx context.Context, identityKey string, feature entity.Feature, periodKey string) (int, error) {
	ctx, span := usageTracer.Start(ctx, "redis.UsageCounterStore.GetCount")
	span.SetAttributes(
		attribute.String("usage.identity_key", identityKey),
		attribute.String("usage.feature", string(feature)),
		attribute.String("usage.period_key", periodKey),
	)
	defer span.End()

	val, err := s.client.rdb.Get(ctx, buildUsageKey(identityKey, feature, periodKey)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		span.RecordError(err)
		return 0, fmt.Errorf("failed to get usage count: %w", err)
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to parse usage count: %w", err)
	}
	return count, nil
}

// Increment 原子自增并返回新计数。
// 首次自增时按周期剩余时间设置过期，留出少量余量避免边界抖动。
func (s *UsageCounterStore) Increment(ctx context.Context, identityKey string, feature entity.Feature, periodKey string) (int, error) {
	ctx, span := usageTracer.Start(ctx, "redis.UsageCounterStore.Increment")
	span.SetAttributes(
		attribute.String("usage.identity_key", identityKey),
		attribute.String("usage.feature", string(feature)),
		attribute.String("usage.period_key", periodKey),
	)
	defer span.End()

	key := buildUsageKey(identityKey, feature, periodKey)
	count, err := s.client.rdb.Incr(ctx, key).Result()
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to increment usage count: %w", err)
	}

	if count == 1 {
		ttl := ttlForPeriodKey(periodKey, time.Now().UTC())
		if err := s.client.rdb.Expire(ctx, key, ttl).Err(); err != nil {
			// 过期设置失败只影响回收，不影响计数
			span.RecordError(err)
		}
	}

	span.SetAttributes(attribute.Int64("usage.count", count))
	return int(count), nil
}

// ttlForPeriodKey 计算到下一个周期重置点的剩余时间，外加一小时余量。
// 周期类型从键格式推断：2006-01 为月，2006-01-02 为日，2006-01-02T15 为时。
func ttlForPeriodKey(periodKey string, now time.Time) time.Duration {
	var period entity.Period
	switch len(periodKey) {
	case len("2006-01"):
		period = entity.PeriodMonth
	case len("2006-01-02T15"):
		period = entity.PeriodHour
	default:
		period = entity.PeriodDay
	}
	return period.NextReset(now).Sub(now) + time.Hour
}
