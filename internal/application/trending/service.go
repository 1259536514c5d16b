// Package trending 提供热门商家榜单
package trending

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
	"lifex-api/internal/infrastructure/persistence/redis"
	"lifex-api/pkg/logger"
)

// Service 热门商家服务。榜单按评分排序，
// 走 Redis 读穿缓存并用 singleflight 合并并发回源。
type Service struct {
	businessRepo repository.BusinessRepository
	cache        *redis.Cache
	ttl          time.Duration
	size         int
}

// NewService 创建热门商家服务。cache 允许为 nil（直查行存）。
func NewService(businessRepo repository.BusinessRepository, cache *redis.Cache, ttl time.Duration, size int) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if size <= 0 {
		size = 10
	}
	return &Service{
		businessRepo: businessRepo,
		cache:        cache,
		ttl:          ttl,
		size:         size,
	}
}

// Trending 返回热门商家，可按类目过滤
func (s *Service) Trending(ctx context.Context, category entity.BusinessCategory) ([]*entity.Business, error) {
	if s.cache == nil {
		return s.businessRepo.TopRated(ctx, category, s.size)
	}

	key := redis.BuildTrendingKey(string(category), s.size)
	data, err := s.cache.GetOrLoadSafe(ctx, key, s.ttl, func() (interface{}, error) {
		return s.businessRepo.TopRated(ctx, category, s.size)
	})
	if err != nil {
		// 缓存链路故障时直查行存
		logger.Warn(ctx, "trending cache failed, querying store directly", "error", err)
		return s.businessRepo.TopRated(ctx, category, s.size)
	}

	var businesses []*entity.Business
	if err := json.Unmarshal(data, &businesses); err != nil {
		return nil, fmt.Errorf("failed to decode trending cache: %w", err)
	}
	return businesses, nil
}
