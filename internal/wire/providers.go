// Package wire 提供依赖注入配置
package wire

import (
	"context"

	einoembedding "github.com/cloudwego/eino/components/embedding"

	"lifex-api/internal/application/ads"
	"lifex-api/internal/application/quota"
	"lifex-api/internal/application/trending"
	"lifex-api/internal/config"
	"lifex-api/internal/domain/repository"
	"lifex-api/internal/domain/service"
	infraembedding "lifex-api/internal/infrastructure/embedding"
	"lifex-api/internal/infrastructure/messaging"
	"lifex-api/internal/infrastructure/persistence/milvus"
	"lifex-api/internal/infrastructure/persistence/postgres"
	"lifex-api/internal/infrastructure/persistence/redis"
	"lifex-api/internal/interfaces/http/middleware"
	"lifex-api/internal/interfaces/http/router"
	"lifex-api/pkg/logger"
	"lifex-api/pkg/utils"
)

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient     *postgres.Client
	TxManager    *postgres.TxManager
	UserRepo     *postgres.UserRepository
	BusinessRepo *postgres.BusinessRepository
	BookingRepo  *postgres.BookingRepository
	AdRepo       *postgres.AdRepository
	ConvRepo     *postgres.ConversationMessageRepository
	CounterRepo  *postgres.UsageCounterRepository
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideMilvusClientOptional 提供可选的 Milvus 客户端，
// 未启用或不可达时返回 nil，语义检索自动降级为条件检索
func ProvideMilvusClientOptional(ctx context.Context, cfg *config.Config) (*milvus.Client, func(), error) {
	if !cfg.Vector.Milvus.Enabled {
		return nil, func() {}, nil
	}
	client, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		logger.Warn(ctx, "milvus not available, semantic search disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideMilvusRepositoryOptional 提供可选的向量仓储
func ProvideMilvusRepositoryOptional(client *milvus.Client) *milvus.Repository {
	if client == nil {
		return nil
	}
	return milvus.NewRepository(client)
}

// ProvideEmbedderOptional 提供可选的 Embedder
func ProvideEmbedderOptional(ctx context.Context, cfg *config.Config) (einoembedding.Embedder, error) {
	if !cfg.Embedding.Enabled {
		return nil, nil
	}
	embedder, err := infraembedding.NewEinoEmbedder(ctx, &cfg.Embedding)
	if err != nil {
		logger.Warn(ctx, "embedding not available, semantic search disabled", "error", err.Error())
		return nil, nil
	}
	return embedder, nil
}

// ProvideUsageEventPublisher 提供用量事件发布器，
// 消息队列未启用时退化为空实现
func ProvideUsageEventPublisher(redisClient *redis.Client, cfg *config.Config) service.UsageEventPublisher {
	if !cfg.Messaging.RedisStream.Enabled {
		return messaging.NopUsageEventPublisher{}
	}
	maxLen := cfg.Messaging.RedisStream.MaxLen
	producer := messaging.NewProducer(redisClient.Redis(), maxLen)
	return messaging.NewUsageEventProducer(producer)
}

// ProvideQuotaPolicy 提供配额策略
func ProvideQuotaPolicy(cfg *config.Config) *quota.Policy {
	return quota.NewPolicy(&cfg.Quota)
}

// ProvideStoreSet 提供用量计数器双存储：匿名走 Redis，注册走 Postgres
func ProvideStoreSet(anonymous *redis.UsageCounterStore, registered *postgres.UsageCounterRepository) *quota.StoreSet {
	return quota.NewStoreSet(anonymous, registered)
}

// ProvideQuotaRecorder 提供用量记账器
func ProvideQuotaRecorder(policy *quota.Policy, stores *quota.StoreSet, cfg *config.Config) *quota.Recorder {
	return quota.NewRecorder(policy, stores, cfg.Quota.StrictAccounting)
}

// ProvideAdsSelector 提供广告选择器
func ProvideAdsSelector(adRepo repository.AdRepository, cfg *config.Config) *ads.Selector {
	return ads.NewSelector(adRepo, cfg.Ads.Enabled)
}

// ProvideTrendingService 提供热门商家服务
func ProvideTrendingService(businessRepo repository.BusinessRepository, cache *redis.Cache, cfg *config.Config) *trending.Service {
	return trending.NewService(businessRepo, cache, cfg.Trending.CacheTTL, cfg.Trending.Size)
}

// ProvideAssistantConfig 提供助手配置
func ProvideAssistantConfig(cfg *config.Config) *config.AssistantConfig {
	return &cfg.Assistant
}

// ProvideJWTManager 提供 JWT 管理器
func ProvideJWTManager(cfg *config.Config) *utils.JWTManager {
	return utils.NewJWTManager(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer)
}

// ProvideRouter 提供 HTTP 路由器
func ProvideRouter(cfg *config.Config, handlers router.Handlers, limiter middleware.RateLimiter) *router.Router {
	return router.New(cfg, handlers, limiter)
}
