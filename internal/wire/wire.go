//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"lifex-api/internal/application/assistant"
	"lifex-api/internal/application/quota"
	"lifex-api/internal/application/recommend"
	"lifex-api/internal/config"
	"lifex-api/internal/domain/repository"
	"lifex-api/internal/infrastructure/llm"
	"lifex-api/internal/infrastructure/persistence/postgres"
	"lifex-api/internal/infrastructure/persistence/redis"
	"lifex-api/internal/interfaces/http/handler"
	"lifex-api/internal/interfaces/http/middleware"
	"lifex-api/internal/interfaces/http/router"
)

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		PostgresSet,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		MilvusSet,
		EmbeddingSet,
		QuotaSet,
		AssistantSet,
		RouterSet,
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewBusinessRepository,
	postgres.NewBookingRepository,
	postgres.NewAdRepository,
	postgres.NewConversationMessageRepository,
	postgres.NewUsageCounterRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.BusinessRepository), new(*postgres.BusinessRepository)),
	wire.Bind(new(repository.BookingRepository), new(*postgres.BookingRepository)),
	wire.Bind(new(repository.AdRepository), new(*postgres.AdRepository)),
	wire.Bind(new(repository.ConversationMessageRepository), new(*postgres.ConversationMessageRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	redis.NewUsageCounterStore,
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideUsageEventPublisher,
)

// MilvusSet 可选 Milvus（不可达时语义检索自动降级）
var MilvusSet = wire.NewSet(
	ProvideMilvusClientOptional,
	ProvideMilvusRepositoryOptional,
)

// EmbeddingSet 可选 Embedder（不可用时禁用语义检索）
var EmbeddingSet = wire.NewSet(
	ProvideEmbedderOptional,
)

// QuotaSet 配额提供者集合
var QuotaSet = wire.NewSet(
	ProvideQuotaPolicy,
	ProvideStoreSet,
	quota.NewGate,
	ProvideQuotaRecorder,
)

// AssistantSet 助手编排提供者集合
var AssistantSet = wire.NewSet(
	llm.NewEinoFactory,
	recommend.NewEngine,
	ProvideAdsSelector,
	ProvideTrendingService,
	ProvideAssistantConfig,
	assistant.NewResponder,
	assistant.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideJWTManager,
	handler.NewHealthHandler,
	handler.NewAuthHandler,
	handler.NewAssistantHandler,
	handler.NewBusinessHandler,
	handler.NewTrendingHandler,
	handler.NewBookingHandler,
	wire.Struct(new(router.Handlers), "*"),
	ProvideRouter,
)
