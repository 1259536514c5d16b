package assistant

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"lifex-api/internal/application/quota"
	"lifex-api/internal/config"
	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
	"lifex-api/internal/domain/service"
	apperrors "lifex-api/pkg/errors"
	"lifex-api/pkg/logger"
	"lifex-api/pkg/metrics"
)

// ChatInput 一次助手请求
type ChatInput struct {
	UserID        string
	SessionID     string
	Message       string
	AssistantType string
}

// QuotaInfo 返回给调用方的配额快照
type QuotaInfo struct {
	Current   int
	Limit     int
	Remaining int
	ResetAt   time.Time
	Degraded  bool
}

// ChatOutput 助手请求结果。配额被拒时 Reply 为 nil，QuotaInfo 仍然有效。
type ChatOutput struct {
	Reply     *Reply
	Quota     QuotaInfo
	Persona   entity.Persona
	SessionID string
}

// Service 助手编排服务：身份解析、人设门禁、配额裁决、
// 回复生成、用量记账与对话落库。
type Service struct {
	gate      *quota.Gate
	recorder  *quota.Recorder
	responder *Responder
	userRepo  repository.UserRepository
	convRepo  repository.ConversationMessageRepository
	publisher service.UsageEventPublisher
	cfg       *config.AssistantConfig
}

// NewService 创建助手编排服务
func NewService(
	gate *quota.Gate,
	recorder *quota.Recorder,
	responder *Responder,
	userRepo repository.UserRepository,
	convRepo repository.ConversationMessageRepository,
	publisher service.UsageEventPublisher,
	cfg *config.AssistantConfig,
) *Service {
	return &Service{
		gate:      gate,
		recorder:  recorder,
		responder: responder,
		userRepo:  userRepo,
		convRepo:  convRepo,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Chat 处理一次助手请求。
// 配额耗尽返回 ErrQuotaExceeded，同时返回携带配额快照的 ChatOutput。
func (s *Service) Chat(ctx context.Context, in ChatInput) (*ChatOutput, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "message is required")
	}
	if s.cfg.MaxMessageChars > 0 && len([]rune(message)) > s.cfg.MaxMessageChars {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "message too long")
	}

	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	id, err := s.resolveIdentity(ctx, in.UserID, sessionID)
	if err != nil {
		return nil, err
	}

	persona := s.resolvePersona(in.AssistantType)
	if !personaAllowed(id, persona) {
		metrics.AssistantRequestsTotal.WithLabelValues(string(persona), string(id.Class), "forbidden").Inc()
		return nil, apperrors.ErrPersonaForbidden
	}

	decision := s.gate.Check(ctx, id, entity.FeatureChat)
	if !decision.Allowed {
		metrics.AssistantRequestsTotal.WithLabelValues(string(persona), string(id.Class), "denied").Inc()
		return &ChatOutput{
			Quota:     quotaInfoFromDecision(decision, decision.Current),
			Persona:   persona,
			SessionID: sessionID,
		}, apperrors.ErrQuotaExceeded
	}

	start := time.Now()
	reply := s.responder.Respond(ctx, id, persona, sessionID, message)
	metrics.AssistantRequestsTotal.WithLabelValues(string(persona), string(id.Class), "allowed").Inc()

	quotaInfo := s.recordUsage(ctx, id, decision)
	s.persistConversation(ctx, id, persona, sessionID, message, reply)
	s.publishUsageEvent(ctx, id, persona, reply, time.Since(start))

	return &ChatOutput{
		Reply:     reply,
		Quota:     quotaInfo,
		Persona:   persona,
		SessionID: sessionID,
	}, nil
}

// QuotaState 只读查询当前配额状态，不消耗配额
func (s *Service) QuotaState(ctx context.Context, userID, sessionID string, feature entity.Feature) (*QuotaInfo, error) {
	id, err := s.resolveIdentity(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	decision := s.gate.Check(ctx, id, feature)
	info := quotaInfoFromDecision(decision, decision.Current)
	if decision.Allowed && !decision.Unlimited {
		// 只读视角不预留名额
		info.Remaining = decision.Limit - decision.Current
	}
	return &info, nil
}

// History 返回注册用户某会话的消息记录
func (s *Service) History(ctx context.Context, userID, sessionID string, p repository.Pagination) (*repository.PagedResult[*entity.ConversationMessage], error) {
	id, err := s.resolveIdentity(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !id.ShouldPersist() {
		return nil, apperrors.New(apperrors.CodeForbidden, "conversation history is only available to registered users")
	}
	return s.convRepo.ListBySession(ctx, id.UserID, sessionID, p)
}

// resolveIdentity 划分身份类别；注册用户需要档案存在并取回层级
func (s *Service) resolveIdentity(ctx context.Context, userID, sessionID string) (entity.Identity, error) {
	id := entity.ClassifyIdentity(userID, sessionID)
	if id.Class != entity.IdentityRegistered {
		return id, nil
	}

	user, err := s.userRepo.GetByID(ctx, id.UserID)
	if err != nil {
		return id, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to look up user")
	}
	if user == nil {
		return id, apperrors.ErrUserNotFound
	}

	id.Tier = user.Tier
	return id, nil
}

func (s *Service) resolvePersona(assistantType string) entity.Persona {
	t := strings.TrimSpace(assistantType)
	if t == "" {
		t = s.cfg.DefaultPersona
	}
	return entity.ParsePersona(t)
}

// recordUsage 下游成功后计一次用量并生成配额快照
func (s *Service) recordUsage(ctx context.Context, id entity.Identity, decision quota.Decision) QuotaInfo {
	count, err := s.recorder.Record(ctx, id, entity.FeatureChat)
	if err != nil {
		// strict 模式下记账失败不回滚回复，只标记降级
		logger.Error(ctx, "usage record failed", err, "identity_key", id.QuotaKey())
		info := quotaInfoFromDecision(decision, decision.Current+1)
		info.Degraded = true
		return info
	}

	current := count
	if current == 0 {
		current = decision.Current + 1
	}
	return quotaInfoFromDecision(decision, current)
}

// persistConversation 注册非演示身份成对落库；失败记日志不影响请求
func (s *Service) persistConversation(ctx context.Context, id entity.Identity, persona entity.Persona, sessionID, message string, reply *Reply) {
	if !id.ShouldPersist() || s.convRepo == nil {
		return
	}

	meta, _ := json.Marshal(map[string]string{
		"source": string(reply.Source),
		"intent": string(reply.Intent),
	})

	userMsg := entity.NewConversationMessage(id.UserID, sessionID, entity.RoleUser, persona, message, nil)
	assistantMsg := entity.NewConversationMessage(id.UserID, sessionID, entity.RoleAssistant, persona, reply.Message, meta)

	if err := s.convRepo.CreatePair(ctx, userMsg, assistantMsg); err != nil {
		logger.Error(ctx, "failed to persist conversation", err,
			"user_id", id.UserID,
			"session_id", sessionID,
		)
	}
}

// publishUsageEvent 发布分析事件，尽力而为
func (s *Service) publishUsageEvent(ctx context.Context, id entity.Identity, persona entity.Persona, reply *Reply, duration time.Duration) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, service.UsageEventInput{
		IdentityKey:      id.QuotaKey(),
		IdentityClass:    string(id.Class),
		Feature:          string(entity.FeatureChat),
		Persona:          string(persona),
		Intent:           string(reply.Intent),
		PromptTokens:     reply.PromptTokens,
		CompletionTokens: reply.CompletionTokens,
		DurationMs:       int(duration.Milliseconds()),
		Fallback:         reply.Source == SourceFallback,
	})
	if err != nil {
		logger.Warn(ctx, "failed to publish usage event", "error", err)
	}
}

func quotaInfoFromDecision(d quota.Decision, current int) QuotaInfo {
	if d.Unlimited {
		return QuotaInfo{
			Current:   0,
			Limit:     quota.Unlimited,
			Remaining: quota.Unlimited,
			ResetAt:   d.ResetAt,
		}
	}

	remaining := d.Limit - current
	if remaining < 0 {
		remaining = 0
	}
	return QuotaInfo{
		Current:   current,
		Limit:     d.Limit,
		Remaining: remaining,
		ResetAt:   d.ResetAt,
		Degraded:  d.Degraded,
	}
}
