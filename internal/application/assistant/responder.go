package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"lifex-api/internal/application/ads"
	"lifex-api/internal/application/recommend"
	"lifex-api/internal/config"
	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
	"lifex-api/internal/infrastructure/llm"
	einoobs "lifex-api/internal/observability/eino"
	"lifex-api/pkg/logger"
	"lifex-api/pkg/metrics"
)

// Source 回复来源
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Reply 助手回复。永远是一个结构完整的对象，Recommendations 可能为空。
type Reply struct {
	Message           string
	Source            Source
	Intent            Intent
	Recommendations   []*entity.Business
	FollowUpQuestions []string
	Ad                *entity.Ad

	PromptTokens     int
	CompletionTokens int
}

// Responder 回复生成器：分类、分发、装饰、降级。
// 上游模型的任何失败（报错、超时、空内容）都不向调用方抛错，
// 而是降级为人设对应的固定话术。
type Responder struct {
	factory  *llm.EinoFactory
	engine   *recommend.Engine
	selector *ads.Selector
	convRepo repository.ConversationMessageRepository
	cfg      *config.AssistantConfig
	now      func() time.Time
}

// NewResponder 创建回复生成器
func NewResponder(
	factory *llm.EinoFactory,
	engine *recommend.Engine,
	selector *ads.Selector,
	convRepo repository.ConversationMessageRepository,
	cfg *config.AssistantConfig,
) *Responder {
	return &Responder{
		factory:  factory,
		engine:   engine,
		selector: selector,
		convRepo: convRepo,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Respond 为一条用户消息生成回复。上游失败一律降级，不返回错误。
func (r *Responder) Respond(ctx context.Context, id entity.Identity, persona entity.Persona, sessionID, message string) *Reply {
	start := r.now()
	classification := Classify(message)

	var reply *Reply
	switch classification.Intent {
	case IntentRecommendation:
		reply = r.respondRecommendation(ctx, persona, message, classification)
	default:
		reply = r.respondConversation(ctx, id, persona, sessionID, message)
	}

	reply.Intent = classification.Intent
	r.decorate(ctx, id, persona, message, reply)

	metrics.AssistantReplyDuration.WithLabelValues(string(persona), string(classification.Intent)).
		Observe(time.Since(start).Seconds())
	return reply
}

// respondRecommendation 推荐类请求走商家检索，不经过模型
func (r *Responder) respondRecommendation(ctx context.Context, persona entity.Persona, message string, c Classification) *Reply {
	businesses, err := r.engine.Recommend(ctx, recommendQuery(message, c))
	if err != nil {
		logger.Warn(ctx, "recommendation lookup failed", "category", c.Category, "error", err)
		return r.fallback(ctx, persona, "recommend_error")
	}

	return &Reply{
		Message:         recommendationMessage(c.Category, len(businesses)),
		Source:          SourceModel,
		Recommendations: businesses,
	}
}

// respondConversation 普通对话走模型补全，携带人设提示词与近期上下文
func (r *Responder) respondConversation(ctx context.Context, id entity.Identity, persona entity.Persona, sessionID, message string) *Reply {
	chatModel, err := r.factory.Default(ctx)
	if err != nil {
		logger.Warn(ctx, "chat model unavailable", "error", err)
		return r.fallback(ctx, persona, "model_unavailable")
	}

	msgs := []*schema.Message{
		schema.SystemMessage(profileFor(persona).SystemPrompt),
	}
	msgs = append(msgs, r.historyMessages(ctx, id, sessionID)...)
	msgs = append(msgs, schema.UserMessage(message))

	timeout := r.cfg.ReplyTimeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	callCtx = einoobs.WithProvider(callCtx, r.factory.DefaultProvider())

	outMsg, err := chatModel.Generate(callCtx, msgs)
	if err != nil {
		logger.Warn(ctx, "llm call failed", "persona", persona, "error", err)
		return r.fallback(ctx, persona, "llm_error")
	}
	if outMsg == nil || strings.TrimSpace(outMsg.Content) == "" {
		// 异常结构的上游响应按空内容处理
		return r.fallback(ctx, persona, "empty_response")
	}

	reply := &Reply{
		Message: strings.TrimSpace(outMsg.Content),
		Source:  SourceModel,
	}
	if outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		reply.PromptTokens = outMsg.ResponseMeta.Usage.PromptTokens
		reply.CompletionTokens = outMsg.ResponseMeta.Usage.CompletionTokens
	}
	return reply
}

// historyMessages 注册用户携带最近几轮上下文，匿名与演示不带
func (r *Responder) historyMessages(ctx context.Context, id entity.Identity, sessionID string) []*schema.Message {
	if !id.ShouldPersist() || r.convRepo == nil || sessionID == "" {
		return nil
	}

	turns := r.cfg.HistoryTurns
	if turns <= 0 {
		turns = 5
	}

	history, err := r.convRepo.LatestBySession(ctx, id.UserID, sessionID, turns*2)
	if err != nil {
		logger.Warn(ctx, "failed to load conversation history", "session_id", sessionID, "error", err)
		return nil
	}

	msgs := make([]*schema.Message, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case entity.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(m.Content, nil))
		default:
			msgs = append(msgs, schema.UserMessage(m.Content))
		}
	}
	return msgs
}

// decorate 附加广告与人设固定的追问建议
func (r *Responder) decorate(ctx context.Context, id entity.Identity, persona entity.Persona, message string, reply *Reply) {
	reply.FollowUpQuestions = profileFor(persona).FollowUpQuestions
	if r.selector != nil {
		reply.Ad = r.selector.Select(ctx, id, entity.PlacementChat, message)
	}
}

// fallback 人设固定话术降级
func (r *Responder) fallback(ctx context.Context, persona entity.Persona, reason string) *Reply {
	metrics.AssistantFallbackTotal.WithLabelValues(string(persona), reason).Inc()
	return &Reply{
		Message: profileFor(persona).FallbackMessage,
		Source:  SourceFallback,
	}
}

// recommendQuery 由用户原文与分类结果构建检索条件。
// 原文作为语义检索输入，让向量召回对关键词未覆盖的说法也能生效
func recommendQuery(message string, c Classification) recommend.Query {
	return recommend.Query{
		Text:     strings.TrimSpace(message),
		Category: c.Category,
		Limit:    5,
	}
}

func recommendationMessage(category entity.BusinessCategory, count int) string {
	if count == 0 {
		return "I couldn't find a great match just now, but try asking about coffee shops, restaurants or gyms nearby!"
	}
	label := "places"
	if category != "" {
		label = string(category) + " spots"
	}
	return fmt.Sprintf("Here are %d %s I think you'll love:", count, label)
}
