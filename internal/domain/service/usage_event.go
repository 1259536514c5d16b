package service

import "context"

// UsageEventInput 表示一次已完成的特性调用的分析数据。
// 说明：该结构位于 domain/service，作为跨层的稳定契约（port），避免基础设施层依赖应用层实现。
type UsageEventInput struct {
	IdentityKey   string
	IdentityClass string
	Feature       string
	Persona       string
	Intent        string

	PromptTokens     int
	CompletionTokens int
	DurationMs       int
	Fallback         bool
}

// UsageEventPublisher 负责异步发布用量分析事件。
// 约定：实现应尽量 best-effort，不应阻塞主业务流程。
type UsageEventPublisher interface {
	Publish(ctx context.Context, in UsageEventInput) error
}
