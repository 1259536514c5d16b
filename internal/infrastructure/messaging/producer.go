// Package messaging 提供消息队列实现
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lifex-api/internal/domain/service"
)

var tracer = otel.Tracer("messaging")

// Producer 消息生产者
type Producer struct {
	client *redis.Client
	maxLen int64
}

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 100000
	}
	return &Producer{
		client: client,
		maxLen: maxLen,
	}
}

// Publish 发布消息到指定流
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// UsageEventMessage 用量分析事件消息
type UsageEventMessage struct {
	IdentityKey      string `json:"identity_key"`
	IdentityClass    string `json:"identity_class"`
	Feature          string `json:"feature"`
	Persona          string `json:"persona,omitempty"`
	Intent           string `json:"intent,omitempty"`
	PromptTokens     int    `json:"prompt_tokens,omitempty"`
	CompletionTokens int    `json:"completion_tokens,omitempty"`
	DurationMs       int    `json:"duration_ms"`
	Fallback         bool   `json:"fallback"`
}

// UsageEventProducer 将用量事件发布到 Redis Stream，供下游分析消费。
// 实现 service.UsageEventPublisher。
type UsageEventProducer struct {
	producer *Producer
}

func NewUsageEventProducer(producer *Producer) *UsageEventProducer {
	return &UsageEventProducer{producer: producer}
}

// Publish 发布用量事件
func (p *UsageEventProducer) Publish(ctx context.Context, in service.UsageEventInput) error {
	event := UsageEventMessage{
		IdentityKey:      in.IdentityKey,
		IdentityClass:    in.IdentityClass,
		Feature:          in.Feature,
		Persona:          in.Persona,
		Intent:           in.Intent,
		PromptTokens:     in.PromptTokens,
		CompletionTokens: in.CompletionTokens,
		DurationMs:       in.DurationMs,
		Fallback:         in.Fallback,
	}

	msg, err := NewMessage(uuid.NewString(), "usage_event", event)
	if err != nil {
		return err
	}
	msg.SetMetadata("feature", in.Feature)

	_, err = p.producer.Publish(ctx, StreamUsageEvents, msg)
	return err
}

// NopUsageEventPublisher 消息队列未启用时的空实现
type NopUsageEventPublisher struct{}

func (NopUsageEventPublisher) Publish(ctx context.Context, in service.UsageEventInput) error {
	return nil
}
