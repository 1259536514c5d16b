package postgres

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
)

// ConversationMessageRepository 会话消息仓储实现
type ConversationMessageRepository struct {
	client *Client
}

var _ repository.ConversationMessageRepository = (*ConversationMessageRepository)(nil)

func NewConversationMessageRepository(client *Client) *ConversationMessageRepository {
	return &ConversationMessageRepository{client: client}
}

func (r *ConversationMessageRepository) Create(ctx context.Context, msg *entity.ConversationMessage) error {
	ctx, span := tracer.Start(ctx, "postgres.ConversationMessageRepository.Create")
	span.SetAttributes(
		attribute.String("conversation.session_id", msg.SessionID),
		attribute.String("conversation.role", string(msg.Role)),
	)
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(msg).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create conversation message: %w", err)
	}
	return nil
}

// CreatePair 在同一事务中写入用户消息与助手回复，保证成对落库
func (r *ConversationMessageRepository) CreatePair(ctx context.Context, userMsg, assistantMsg *entity.ConversationMessage) error {
	ctx, span := tracer.Start(ctx, "postgres.ConversationMessageRepository.CreatePair")
	span.SetAttributes(attribute.String("conversation.session_id", userMsg.SessionID))
	defer span.End()

	db := getDB(ctx, r.client.db)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userMsg).Error; err != nil {
			return err
		}
		return tx.Create(assistantMsg).Error
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create conversation pair: %w", err)
	}
	return nil
}

// ListBySession 按会话分页查询消息，按时间正序。
// 始终带 user_id 条件，避免跨用户读取他人会话
func (r *ConversationMessageRepository) ListBySession(ctx context.Context, userID, sessionID string, p repository.Pagination) (*repository.PagedResult[*entity.ConversationMessage], error) {
	ctx, span := tracer.Start(ctx, "postgres.ConversationMessageRepository.ListBySession")
	span.SetAttributes(attribute.String("conversation.session_id", sessionID))
	defer span.End()

	db := getDB(ctx, r.client.db)

	var total int64
	if err := db.Model(&entity.ConversationMessage{}).Where("user_id = ? AND session_id = ?", userID, sessionID).Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count conversation messages: %w", err)
	}

	var msgs []*entity.ConversationMessage
	err := db.Where("user_id = ? AND session_id = ?", userID, sessionID).
		Order("created_at ASC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&msgs).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list conversation messages: %w", err)
	}
	return repository.NewPagedResult(msgs, total, p), nil
}

// LatestBySession 取会话最近 n 条消息，按时间正序返回，用于拼接模型上下文
func (r *ConversationMessageRepository) LatestBySession(ctx context.Context, userID, sessionID string, n int) ([]*entity.ConversationMessage, error) {
	ctx, span := tracer.Start(ctx, "postgres.ConversationMessageRepository.LatestBySession")
	span.SetAttributes(attribute.String("conversation.session_id", sessionID))
	defer span.End()

	db := getDB(ctx, r.client.db)
	var msgs []*entity.ConversationMessage
	err := db.Where("user_id = ? AND session_id = ?", userID, sessionID).
		Order("created_at DESC").
		Limit(n).
		Find(&msgs).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list latest conversation messages: %w", err)
	}

	// 倒序查询后翻转为时间正序
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *ConversationMessageRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.ConversationMessageRepository.CountByUser")
	span.SetAttributes(attribute.String("user.id", userID))
	defer span.End()

	db := getDB(ctx, r.client.db)
	var total int64
	if err := db.Model(&entity.ConversationMessage{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count user messages: %w", err)
	}
	return total, nil
}
