// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"lifex-api/internal/domain/entity"
)

type ConversationMessageRepository interface {
	Create(ctx context.Context, msg *entity.ConversationMessage) error
	// CreatePair 在同一事务中追加用户轮与助手轮
	CreatePair(ctx context.Context, userMsg, assistantMsg *entity.ConversationMessage) error
	ListBySession(ctx context.Context, userID, sessionID string, pagination Pagination) (*PagedResult[*entity.ConversationMessage], error)
	// LatestBySession 返回会话最近 n 轮消息（时间升序）
	LatestBySession(ctx context.Context, userID, sessionID string, n int) ([]*entity.ConversationMessage, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}
