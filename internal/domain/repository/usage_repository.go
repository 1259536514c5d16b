// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"lifex-api/internal/domain/entity"
)

// UsageCounterStore 用量计数存储。
// 实现约定：Increment 必须是单条原子操作（upsert + 自增 + 返回新值），
// 不允许读取后回写，避免并发请求丢失更新。
type UsageCounterStore interface {
	// GetCount 读取当前周期计数；不存在时返回 0，不产生写入。
	GetCount(ctx context.Context, identityKey string, feature entity.Feature, periodKey string) (int, error)
	// Increment 原子自增并返回自增后的计数。
	Increment(ctx context.Context, identityKey string, feature entity.Feature, periodKey string) (int, error)
}
