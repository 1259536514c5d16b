// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"lifex-api/internal/domain/entity"
)

type AdRepository interface {
	Create(ctx context.Context, ad *entity.Ad) error
	// ListLive 返回指定广告位当前在投的广告
	ListLive(ctx context.Context, placement entity.AdPlacement) ([]*entity.Ad, error)
}
