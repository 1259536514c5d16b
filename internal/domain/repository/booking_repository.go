// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"lifex-api/internal/domain/entity"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.Booking], error)
	UpdateStatus(ctx context.Context, id string, status entity.BookingStatus) error
}
