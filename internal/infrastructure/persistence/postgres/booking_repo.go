package postgres

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
)

// BookingRepository 预订仓储实现
type BookingRepository struct {
	client *Client
}

func NewBookingRepository(client *Client) *BookingRepository {
	return &BookingRepository{client: client}
}

func (r *BookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	ctx, span := tracer.Start(ctx, "postgres.BookingRepository.Create")
	span.SetAttributes(
		attribute.String("booking.business_id", booking.BusinessID),
		attribute.String("booking.user_id", booking.UserID),
	)
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(booking).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID 按 ID 查询预订；未找到时返回 nil, nil
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	ctx, span := tracer.Start(ctx, "postgres.BookingRepository.GetByID")
	span.SetAttributes(attribute.String("booking.id", id))
	defer span.End()

	db := getDB(ctx, r.client.db)
	var booking entity.Booking
	if err := db.First(&booking, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// ListByUser 按用户分页查询预订，按开始时间倒序
func (r *BookingRepository) ListByUser(ctx context.Context, userID string, p repository.Pagination) (*repository.PagedResult[*entity.Booking], error) {
	ctx, span := tracer.Start(ctx, "postgres.BookingRepository.ListByUser")
	span.SetAttributes(attribute.String("user.id", userID))
	defer span.End()

	db := getDB(ctx, r.client.db)

	var total int64
	if err := db.Model(&entity.Booking{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	var bookings []*entity.Booking
	err := db.Where("user_id = ?", userID).
		Order("booking_at DESC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&bookings).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return repository.NewPagedResult(bookings, total, p), nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status entity.BookingStatus) error {
	ctx, span := tracer.Start(ctx, "postgres.BookingRepository.UpdateStatus")
	span.SetAttributes(
		attribute.String("booking.id", id),
		attribute.String("booking.status", string(status)),
	)
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.Booking{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return nil
}
