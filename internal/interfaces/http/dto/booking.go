// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"lifex-api/internal/domain/entity"
)

// CreateBookingRequest 创建预订请求
type CreateBookingRequest struct {
	BusinessID string    `json:"businessId" binding:"required,uuid"`
	BookingAt  time.Time `json:"bookingAt" binding:"required"`
	PartySize  int       `json:"partySize" binding:"omitempty,min=1,max=50"`
	Note       string    `json:"note" binding:"omitempty,max=512"`
}

// BookingDTO 预订信息
type BookingDTO struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"businessId"`
	Status     string    `json:"status"`
	PartySize  int       `json:"partySize"`
	BookingAt  time.Time `json:"bookingAt"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToBookingDTO 将预订实体转换为 DTO
func ToBookingDTO(b *entity.Booking) *BookingDTO {
	if b == nil {
		return nil
	}
	return &BookingDTO{
		ID:         b.ID,
		BusinessID: b.BusinessID,
		Status:     string(b.Status),
		PartySize:  b.PartySize,
		BookingAt:  b.BookingAt,
		Note:       b.Note,
		CreatedAt:  b.CreatedAt,
	}
}
