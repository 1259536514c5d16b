// Package entity 定义领域实体
package entity

import "time"

// BookingStatus 预订状态
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking 用户对商家的预订
type Booking struct {
	ID         string        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     string        `json:"user_id" gorm:"type:uuid;index;not null"`
	BusinessID string        `json:"business_id" gorm:"type:uuid;index;not null"`
	Status     BookingStatus `json:"status" gorm:"type:varchar(16);not null;default:'pending'"`
	PartySize  int           `json:"party_size" gorm:"not null;default:1"`
	BookingAt  time.Time     `json:"booking_at" gorm:"not null;index"`
	Note       string        `json:"note,omitempty" gorm:"type:varchar(512)"`
	CreatedAt  time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Booking) TableName() string {
	return "bookings"
}

// NewBooking 创建预订（初始 pending）
func NewBooking(userID, businessID string, partySize int, bookingAt time.Time, note string) *Booking {
	if partySize < 1 {
		partySize = 1
	}
	return &Booking{
		UserID:     userID,
		BusinessID: businessID,
		Status:     BookingPending,
		PartySize:  partySize,
		BookingAt:  bookingAt,
		Note:       note,
		CreatedAt:  time.Now(),
	}
}

// CanCancel 是否可以取消
func (b *Booking) CanCancel() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}
