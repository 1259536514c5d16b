// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/lib/pq"
)

// BusinessCategory 商家类目
type BusinessCategory string

const (
	CategoryCoffee     BusinessCategory = "coffee"
	CategoryRestaurant BusinessCategory = "restaurant"
	CategoryBar        BusinessCategory = "bar"
	CategoryGym        BusinessCategory = "gym"
	CategorySalon      BusinessCategory = "salon"
	CategoryShopping   BusinessCategory = "shopping"
	CategoryService    BusinessCategory = "service"
)

// Business 本地商家
type Business struct {
	ID          string           `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string           `json:"name" gorm:"type:varchar(255);not null"`
	Category    BusinessCategory `json:"category" gorm:"type:varchar(32);index;not null"`
	Tags        pq.StringArray   `json:"tags" gorm:"type:text[]"`
	Description string           `json:"description" gorm:"type:text"`
	Address     string           `json:"address" gorm:"type:varchar(512)"`
	City        string           `json:"city" gorm:"type:varchar(64);index"`
	Latitude    float64          `json:"latitude" gorm:"index:idx_business_geo,priority:1"`
	Longitude   float64          `json:"longitude" gorm:"index:idx_business_geo,priority:2"`
	Rating      float64          `json:"rating" gorm:"not null;default:0"`
	ReviewCount int              `json:"review_count" gorm:"not null;default:0"`
	PriceLevel  int              `json:"price_level" gorm:"not null;default:1"` // 1-4
	OpenHours   string           `json:"open_hours,omitempty" gorm:"type:varchar(255)"`
	Phone       string           `json:"phone,omitempty" gorm:"type:varchar(32)"`
	ImageURL    string           `json:"image_url,omitempty" gorm:"type:varchar(512)"`
	Active      bool             `json:"active" gorm:"not null;default:true;index"`
	CreatedAt   time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Business) TableName() string {
	return "businesses"
}

// BoundingBox 地理范围过滤
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Contains 判断坐标是否落在范围内
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// IsZero 是否未设置
func (b BoundingBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}
