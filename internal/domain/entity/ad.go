// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/lib/pq"
)

// AdPlacement 广告位类型
type AdPlacement string

const (
	PlacementChat     AdPlacement = "chat"
	PlacementTrending AdPlacement = "trending"
	PlacementSearch   AdPlacement = "search"
)

// Ad 投放中的广告
type Ad struct {
	ID          string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string         `json:"title" gorm:"type:varchar(255);not null"`
	Body        string         `json:"body" gorm:"type:text"`
	ImageURL    string         `json:"image_url,omitempty" gorm:"type:varchar(512)"`
	TargetURL   string         `json:"target_url,omitempty" gorm:"type:varchar(512)"`
	Placement   AdPlacement    `json:"placement" gorm:"type:varchar(16);index;not null"`
	TargetTiers pq.StringArray `json:"target_tiers" gorm:"type:text[]"` // 空表示全层级
	Keywords    pq.StringArray `json:"keywords" gorm:"type:text[]"`
	Weight      int            `json:"weight" gorm:"not null;default:1"`
	StartsAt    time.Time      `json:"starts_at" gorm:"not null"`
	EndsAt      time.Time      `json:"ends_at" gorm:"not null;index"`
	Active      bool           `json:"active" gorm:"not null;default:true;index"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Ad) TableName() string {
	return "ads"
}

// LiveAt 广告在给定时刻是否可投放
func (a *Ad) LiveAt(t time.Time) bool {
	return a.Active && !t.Before(a.StartsAt) && t.Before(a.EndsAt)
}

// TargetsTier 广告是否面向该层级（空目标表示全部层级）
func (a *Ad) TargetsTier(tier SubscriptionTier) bool {
	if len(a.TargetTiers) == 0 {
		return true
	}
	for _, t := range a.TargetTiers {
		if SubscriptionTier(t) == tier {
			return true
		}
	}
	return false
}
