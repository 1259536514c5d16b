// Package entity 定义领域实体
package entity

import "time"

// UsageCounter 按 (身份键, 特性, 周期键) 累计的用量计数。
// 约束：同一 (identity_key, feature, period_key) 至多一行；周期翻转通过
// 新周期键产生新行实现，旧行不再被查询。
type UsageCounter struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IdentityKey string    `json:"identity_key" gorm:"type:varchar(128);not null;uniqueIndex:uq_usage_counter,priority:1"`
	Feature     Feature   `json:"feature" gorm:"type:varchar(32);not null;uniqueIndex:uq_usage_counter,priority:2"`
	PeriodKey   string    `json:"period_key" gorm:"type:varchar(16);not null;uniqueIndex:uq_usage_counter,priority:3"`
	Count       int       `json:"count" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (UsageCounter) TableName() string {
	return "usage_counters"
}
