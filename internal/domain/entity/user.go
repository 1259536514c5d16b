// Package entity 定义领域实体
package entity

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User 注册用户档案
type User struct {
	ID           string           `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string           `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string           `json:"-" gorm:"type:varchar(128);not null"`
	Name         string           `json:"name" gorm:"type:varchar(128);not null"`
	Tier         SubscriptionTier `json:"tier" gorm:"type:varchar(32);not null;default:'free'"`
	AvatarURL    string           `json:"avatar_url,omitempty" gorm:"type:varchar(512)"`
	City         string           `json:"city,omitempty" gorm:"type:varchar(64)"`
	LastLoginAt  *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// NewUser 创建新用户（默认 free 层级）
func NewUser(email, name string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Name:      name,
		Tier:      TierFree,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsBusinessTier 是否商家侧层级
func (u *User) IsBusinessTier() bool {
	switch u.Tier {
	case TierFreeBusiness, TierProfessionalBusiness, TierEnterpriseBusiness:
		return true
	}
	return false
}

// SetPassword 设置并散列密码
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword 校验密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
