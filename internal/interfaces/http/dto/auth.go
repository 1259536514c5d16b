// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"lifex-api/internal/domain/entity"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=64"`
	Name     string `json:"name" binding:"required,max=128"`
	City     string `json:"city" binding:"omitempty,max=64"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthUserDTO 认证响应中的用户信息
type AuthUserDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Tier      string `json:"tier"`
	City      string `json:"city,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // 秒
	User        *AuthUserDTO `json:"user"`
}

// ToAuthUserDTO 将用户实体转换为 DTO
func ToAuthUserDTO(u *entity.User) *AuthUserDTO {
	if u == nil {
		return nil
	}
	return &AuthUserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Tier:      string(u.Tier),
		City:      u.City,
		AvatarURL: u.AvatarURL,
	}
}
