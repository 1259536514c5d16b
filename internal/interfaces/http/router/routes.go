// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	// 认证管理
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	// 用户管理
	users := v1.Group("/users")
	{
		users.GET("/me", h.Auth.Me)
	}

	// AI 助手
	assistant := v1.Group("/assistant")
	{
		assistant.POST("/chat", h.Assistant.Chat)
		assistant.GET("/quota", h.Assistant.Quota)
		assistant.GET("/conversations", h.Assistant.Conversations)
	}

	// 商家检索
	businesses := v1.Group("/businesses")
	{
		businesses.GET("", h.Business.Search)
		businesses.GET("/:bid", h.Business.GetByID)
	}

	// 热门榜单
	v1.GET("/trending", h.Trending.Trending)

	// 预订管理
	bookings := v1.Group("/bookings")
	{
		bookings.POST("", h.Booking.Create)
		bookings.GET("", h.Booking.List)
		bookings.DELETE("/:id", h.Booking.Cancel)
	}
}
