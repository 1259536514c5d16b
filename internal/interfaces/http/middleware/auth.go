// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"
	"strings"

	"lifex-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthConfig 认证配置
type AuthConfig struct {
	// Secret JWT 密钥
	Secret string
	// Issuer JWT 签发者
	Issuer string
	// SkipPaths 跳过认证的路径（前缀匹配）
	SkipPaths []string
	// OptionalPaths 认证可选的路径：带合法 Token 时注入身份，不带也放行。
	// 助手对话接口接受匿名调用，身份在处理器里按 userId 字面量解析。
	OptionalPaths []string
	// Enabled 是否启用认证
	Enabled bool
}

// Auth 认证中间件
func Auth(cfg AuthConfig) gin.HandlerFunc {
	jwtManager := utils.NewJWTManager(cfg.Secret, cfg.Issuer)

	skipMap := make(map[string]bool)
	for _, path := range cfg.SkipPaths {
		skipMap[path] = true
	}
	optionalMap := make(map[string]bool)
	for _, path := range cfg.OptionalPaths {
		optionalMap[path] = true
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		if skipMap[path] {
			c.Next()
			return
		}
		for p := range skipMap {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}

		optional := optionalMap[path]

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if optional {
				c.Next()
				return
			}
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization format")
			return
		}

		claims, err := jwtManager.ParseToken(parts[1])
		if err != nil {
			msg := "invalid token"
			if err == utils.ErrExpiredToken {
				msg = "token expired"
			}
			abortUnauthorized(c, msg)
			return
		}

		if claims.Type != "access" {
			abortUnauthorized(c, "invalid token type")
			return
		}

		// 注入用户信息到 Context
		c.Set("user_id", claims.UserID)
		c.Set("tier", claims.Tier)

		c.Next()
	}
}

// abortUnauthorized 终止请求并返回 401
func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success":  false,
		"code":     401,
		"message":  msg,
		"trace_id": c.GetString("trace_id"),
	})
}

// DefaultSkipPaths 默认跳过认证的路径
var DefaultSkipPaths = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
	"/v1/auth",
	"/v1/businesses",
	"/v1/trending",
}

// DefaultOptionalPaths 默认认证可选的路径
var DefaultOptionalPaths = []string{
	"/v1/assistant/chat",
	"/v1/assistant/quota",
}
