package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"lifex-api/internal/config"
	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
	"lifex-api/internal/interfaces/http/dto"
	apperrors "lifex-api/pkg/errors"
	"lifex-api/pkg/logger"
	"lifex-api/pkg/utils"
)

const refreshCookieName = "refresh_token"

// AuthHandler 认证处理器
type AuthHandler struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(userRepo repository.UserRepository, jwtManager *utils.JWTManager, cfg *config.Config) *AuthHandler {
	accessTTL := cfg.Security.JWT.Expiration
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := cfg.Security.JWT.RefreshExpiration
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthHandler{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register 注册新用户
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()

	existing, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		logger.Error(ctx, "failed to query user by email", err, "email", req.Email)
		dto.InternalError(c, "failed to register user")
		return
	}
	if existing != nil {
		dto.AppError(c, apperrors.New(apperrors.CodeConflict, "email already registered"))
		return
	}

	user := entity.NewUser(req.Email, req.Name)
	user.City = req.City
	if err := user.SetPassword(req.Password); err != nil {
		logger.Error(ctx, "failed to hash password", err)
		dto.InternalError(c, "failed to register user")
		return
	}

	if err := h.userRepo.Create(ctx, user); err != nil {
		logger.Error(ctx, "failed to create user", err, "email", req.Email)
		dto.InternalError(c, "failed to register user")
		return
	}

	pair, err := h.jwtManager.GenerateTokenPair(user.ID, string(user.Tier), h.accessTTL, h.refreshTTL)
	if err != nil {
		logger.Error(ctx, "failed to generate token pair", err, "user_id", user.ID)
		dto.InternalError(c, "failed to register user")
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	dto.Created(c, &dto.AuthResponse{
		AccessToken: pair.AccessToken,
		ExpiresIn:   int(h.accessTTL.Seconds()),
		User:        dto.ToAuthUserDTO(user),
	})
}

// Login 登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		logger.Error(ctx, "failed to query user by email", err, "email", req.Email)
		dto.InternalError(c, "failed to login")
		return
	}
	// 不区分用户不存在与密码错误
	if user == nil || !user.CheckPassword(req.Password) {
		dto.Unauthorized(c, "invalid email or password")
		return
	}

	pair, err := h.jwtManager.GenerateTokenPair(user.ID, string(user.Tier), h.accessTTL, h.refreshTTL)
	if err != nil {
		logger.Error(ctx, "failed to generate token pair", err, "user_id", user.ID)
		dto.InternalError(c, "failed to login")
		return
	}

	if err := h.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		logger.Warn(ctx, "failed to update last login time", "user_id", user.ID, "error", err.Error())
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	dto.Success(c, &dto.AuthResponse{
		AccessToken: pair.AccessToken,
		ExpiresIn:   int(h.accessTTL.Seconds()),
		User:        dto.ToAuthUserDTO(user),
	})
}

// Refresh 用 RefreshToken 换取新的 Token 对
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		dto.Unauthorized(c, "missing refresh token")
		return
	}

	claims, err := h.jwtManager.ParseToken(refreshToken)
	if err != nil {
		if err == utils.ErrExpiredToken {
			dto.Unauthorized(c, "refresh token expired")
			return
		}
		dto.Unauthorized(c, "invalid refresh token")
		return
	}
	if claims.Type != "refresh" {
		dto.Unauthorized(c, "invalid token type")
		return
	}

	ctx := c.Request.Context()

	// 重新读取用户，层级可能发生变化
	user, err := h.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		logger.Error(ctx, "failed to query user", err, "user_id", claims.UserID)
		dto.InternalError(c, "failed to refresh token")
		return
	}
	if user == nil {
		dto.Unauthorized(c, "user not found")
		return
	}

	pair, err := h.jwtManager.GenerateTokenPair(user.ID, string(user.Tier), h.accessTTL, h.refreshTTL)
	if err != nil {
		logger.Error(ctx, "failed to generate token pair", err, "user_id", user.ID)
		dto.InternalError(c, "failed to refresh token")
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	dto.Success(c, &dto.AuthResponse{
		AccessToken: pair.AccessToken,
		ExpiresIn:   int(h.accessTTL.Seconds()),
		User:        dto.ToAuthUserDTO(user),
	})
}

// Logout 登出，清除 RefreshToken Cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(refreshCookieName, "", -1, "/v1/auth/refresh", "", false, true)
	dto.Success(c, gin.H{"message": "logged out"})
}

// Me 返回当前用户信息
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		dto.Unauthorized(c, "authentication required")
		return
	}

	ctx := c.Request.Context()
	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error(ctx, "failed to query user", err, "user_id", userID)
		dto.InternalError(c, "failed to load user")
		return
	}
	if user == nil {
		dto.AppError(c, apperrors.New(apperrors.CodeUserNotFound, "user not found"))
		return
	}

	dto.Success(c, dto.ToAuthUserDTO(user))
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetCookie(refreshCookieName, token, int(h.refreshTTL.Seconds()), "/v1/auth/refresh", "", false, true)
}
