package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifex-api/internal/application/assistant"
	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
	"lifex-api/internal/interfaces/http/dto"
	apperrors "lifex-api/pkg/errors"
	"lifex-api/pkg/logger"
)

// AssistantHandler AI 助手处理器
type AssistantHandler struct {
	service *assistant.Service
}

// NewAssistantHandler 创建 AI 助手处理器
func NewAssistantHandler(service *assistant.Service) *AssistantHandler {
	return &AssistantHandler{service: service}
}

// Chat 一次助手对话。匿名与演示身份由请求体 userId 字段区分，
// 携带有效 Token 的请求以 Token 中的用户为准。
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	userID := req.UserID
	if authed := c.GetString("user_id"); authed != "" {
		userID = authed
	}

	out, err := h.service.Chat(c.Request.Context(), assistant.ChatInput{
		UserID:        userID,
		SessionID:     req.SessionID,
		Message:       req.Message,
		AssistantType: req.AssistantType,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrQuotaExceeded) && out != nil {
			dto.ErrorWithData(c, http.StatusTooManyRequests, "quota exceeded", gin.H{
				"quota":     dto.ToQuotaDTO(out.Quota),
				"sessionId": out.SessionID,
			})
			return
		}
		if appErr, ok := err.(*apperrors.AppError); ok {
			dto.AppError(c, appErr)
			return
		}
		logger.Error(c.Request.Context(), "assistant chat failed", err)
		dto.InternalError(c, "failed to process chat request")
		return
	}

	dto.Success(c, dto.ToChatData(out))
}

// Quota 只读查询配额状态，不消耗配额
func (h *AssistantHandler) Quota(c *gin.Context) {
	userID := c.Query("userId")
	if authed := c.GetString("user_id"); authed != "" {
		userID = authed
	}
	sessionID := c.Query("sessionId")
	feature := entity.ParseFeature(c.Query("feature"))

	info, err := h.service.QuotaState(c.Request.Context(), userID, sessionID, feature)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			dto.AppError(c, appErr)
			return
		}
		logger.Error(c.Request.Context(), "quota state query failed", err)
		dto.InternalError(c, "failed to query quota")
		return
	}

	dto.Success(c, dto.ToQuotaDTO(*info))
}

// Conversations 返回注册用户某会话的消息记录
func (h *AssistantHandler) Conversations(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		dto.Unauthorized(c, "authentication required")
		return
	}

	sessionID := c.Query("sessionId")
	if sessionID == "" {
		dto.BadRequest(c, "sessionId is required")
		return
	}

	var pageQuery struct {
		Page     int `form:"page,default=1" binding:"omitempty,min=1"`
		PageSize int `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&pageQuery); err != nil {
		dto.BadRequest(c, "invalid pagination: "+err.Error())
		return
	}

	result, err := h.service.History(c.Request.Context(), userID, sessionID,
		repository.NewPagination(pageQuery.Page, pageQuery.PageSize))
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			dto.AppError(c, appErr)
			return
		}
		logger.Error(c.Request.Context(), "failed to list conversation messages", err, "session_id", sessionID)
		dto.InternalError(c, "failed to list conversation messages")
		return
	}

	messages := make([]*dto.ConversationMessageDTO, 0, len(result.Items))
	for _, m := range result.Items {
		messages = append(messages, dto.ToConversationMessageDTO(m))
	}
	dto.SuccessWithPage(c, messages, dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}
