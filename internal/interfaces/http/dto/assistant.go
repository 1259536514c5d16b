// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"lifex-api/internal/application/assistant"
	"lifex-api/internal/domain/entity"
)

// ChatRequest 助手对话请求
type ChatRequest struct {
	Message       string `json:"message" binding:"required"`
	UserID        string `json:"userId"`
	SessionID     string `json:"sessionId"`
	AssistantType string `json:"assistantType" binding:"omitempty,oneof=coly max"`
}

// QuotaDTO 配额快照
type QuotaDTO struct {
	Current   int    `json:"current"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	ResetTime string `json:"resetTime"`
	Degraded  bool   `json:"degraded,omitempty"`
}

// AdInfoDTO 广告信息
type AdInfoDTO struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
	LinkURL  string `json:"linkUrl,omitempty"`
}

// ChatData 助手对话响应数据
type ChatData struct {
	Message           string         `json:"message"`
	Recommendations   []*BusinessDTO `json:"recommendations"`
	FollowUpQuestions []string       `json:"followUpQuestions"`
	AdInfo            *AdInfoDTO     `json:"adInfo,omitempty"`
	Quota             QuotaDTO       `json:"quota"`
	Source            string         `json:"source"`
	Persona           string         `json:"persona"`
	SessionID         string         `json:"sessionId"`
}

// ConversationMessageDTO 对话消息
type ConversationMessageDTO struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role"`
	Persona   string    `json:"persona"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToQuotaDTO 转换配额快照
func ToQuotaDTO(q assistant.QuotaInfo) QuotaDTO {
	return QuotaDTO{
		Current:   q.Current,
		Limit:     q.Limit,
		Remaining: q.Remaining,
		ResetTime: q.ResetAt.UTC().Format(time.RFC3339),
		Degraded:  q.Degraded,
	}
}

// ToAdInfoDTO 转换广告信息
func ToAdInfoDTO(ad *entity.Ad) *AdInfoDTO {
	if ad == nil {
		return nil
	}
	return &AdInfoDTO{
		ID:       ad.ID,
		Title:    ad.Title,
		Content:  ad.Body,
		ImageURL: ad.ImageURL,
		LinkURL:  ad.TargetURL,
	}
}

// ToChatData 转换助手回复
func ToChatData(out *assistant.ChatOutput) *ChatData {
	recommendations := make([]*BusinessDTO, 0, len(out.Reply.Recommendations))
	for _, b := range out.Reply.Recommendations {
		recommendations = append(recommendations, ToBusinessDTO(b))
	}

	return &ChatData{
		Message:           out.Reply.Message,
		Recommendations:   recommendations,
		FollowUpQuestions: out.Reply.FollowUpQuestions,
		AdInfo:            ToAdInfoDTO(out.Reply.Ad),
		Quota:             ToQuotaDTO(out.Quota),
		Source:            string(out.Reply.Source),
		Persona:           string(out.Persona),
		SessionID:         out.SessionID,
	}
}

// ToConversationMessageDTO 转换对话消息
func ToConversationMessageDTO(m *entity.ConversationMessage) *ConversationMessageDTO {
	return &ConversationMessageDTO{
		ID:        m.ID,
		SessionID: m.SessionID,
		Role:      string(m.Role),
		Persona:   string(m.Persona),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
