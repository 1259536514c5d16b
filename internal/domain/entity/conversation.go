// Package entity 定义领域实体
package entity

import (
	"encoding/json"
	"time"
)

// Role 对话角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Persona 助手人设
type Persona string

const (
	PersonaColy Persona = "coly"
	PersonaMax  Persona = "max"
)

// ParsePersona 解析助手人设，未知值回落到 coly
func ParsePersona(s string) Persona {
	if Persona(s) == PersonaMax {
		return PersonaMax
	}
	return PersonaColy
}

// ConversationMessage 对话消息，仅注册非演示用户落库，追加写入不可变更
type ConversationMessage struct {
	ID        string          `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    string          `json:"user_id" gorm:"type:uuid;index:idx_conv_user_session,priority:1;not null"`
	SessionID string          `json:"session_id" gorm:"type:varchar(64);index:idx_conv_user_session,priority:2;not null"`
	Role      Role            `json:"role" gorm:"type:varchar(16);not null"`
	Persona   Persona         `json:"persona" gorm:"type:varchar(16);not null;default:'coly'"`
	Content   string          `json:"content" gorm:"type:text;not null"`
	Metadata  json.RawMessage `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

func (ConversationMessage) TableName() string {
	return "conversation_messages"
}

// NewConversationMessage 创建一条对话消息
func NewConversationMessage(userID, sessionID string, role Role, persona Persona, content string, metadata json.RawMessage) *ConversationMessage {
	return &ConversationMessage{
		UserID:    userID,
		SessionID: sessionID,
		Role:      role,
		Persona:   persona,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
}
