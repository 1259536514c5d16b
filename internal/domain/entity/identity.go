// Package entity 定义领域实体
package entity

import "strings"

// IdentityClass 调用方身份类别
type IdentityClass string

const (
	IdentityAnonymous  IdentityClass = "anonymous"
	IdentityDemo       IdentityClass = "demo"
	IdentityRegistered IdentityClass = "registered"
)

// 特殊用户 ID 字面量
const (
	AnonymousUserID = "anonymous"
	DemoUserID      = "demo-user"
	AdminUserID     = "admin"
)

// SubscriptionTier 订阅层级
type SubscriptionTier string

const (
	TierFree                 SubscriptionTier = "free"
	TierCustomer             SubscriptionTier = "customer"
	TierPremium              SubscriptionTier = "premium"
	TierFreeBusiness         SubscriptionTier = "free_business"
	TierProfessionalBusiness SubscriptionTier = "professional_business"
	TierEnterpriseBusiness   SubscriptionTier = "enterprise_business"
)

// ParseTier 解析订阅层级，未知值回落到 free
func ParseTier(s string) SubscriptionTier {
	switch SubscriptionTier(strings.ToLower(strings.TrimSpace(s))) {
	case TierCustomer:
		return TierCustomer
	case TierPremium:
		return TierPremium
	case TierFreeBusiness:
		return TierFreeBusiness
	case TierProfessionalBusiness:
		return TierProfessionalBusiness
	case TierEnterpriseBusiness:
		return TierEnterpriseBusiness
	default:
		return TierFree
	}
}

// Identity 一次请求的调用方身份。
// 匿名身份以 SessionID 为配额键；注册身份以 UserID 为配额键并携带层级。
type Identity struct {
	Class     IdentityClass
	UserID    string
	SessionID string
	Tier      SubscriptionTier
}

// ClassifyIdentity 根据 userId 字面量划分身份类别。
// "anonymous" -> 匿名（会话键），"demo-user"/"admin" -> 演示（不限额不落库），
// 其余任何值视为注册用户 ID（需要档案存在）。
func ClassifyIdentity(userID, sessionID string) Identity {
	switch strings.TrimSpace(userID) {
	case AnonymousUserID, "":
		return Identity{
			Class:     IdentityAnonymous,
			UserID:    AnonymousUserID,
			SessionID: sessionID,
			Tier:      TierFree,
		}
	case DemoUserID, AdminUserID:
		return Identity{
			Class:     IdentityDemo,
			UserID:    strings.TrimSpace(userID),
			SessionID: sessionID,
		}
	default:
		return Identity{
			Class:     IdentityRegistered,
			UserID:    strings.TrimSpace(userID),
			SessionID: sessionID,
		}
	}
}

// QuotaKey 返回用量计数所用的身份键
func (i Identity) QuotaKey() string {
	if i.Class == IdentityAnonymous {
		return "anon:" + i.SessionID
	}
	return "user:" + i.UserID
}

// IsAnonymous 是否匿名身份
func (i Identity) IsAnonymous() bool {
	return i.Class == IdentityAnonymous
}

// IsDemo 是否演示身份（不限额、不落库）
func (i Identity) IsDemo() bool {
	return i.Class == IdentityDemo
}

// ShouldPersist 对话是否需要落库（仅注册非演示身份）
func (i Identity) ShouldPersist() bool {
	return i.Class == IdentityRegistered
}
