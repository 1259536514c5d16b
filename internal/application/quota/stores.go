package quota

import (
	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
)

// StoreSet 按身份类别路由用量存储。
// 匿名会话没有档案行，计数走 Redis；注册用户计数以 Postgres 为准。
type StoreSet struct {
	Anonymous  repository.UsageCounterStore
	Registered repository.UsageCounterStore
}

// NewStoreSet 创建用量存储路由
func NewStoreSet(anonymous, registered repository.UsageCounterStore) *StoreSet {
	return &StoreSet{
		Anonymous:  anonymous,
		Registered: registered,
	}
}

// For 返回身份对应的主存储
func (s *StoreSet) For(id entity.Identity) repository.UsageCounterStore {
	if id.IsAnonymous() && s.Anonymous != nil {
		return s.Anonymous
	}
	return s.Registered
}

// FallbackFor 返回身份对应的备用存储；无备用时返回 nil
func (s *StoreSet) FallbackFor(id entity.Identity) repository.UsageCounterStore {
	if id.IsAnonymous() && s.Anonymous != nil {
		return s.Registered
	}
	return nil
}
